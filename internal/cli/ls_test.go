package cli_test

import (
	"strings"
	"testing"

	"github.com/calvinalkan/todo/internal/cli"
)

func Test_Ls_Prints_No_Tasks_When_Empty(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	if got, want := c.MustRun("ls"), "No tasks"; got != want {
		t.Errorf("ls=%q, want=%q", got, want)
	}
}

func Test_Ls_Filters_By_Mode_In_Insertion_Order(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	c.AddTask("first")
	done := c.AddTask("second")
	dropped := c.AddTask("third")
	c.AddTask("fourth")

	c.MustRun("status", done, "completed")
	c.MustRun("status", dropped, "cancelled")

	for _, tt := range []struct {
		filter string
		want   []string
	}{
		{"all", []string{"first", "second", "third", "fourth"}},
		{"active", []string{"first", "fourth"}},
		{"completed", []string{"second", "third"}},
		{"done", []string{"second"}},
		{"cancelled", []string{"third"}},
	} {
		stdout := c.MustRun("ls", "-f", tt.filter)
		lines := strings.Split(stdout, "\n")

		if len(lines) != len(tt.want) {
			t.Fatalf("ls -f %s: got %d lines, want %d\n%s", tt.filter, len(lines), len(tt.want), stdout)
		}

		for i, title := range tt.want {
			cli.AssertContains(t, lines[i], "- "+title+" (")
		}
	}
}

func Test_Ls_Returns_Error_When_Filter_Unknown(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("ls", "--filter", "archived")

	cli.AssertContains(t, stderr, `invalid filter "archived"`)
}

func Test_Ls_Line_Shows_Status_Executor_And_Deadline(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("add", "Write report", "-d", "Draft", "-e", "Alice", "--deadline", "2024-06-01")

	stdout := c.MustRun("ls")
	cli.AssertContains(t, stdout, " [Active task] - Write report (executor: Alice, deadline: Jun 1, 2024)")
}

func Test_Ls_Short_IDs_Resolve_Back(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	ids := []string{c.AddTask("one"), c.AddTask("two"), c.AddTask("three")}

	lines := strings.Split(c.MustRun("ls"), "\n")
	if len(lines) != len(ids) {
		t.Fatalf("got %d lines, want %d", len(lines), len(ids))
	}

	for i, line := range lines {
		short, _, _ := strings.Cut(line, " ")

		if !strings.HasPrefix(ids[i], short) {
			t.Fatalf("short id %q is not a prefix of %q", short, ids[i])
		}

		cli.AssertContains(t, c.MustRun("show", short), "id:          "+ids[i])
	}
}

func Test_Ls_Limit_And_Offset(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	for _, title := range []string{"a1", "a2", "a3", "a4"} {
		c.AddTask(title)
	}

	stdout := c.MustRun("ls", "--offset", "1", "--limit", "2")
	lines := strings.Split(stdout, "\n")

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2\n%s", len(lines), stdout)
	}

	cli.AssertContains(t, lines[0], "- a2 (")
	cli.AssertContains(t, lines[1], "- a3 (")

	if got := c.MustRun("ls", "--offset", "10"); got != "No tasks" {
		t.Errorf("offset past end: ls=%q", got)
	}

	stderr := c.MustFail("ls", "--limit", "-1")
	cli.AssertContains(t, stderr, "--limit must be non-negative")
}
