package cli_test

import (
	"testing"

	"github.com/calvinalkan/todo/internal/cli"
)

func Test_Edit_Replaces_Field(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.AddTask("Write report")

	if got := c.MustRun("edit", id, "executor", "Bob", "Smith"); got != id {
		t.Errorf("edit should print the id, got %q", got)
	}

	stdout := c.MustRun("show", id)
	cli.AssertContains(t, stdout, "executor:    Bob Smith")
	cli.AssertContains(t, stdout, "title:       Write report")
}

func Test_Edit_Returns_Error_When_Value_Blank(t *testing.T) {
	t.Parallel()

	for _, field := range []string{"title", "description", "executor"} {
		t.Run(field, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			id := c.AddTask("Write report")

			stderr := c.MustFail("edit", id, field, "   ")
			cli.AssertContains(t, stderr, "invalid "+field+": must not be empty")

			cli.AssertContains(t, c.MustRun("show", id), "title:       Write report")
		})
	}
}

func Test_Edit_Clears_Deadline(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.AddTask("Write report")

	c.MustRun("edit", id, "deadline", "")

	cli.AssertContains(t, c.MustRun("show", id), "deadline:    -")
}

func Test_Edit_Returns_Error_When_Field_Or_Task_Invalid(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.AddTask("Write report")

	for _, tt := range []struct {
		args       []string
		wantStderr string
	}{
		{[]string{"edit"}, "task ID is required"},
		{[]string{"edit", id, "title"}, "missing argument"},
		{[]string{"edit", id, "status", "completed"}, "not an editable field"},
		{[]string{"edit", id, "deadline", "soon"}, "YYYY-MM-DD"},
		{[]string{"edit", "nope", "title", "x"}, "task not found: nope"},
	} {
		stderr := c.MustFail(tt.args...)
		cli.AssertContains(t, stderr, tt.wantStderr)
	}
}

func Test_Status_Sets_Status_And_Accepts_Labels(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.AddTask("Write report")

	stdout := c.MustRun("status", id, "completed")
	cli.AssertContains(t, stdout, id+" Task completed")

	stdout = c.MustRun("status", id, "Task", "cancelled")
	cli.AssertContains(t, stdout, "Task cancelled")

	stderr := c.MustFail("status", id, "archived")
	cli.AssertContains(t, stderr, `invalid status "archived"`)

	cli.AssertContains(t, c.MustRun("show", id), "status:      Task cancelled")
}

func Test_Rm_Deletes_Task_And_Keeps_Others(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	first := c.AddTask("first")
	second := c.AddTask("second")
	third := c.AddTask("third")

	if got := c.MustRun("rm", second); got != second {
		t.Errorf("rm should print the id, got %q", got)
	}

	stdout := c.MustRun("ls")
	cli.AssertNotContains(t, stdout, "second")
	cli.AssertContains(t, c.MustRun("show", first), "first")
	cli.AssertContains(t, c.MustRun("show", third), "third")
}

func Test_Rm_Returns_NotFound_And_Leaves_Tasks(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.AddTask("keep me")

	stderr := c.MustFail("rm", "does-not-exist")
	cli.AssertContains(t, stderr, "task not found: does-not-exist")

	cli.AssertContains(t, c.MustRun("ls"), "keep me")
}

func Test_Show_Returns_Error_When_Prefix_Ambiguous(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	a := c.AddTask("a")
	c.AddTask("b")

	// Both ids are UUIDv7 generated back to back and share their
	// leading timestamp digits.
	stderr := c.MustFail("show", a[:4])
	cli.AssertContains(t, stderr, "ambiguous task ID")
}
