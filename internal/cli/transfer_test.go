package cli_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/todo/internal/cli"
)

func Test_Export_Writes_Default_Backup_File(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.AddTask("Write report")
	c.MustRun("status", id, "completed")

	stdout := c.MustRun("export")
	cli.AssertContains(t, stdout, "Exported 1 tasks to "+filepath.Join(c.Dir, "todo-tasks-backup.json"))

	content := c.ReadFile("todo-tasks-backup.json")
	cli.AssertContains(t, content, `"id": "`+id+`"`)
	cli.AssertContains(t, content, `"title": "Write report"`)
	cli.AssertContains(t, content, `"status": "completed"`)
}

func Test_Export_To_Stdout_As_YAML(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.AddTask("Write report")

	stdout := c.MustRun("export", "--stdout", "--format", "yaml")
	cli.AssertContains(t, stdout, "- id: ")
	cli.AssertContains(t, stdout, "  title: Write report")
	cli.AssertContains(t, stdout, "  status: active")
}

func Test_Export_Then_Import_Restores_Tasks(t *testing.T) {
	t.Parallel()

	for _, file := range []string{"backup.json", "backup.yaml"} {
		t.Run(file, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.AddTask("first")
			second := c.AddTask("second")
			c.MustRun("status", second, "cancelled")
			c.MustRun("edit", second, "deadline", "")

			before := c.MustRun("ls")

			c.MustRun("export", "-o", file)
			c.MustRun("clear", "--yes")

			cli.AssertContains(t, c.MustRun("import", file), "Imported 2 tasks")

			if got := c.MustRun("ls"); got != before {
				t.Errorf("ls after import differs\nbefore:\n%s\nafter:\n%s", before, got)
			}
		})
	}
}

func Test_Import_Malformed_Payload_Leaves_Tasks_Unchanged(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.AddTask("keep me")

	before := c.MustRun("ls")

	c.WriteFile("bad.json", `{"id": "1", "title": "not a list"}`)

	stderr := c.MustFail("import", "bad.json")
	cli.AssertContains(t, stderr, "invalid payload")

	if got := c.MustRun("ls"); got != before {
		t.Errorf("ls changed after failed import\nbefore:\n%s\nafter:\n%s", before, got)
	}
}

func Test_Import_Rejects_Unknown_Status(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("bad.json", `[{"id": "1", "title": "x", "status": "archived"}]`)

	stderr := c.MustFail("import", "bad.json")
	cli.AssertContains(t, stderr, "record 0")
	cli.AssertContains(t, stderr, `invalid status "archived"`)
}

func Test_Import_From_Stdin_Fills_Missing_IDs_And_Status(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	payload := `[
  // hand written
  {"id": 1, "title": "numeric id", "executor": "Bob", "deadline": "2024-01-02"},
  {"title": "no id", "status": "completed"},
]`

	stdout, stderr, code := c.RunWithInput(payload, "import", "-")
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, stderr)
	}

	cli.AssertContains(t, stdout, "Imported 2 tasks")

	cli.AssertContains(t, c.MustRun("show", "1"), "status:      Active task")

	lines := strings.Split(c.MustRun("ls"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	cli.AssertContains(t, lines[1], "[Task completed] - no id (")
}

func Test_Import_Returns_Error_When_File_Missing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("import", "nope.json")
	cli.AssertContains(t, stderr, "read nope.json")

	stderr = c.MustFail("import")
	cli.AssertContains(t, stderr, "missing argument")
}
