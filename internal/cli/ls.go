package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calvinalkan/todo/internal/task"

	flag "github.com/spf13/pflag"
)

const (
	defaultLimit = 100
	minShortID   = 8
)

// LsCmd returns the ls command.
func LsCmd(s *session) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.StringP("filter", "f", "all", "Filter: all|active|completed|done|cancelled")
	fs.Int("limit", defaultLimit, "Maximum tasks to show (0 = no limit)")
	fs.Int("offset", 0, "Skip first N tasks")

	return &Command{
		Flags: fs,
		Usage: "ls [flags]",
		Short: "List tasks",
		Long: `List tasks in the order they were added.

The "completed" filter shows every finished task, completed or cancelled;
"done" and "cancelled" show one of the two.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execLs(ctx, io, s, fs)
		},
	}
}

func execLs(ctx context.Context, io *IO, s *session, fs *flag.FlagSet) error {
	rawMode, _ := fs.GetString("filter")

	mode, err := task.ParseMode(rawMode)
	if err != nil {
		return err
	}

	limit, _ := fs.GetInt("limit")
	if limit < 0 {
		return errors.New("--limit must be non-negative")
	}

	offset, _ := fs.GetInt("offset")
	if offset < 0 {
		return errors.New("--offset must be non-negative")
	}

	store, err := s.open(ctx, io)
	if err != nil {
		return err
	}

	all := store.List()
	view := task.Filter(all, mode)
	view = view[min(offset, len(view)):]

	if limit > 0 && len(view) > limit {
		view = view[:limit]
	}

	if len(view) == 0 {
		io.Println(s.msg().noTasks)

		return nil
	}

	short := shortIDs(all)
	styles := newStatusStyles(lipgloss.NewRenderer(io.Out()))

	for _, t := range view {
		io.Println(formatTaskLine(t, short[t.ID], styles, s.locale()))
	}

	return nil
}

// formatTaskLine renders "<id> [<status>] - <title> (executor: X, deadline: Y)".
func formatTaskLine(t task.Task, shortID string, styles statusStyles, locale task.Locale) string {
	var builder strings.Builder

	builder.WriteString(shortID)
	builder.WriteString(" ")
	builder.WriteString(styles.render(t.Status, "["+task.Label(t.Status, locale)+"]"))
	builder.WriteString(" - ")
	builder.WriteString(t.Title)
	builder.WriteString(" (executor: ")
	builder.WriteString(t.Executor)
	builder.WriteString(", deadline: ")
	builder.WriteString(task.DeadlineLabel(t.Deadline, locale))
	builder.WriteString(")")

	return builder.String()
}

// statusStyles colors status labels. Styling keys off the Status value,
// never the rendered label.
type statusStyles map[task.Status]lipgloss.Style

func newStatusStyles(r *lipgloss.Renderer) statusStyles {
	return statusStyles{
		task.StatusActive:    r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		task.StatusCompleted: r.NewStyle().Foreground(lipgloss.Color("2")),
		task.StatusCancelled: r.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true),
	}
}

func (st statusStyles) render(status task.Status, text string) string {
	style, ok := st[status]
	if !ok {
		return text
	}

	return style.Render(text)
}

// shortIDs maps every id to its shortest prefix (at least minShortID long)
// that no other id starts with, so the prefix resolves back to it.
func shortIDs(tasks []task.Task) map[string]string {
	short := make(map[string]string, len(tasks))

	for i, t := range tasks {
		n := min(minShortID, len(t.ID))

		for ; n < len(t.ID); n++ {
			if uniquePrefix(tasks, i, t.ID[:n]) {
				break
			}
		}

		short[t.ID] = t.ID[:n]
	}

	return short
}

func uniquePrefix(tasks []task.Task, self int, prefix string) bool {
	for j, other := range tasks {
		if j != self && strings.HasPrefix(other.ID, prefix) {
			return false
		}
	}

	return true
}
