package cli

import (
	"context"

	"github.com/calvinalkan/todo/internal/task"

	flag "github.com/spf13/pflag"
)

// ShowCmd returns the show command.
func ShowCmd(s *session) *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Usage: "show <id>",
		Short: "Show task details",
		Long:  "Display every field of a task. The ID may be any unique prefix.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execShow(ctx, io, s, args)
		},
	}
}

func execShow(ctx context.Context, io *IO, s *session, args []string) error {
	if len(args) == 0 {
		return task.ErrIDRequired
	}

	store, id, err := s.resolve(ctx, io, args[0])
	if err != nil {
		return err
	}

	t, err := store.Get(id)
	if err != nil {
		return err
	}

	locale := s.locale()

	io.Println("id:          " + t.ID)
	io.Println("title:       " + t.Title)
	io.Println("description: " + t.Description)
	io.Println("executor:    " + t.Executor)
	io.Println("deadline:    " + task.DeadlineLabel(t.Deadline, locale))
	io.Println("status:      " + task.Label(t.Status, locale))

	return nil
}
