package cli

import (
	"context"
	"strings"

	"github.com/calvinalkan/todo/internal/task"

	flag "github.com/spf13/pflag"
)

// StatusCmd returns the status command.
func StatusCmd(s *session) *Command {
	return &Command{
		Flags: flag.NewFlagSet("status", flag.ContinueOnError),
		Usage: "status <id> <status>",
		Short: "Set task status",
		Long: `Set the status of a task to active, completed or cancelled.

Display labels such as "Task completed" are accepted too.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execStatus(ctx, io, s, args)
		},
	}
}

func execStatus(ctx context.Context, io *IO, s *session, args []string) error {
	if len(args) == 0 {
		return task.ErrIDRequired
	}

	err := requireArgs(args, 2, "usage: status <id> <status>")
	if err != nil {
		return err
	}

	status, err := task.ParseStatus(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	store, id, err := s.resolve(ctx, io, args[0])
	if err != nil {
		return err
	}

	updated, err := store.SetStatus(id, status)
	if err = s.saved(io, err); err != nil {
		return err
	}

	io.Println(updated.ID, task.Label(updated.Status, s.locale()))

	return nil
}
