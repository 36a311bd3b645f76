package cli

import (
	"context"

	"github.com/calvinalkan/todo/internal/task"

	flag "github.com/spf13/pflag"
)

// RmCmd returns the rm command.
func RmCmd(s *session) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <id>",
		Short: "Delete a task",
		Long:  "Delete a task. The remaining tasks keep their order.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execRm(ctx, io, s, args)
		},
	}
}

func execRm(ctx context.Context, io *IO, s *session, args []string) error {
	if len(args) == 0 {
		return task.ErrIDRequired
	}

	store, id, err := s.resolve(ctx, io, args[0])
	if err != nil {
		return err
	}

	err = s.saved(io, store.Delete(id))
	if err != nil {
		return err
	}

	io.Println(id)

	return nil
}
