package cli

import (
	"context"
	"strings"

	"github.com/calvinalkan/todo/internal/task"

	flag "github.com/spf13/pflag"
)

// EditCmd returns the edit command.
func EditCmd(s *session) *Command {
	return &Command{
		Flags: flag.NewFlagSet("edit", flag.ContinueOnError),
		Usage: "edit <id> <field> <value>",
		Short: "Change one field of a task",
		Long: `Replace one field of a task. Field is title, description, executor or
deadline. Remaining words are joined into the value.

Title, description and executor cannot be blank. An empty deadline ("")
clears it; otherwise it must be YYYY-MM-DD.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execEdit(ctx, io, s, args)
		},
	}
}

func execEdit(ctx context.Context, io *IO, s *session, args []string) error {
	if len(args) == 0 {
		return task.ErrIDRequired
	}

	err := requireArgs(args, 3, "usage: edit <id> <field> <value>")
	if err != nil {
		return err
	}

	field, err := task.ParseField(args[1])
	if err != nil {
		return err
	}

	value := strings.Join(args[2:], " ")

	err = task.ValidateUpdate(field, value)
	if err != nil {
		return err
	}

	store, id, err := s.resolve(ctx, io, args[0])
	if err != nil {
		return err
	}

	updated, err := store.Update(id, field, value)
	if err = s.saved(io, err); err != nil {
		return err
	}

	io.Println(updated.ID)

	return nil
}
