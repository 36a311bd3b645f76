package cli

import (
	"context"
	"strings"

	"github.com/calvinalkan/todo/internal/task"

	flag "github.com/spf13/pflag"
)

// AddCmd returns the add command.
func AddCmd(s *session) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.StringP("description", "d", "", "Description text")
	fs.StringP("executor", "e", "", "Who carries the task out")
	fs.String("deadline", "", "Due date (YYYY-MM-DD)")
	fs.StringP("status", "s", "", "Initial status: active|completed|cancelled [default: active]")

	return &Command{
		Flags: fs,
		Usage: "add <title> [flags]",
		Short: "Add a task, prints ID",
		Long: `Add a task to the end of the list. Prints the new task ID on success.

Title, description, executor and deadline are all required.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execAdd(ctx, io, s, fs, args)
		},
	}
}

func execAdd(ctx context.Context, io *IO, s *session, fs *flag.FlagSet, args []string) error {
	description, _ := fs.GetString("description")
	executor, _ := fs.GetString("executor")
	deadline, _ := fs.GetString("deadline")

	fields := task.Fields{
		Title:       strings.Join(args, " "),
		Description: description,
		Executor:    executor,
		Deadline:    deadline,
	}

	if fs.Changed("status") {
		raw, _ := fs.GetString("status")

		status, err := task.ParseStatus(raw)
		if err != nil {
			return err
		}

		fields.Status = status
	}

	// Validate before touching the data dir.
	err := task.ValidateCreate(fields)
	if err != nil {
		return err
	}

	store, err := s.open(ctx, io)
	if err != nil {
		return err
	}

	created, err := store.Create(fields)
	if err = s.saved(io, err); err != nil {
		return err
	}

	io.Println(created.ID)

	return nil
}
