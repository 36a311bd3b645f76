package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// ClearCmd returns the clear command.
func ClearCmd(s *session) *Command {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	fs.BoolP("yes", "y", false, "Skip the confirmation prompt")

	return &Command{
		Flags: fs,
		Usage: "clear [--yes]",
		Short: "Delete all tasks",
		Long: `Delete every task. Asks for confirmation on stdin unless --yes is given;
without an answer nothing is deleted.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execClear(ctx, io, s, fs)
		},
	}
}

func execClear(ctx context.Context, io *IO, s *session, fs *flag.FlagSet) error {
	store, err := s.open(ctx, io)
	if err != nil {
		return err
	}

	count := store.Len()

	yes, _ := fs.GetBool("yes")
	if !yes {
		ok, err := s.confirm(fmt.Sprintf(s.msg().confirmClear, count))
		if errors.Is(err, errNoInput) {
			return errConfirmRequired
		}

		if err != nil {
			return fmt.Errorf("reading confirmation: %w", err)
		}

		if !ok {
			io.Println(s.msg().cancelled)

			return nil
		}
	}

	err = s.saved(io, store.Clear())
	if err != nil {
		return err
	}

	io.Printf(s.msg().cleared+"\n", count)

	return nil
}
