package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/calvinalkan/todo/internal/task"

	flag "github.com/spf13/pflag"
)

// ImportCmd returns the import command.
func ImportCmd(s *session) *Command {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.String("format", "", "json|yaml [default: from file extension, else json]")

	return &Command{
		Flags: fs,
		Usage: "import <file|->",
		Short: "Replace all tasks from a backup file",
		Long: `Replace the whole task list with the contents of a backup file ("-" reads
stdin). A malformed file leaves the current list untouched.

Records without an ID get a new one and records without a status are active.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execImport(ctx, o, s, fs, args)
		},
	}
}

func execImport(ctx context.Context, o *IO, s *session, fs *flag.FlagSet, args []string) error {
	err := requireArgs(args, 1, "file to import")
	if err != nil {
		return err
	}

	source := args[0]
	format := task.FormatJSON

	var data []byte

	if source == "-" {
		if s.stdin == nil {
			return errNoInput
		}

		data, err = io.ReadAll(s.stdin)
	} else {
		if !filepath.IsAbs(source) {
			source = filepath.Join(s.cfg.EffectiveCwd, source)
		}

		format = task.FormatFromPath(source)
		data, err = os.ReadFile(source)
	}

	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	if fs.Changed("format") {
		raw, _ := fs.GetString("format")

		format, err = task.ParseFormat(raw)
		if err != nil {
			return err
		}
	}

	tasks, err := task.Import(data, format)
	if err != nil {
		return err
	}

	store, err := s.open(ctx, o)
	if err != nil {
		return err
	}

	err = s.saved(o, store.ReplaceAll(tasks))
	if err != nil {
		return err
	}

	o.Printf(s.msg().imported+"\n", store.Len())

	return nil
}
