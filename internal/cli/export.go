package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/todo/internal/task"

	flag "github.com/spf13/pflag"
)

// ExportCmd returns the export command.
func ExportCmd(s *session) *Command {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.StringP("output", "o", "", "Output file [default: export_file from config]")
	fs.String("format", "", "json|yaml [default: from file extension, else json]")
	fs.Bool("stdout", false, "Write to stdout instead of a file")

	return &Command{
		Flags: fs,
		Usage: "export [flags]",
		Short: "Write all tasks to a backup file",
		Long: `Write the whole task list, in order, to a backup file that import reads
back. The file is replaced atomically.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execExport(ctx, io, s, fs)
		},
	}
}

func execExport(ctx context.Context, io *IO, s *session, fs *flag.FlagSet) error {
	path, _ := fs.GetString("output")
	if path == "" {
		path = s.cfg.ExportFile
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(s.cfg.EffectiveCwd, path)
	}

	format := task.FormatFromPath(path)

	if fs.Changed("format") {
		raw, _ := fs.GetString("format")

		parsed, err := task.ParseFormat(raw)
		if err != nil {
			return err
		}

		format = parsed
	}

	store, err := s.open(ctx, io)
	if err != nil {
		return err
	}

	tasks := store.List()

	data, err := task.Export(tasks, format)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	toStdout, _ := fs.GetBool("stdout")
	if toStdout {
		io.Printf("%s", data)

		return nil
	}

	err = atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	io.Printf(s.msg().exported+"\n", len(tasks), path)

	return nil
}
