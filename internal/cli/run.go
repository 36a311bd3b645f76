package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/calvinalkan/todo/internal/task"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"

	dotEnvFileName = ".env"
)

var (
	errFlagRequiresArg = errors.New("flag requires an argument")
	errUnknownFlag     = errors.New("unknown flag")
)

// Run is the main entry point. Returns exit code.
//
// Signals received on sigCh cancel the running command; sigCh may be nil.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	if len(args) < minArgs {
		printUsage(out, nil)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, nil)

		return 1
	}

	if len(flags.remaining) == 0 || flags.remaining[0] == helpFlag || flags.remaining[0] == "-h" {
		printUsage(out, nil)

		return 0
	}

	env, err = withDotEnv(env, flags.workDir)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	cfg, err := task.LoadConfig(task.LoadConfigInput{
		WorkDirOverride: flags.workDir,
		ConfigPath:      flags.configPath,
		DataDirOverride: flags.dataDir,
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	s := newSession(&cfg, stdin, errOut)
	cmds := commandList(s, &cfg)

	name := flags.remaining[0]

	cmd := lookup(cmds, name)
	if cmd == nil {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", errUnknownCommand, name))
		printUsage(errOut, cmds)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	o := NewIO(out, errOut)
	code := cmd.Run(ctx, o, flags.remaining[1:])

	err = s.close()
	if err != nil {
		o.Warn("could not release data dir ("+err.Error()+")", "remove "+cfg.DataDirAbs+"/.lock if no other todo is running")
	}

	if finish := o.Finish(); code == 0 {
		code = finish
	}

	return code
}

type globalFlags struct {
	workDir    string
	configPath string
	dataDir    string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	for _, def := range []struct {
		short, long string
		target      *string
	}{
		{"-C", "--cwd", &flags.workDir},
		{"-c", "--config", &flags.configPath},
		{"", "--data-dir", &flags.dataDir},
	} {
		if arg == def.long || (def.short != "" && arg == def.short) {
			if idx+1 >= len(args) {
				return consumedNone, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
			}

			*def.target = args[idx+1]

			return consumedTwo, nil
		}

		if after, ok := strings.CutPrefix(arg, def.long+"="); ok {
			*def.target = after

			return consumedOne, nil
		}
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", errUnknownFlag, arg)
	}

	return consumedNone, nil
}

// withDotEnv adds the variables of <work dir>/.env that env does not set.
// A missing file is not an error.
func withDotEnv(env map[string]string, workDir string) (map[string]string, error) {
	path := filepath.Join(workDir, dotEnvFileName)

	dotenv, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return env, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	merged := make(map[string]string, len(env)+len(dotenv))
	maps.Copy(merged, dotenv)
	maps.Copy(merged, env)

	return merged, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, cmds []*Command) {
	if cmds == nil {
		cfg := task.DefaultConfig()
		cmds = commandList(newSession(&cfg, nil, io.Discard), &cfg)
	}

	fprintln(w, `todo - task list manager

Usage: todo [options] <command> [args]

Options:
  -C, --cwd <dir>        Run as if started in <dir>
  -c, --config <file>    Use specified config file
  --data-dir <dir>       Store tasks in <dir>

Environment defaults are read from .env in the work dir; set variables win.

Commands:`)

	for _, cmd := range cmds {
		fprintln(w, cmd.HelpLine())
	}

	fprintln(w, `
Run 'todo <command> --help' for command flags.`)
}

// commandList builds a fresh set of commands bound to s. Flag sets keep
// state between parses, so the shell asks for a new set per line.
func commandList(s *session, cfg *task.Config) []*Command {
	return []*Command{
		AddCmd(s),
		LsCmd(s),
		ShowCmd(s),
		EditCmd(s),
		StatusCmd(s),
		RmCmd(s),
		ClearCmd(s),
		ExportCmd(s),
		ImportCmd(s),
		ShellCmd(s, func() []*Command { return commandList(s, cfg) }),
		PrintConfigCmd(cfg),
	}
}
