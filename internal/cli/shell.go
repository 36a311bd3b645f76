package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/calvinalkan/todo/internal/task"

	flag "github.com/spf13/pflag"
)

const historyFileName = ".shell_history"

// ShellCmd returns the shell command.
func ShellCmd(s *session, cmds func() []*Command) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Interactive task shell",
		Long: `Run commands interactively against one open task list, e.g.

  todo> add "Write report" -d "Draft design doc" -e Alice --deadline 2024-06-01
  todo> ls -f active

Words may be quoted with '' or "". Type help for commands, exit to leave.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execShell(ctx, o, s, cmds)
		},
	}
}

func execShell(ctx context.Context, o *IO, s *session, cmds func() []*Command) error {
	// Open up front so a locked data dir fails before the first prompt.
	_, err := s.open(ctx, o)
	if err != nil {
		return err
	}

	if s.stdin == os.Stdin {
		line := liner.NewLiner()
		defer line.Close()

		line.SetCtrlCAborts(true)
		line.SetCompleter(completer(cmds))

		history := filepath.Join(s.cfg.DataDirAbs, historyFileName)
		if f, err := os.Open(history); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}

		defer saveHistory(line, history)

		s.prompt = line

		return shellLoop(ctx, o, s, cmds, line.AppendHistory)
	}

	return shellLoop(ctx, o, s, cmds, func(string) {})
}

func shellLoop(ctx context.Context, o *IO, s *session, cmds func() []*Command, remember func(string)) error {
	for ctx.Err() == nil {
		line, err := s.prompt.Prompt("todo> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		remember(line)

		words, err := splitWords(line)
		if err != nil {
			o.ErrPrintln("error:", err)

			continue
		}

		switch words[0] {
		case "exit", "quit", "q":
			return nil
		case "help", "?":
			printShellHelp(o, cmds())

			continue
		}

		cmd := lookup(cmds(), words[0])
		if cmd == nil || cmd.Name() == "shell" {
			o.ErrPrintln("error:", fmt.Errorf("%w: %s (type help for commands)", errUnknownCommand, words[0]))

			continue
		}

		lineIO := NewIO(o.out, o.errOut)
		cmd.Run(ctx, lineIO, words[1:])
		lineIO.Finish()
	}

	return nil
}

func printShellHelp(o *IO, cmds []*Command) {
	o.Println("Commands:")

	for _, cmd := range cmds {
		if cmd.Name() == "shell" {
			continue
		}

		o.Println(cmd.HelpLine())
	}

	o.Println(fmt.Sprintf("  %-30s %s", "exit", "Leave the shell"))
}

func saveHistory(line *liner.State, path string) {
	f, err := os.Create(path)
	if err != nil {
		return
	}

	_, _ = line.WriteHistory(f)
	_ = f.Close()
}

// completer completes command names, then filter modes and statuses.
func completer(cmds func() []*Command) liner.Completer {
	var names []string
	for _, cmd := range cmds() {
		if cmd.Name() != "shell" {
			names = append(names, cmd.Name())
		}
	}

	names = append(names, "help", "exit")
	sort.Strings(names)

	var statuses []string
	for _, status := range task.Statuses {
		statuses = append(statuses, status.String())
	}

	var modes []string
	for _, mode := range task.Modes {
		modes = append(modes, string(mode))
	}

	return func(line string) []string {
		words := strings.Fields(line)
		trailingSpace := strings.HasSuffix(line, " ")

		if len(words) == 0 || (len(words) == 1 && !trailingSpace) {
			return withPrefix(names, line, "")
		}

		head := line[:strings.LastIndex(line, " ")+1]
		last, argIndex, prev := "", len(words), words[len(words)-1]

		if !trailingSpace {
			last, argIndex, prev = words[len(words)-1], len(words)-1, words[len(words)-2]
		}

		switch {
		case words[0] == "ls" && (prev == "-f" || prev == "--filter"):
			return withPrefix(modes, last, head)
		case words[0] == "status" && argIndex == 2:
			return withPrefix(statuses, last, head)
		}

		return nil
	}
}

func withPrefix(options []string, prefix, head string) []string {
	var out []string

	for _, opt := range options {
		if strings.HasPrefix(opt, prefix) {
			out = append(out, head+opt)
		}
	}

	return out
}

// splitWords splits a shell line into words. Single and double quotes group
// words; a backslash escapes the next rune outside single quotes.
func splitWords(line string) ([]string, error) {
	var (
		words   []string
		current strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)

			escaped = false
		case r == '\\' && quote != '\'':
			escaped, inWord = true, true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inWord = r, true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, current.String())
				current.Reset()

				inWord = false
			}
		default:
			current.WriteRune(r)

			inWord = true
		}
	}

	if quote != 0 || escaped {
		return nil, errUnterminatedQuote
	}

	if inWord {
		words = append(words, current.String())
	}

	return words, nil
}
