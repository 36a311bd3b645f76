package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/calvinalkan/todo/internal/kv"
	"github.com/calvinalkan/todo/internal/task"
)

var (
	errNoInput           = errors.New("no input available")
	errConfirmRequired   = errors.New("refusing to clear without confirmation (use --yes)")
	errUnknownCommand    = errors.New("unknown command")
	errUnterminatedQuote = errors.New("unterminated quote")
	errMissingArg        = errors.New("missing argument")
)

// prompter reads one line of user input after showing a prompt.
// *liner.State satisfies it.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// linePrompter prompts on w and reads answers from a plain reader.
type linePrompter struct {
	r *bufio.Reader
	w io.Writer
}

func newLinePrompter(r io.Reader, w io.Writer) *linePrompter {
	if r == nil {
		return &linePrompter{w: w}
	}

	return &linePrompter{r: bufio.NewReader(r), w: w}
}

func (p *linePrompter) Prompt(prompt string) (string, error) {
	if p.r == nil {
		return "", errNoInput
	}

	_, _ = io.WriteString(p.w, prompt)

	line, err := p.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// session is the state shared by the commands of one invocation: the
// resolved config and, once a command needs it, the opened task store.
type session struct {
	cfg    *task.Config
	stdin  io.Reader
	prompt prompter

	kv    kv.Store
	store *task.Store
}

func newSession(cfg *task.Config, stdin io.Reader, errOut io.Writer) *session {
	return &session{cfg: cfg, stdin: stdin, prompt: newLinePrompter(stdin, errOut)}
}

func (s *session) locale() task.Locale {
	return task.Locale(s.cfg.Locale)
}

// open locks the data dir and loads the task store on first use. Unreadable
// saved data is reported as a warning and the store starts empty.
func (s *session) open(ctx context.Context, o *IO) (*task.Store, error) {
	if s.store != nil {
		return s.store, nil
	}

	backend, err := kv.Open(ctx, kv.Options{Backend: s.cfg.Backend, Dir: s.cfg.DataDirAbs})
	if err != nil {
		return nil, err
	}

	persistence := task.NewPersistence(backend, s.cfg.StoreKey)

	tasks, loadErr := persistence.Load()
	if loadErr != nil {
		o.Warn("could not load saved tasks ("+loadErr.Error()+")",
			"starting with an empty list; the next change overwrites "+s.cfg.StoreKey+" in "+s.cfg.DataDirAbs)
	}

	s.kv = backend
	s.store = task.NewStore(tasks, task.StoreOptions{Persister: persistence})

	return s.store, nil
}

func (s *session) close() error {
	if s.kv == nil {
		return nil
	}

	err := s.kv.Close()
	s.kv, s.store = nil, nil

	return err
}

// saved turns a failed write-through into a warning. The in-memory change
// stands and the command's output is still printed.
func (s *session) saved(o *IO, err error) error {
	if err == nil || !task.IsPersistence(err) {
		return err
	}

	o.Warn("could not save tasks ("+err.Error()+")",
		"the change is not on disk; check free space and permissions of "+s.cfg.DataDirAbs)

	return nil
}

// confirm asks a yes/no question. Anything but yes/y declines.
func (s *session) confirm(question string) (bool, error) {
	answer, err := s.prompt.Prompt(question + " (yes/no): ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}

		return false, err
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "yes" || answer == "y" || answer == "да", nil
}

// resolve maps a full id or unique prefix to the stored id.
func (s *session) resolve(ctx context.Context, o *IO, ref string) (*task.Store, string, error) {
	store, err := s.open(ctx, o)
	if err != nil {
		return nil, "", err
	}

	id, err := store.Resolve(ref)
	if err != nil {
		return nil, "", err
	}

	return store, id, nil
}

type messages struct {
	noTasks      string
	cancelled    string
	confirmClear string
	cleared      string
	imported     string
	exported     string
}

var catalog = map[task.Locale]messages{
	task.LocaleEN: {
		noTasks:      "No tasks",
		cancelled:    "Cancelled.",
		confirmClear: "Delete all %d tasks?",
		cleared:      "Deleted %d tasks",
		imported:     "Imported %d tasks",
		exported:     "Exported %d tasks to %s",
	},
	task.LocaleRU: {
		noTasks:      "Нет задач",
		cancelled:    "Отменено.",
		confirmClear: "Удалить все задачи (%d)?",
		cleared:      "Удалено задач: %d",
		imported:     "Импортировано задач: %d",
		exported:     "Экспортировано задач: %d в %s",
	},
}

func (s *session) msg() messages {
	if m, ok := catalog[s.locale()]; ok {
		return m
	}

	return catalog[task.LocaleEN]
}

func requireArgs(args []string, n int, what string) error {
	if len(args) < n {
		return fmt.Errorf("%w: %s", errMissingArg, what)
	}

	return nil
}
