package task

import "strings"

// Mode selects a filtered view of the task list.
type Mode string

// Filter modes. ModeCompleted is the "finished" bucket and holds both
// completed and cancelled tasks; ModeDone and ModeCancelled split it.
const (
	ModeAll       Mode = "all"
	ModeActive    Mode = "active"
	ModeCompleted Mode = "completed"
	ModeDone      Mode = "done"
	ModeCancelled Mode = "cancelled"
)

// Modes lists every filter mode.
var Modes = []Mode{ModeAll, ModeActive, ModeCompleted, ModeDone, ModeCancelled}

// ParseMode validates a filter mode name. The empty string means [ModeAll].
func ParseMode(s string) (Mode, error) {
	name := Mode(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return ModeAll, nil
	}

	for _, mode := range Modes {
		if name == mode {
			return mode, nil
		}
	}

	return "", &InvalidModeError{Mode: s}
}

// Filter returns the tasks matching mode in their original order. The input
// is not modified. Unknown modes behave like [ModeAll].
func Filter(tasks []Task, mode Mode) []Task {
	keep := matcher(mode)
	view := make([]Task, 0, len(tasks))

	for _, t := range tasks {
		if keep(t.Status) {
			view = append(view, t)
		}
	}

	return view
}

func matcher(mode Mode) func(Status) bool {
	switch mode {
	case ModeActive:
		return func(s Status) bool { return s == StatusActive }
	case ModeCompleted:
		return func(s Status) bool { return s == StatusCompleted || s == StatusCancelled }
	case ModeDone:
		return func(s Status) bool { return s == StatusCompleted }
	case ModeCancelled:
		return func(s Status) bool { return s == StatusCancelled }
	default:
		return func(Status) bool { return true }
	}
}
