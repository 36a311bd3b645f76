package task

import (
	"errors"
	"fmt"
)

// Config errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDataDirEmpty       = errors.New("data-dir cannot be empty")
	ErrStoreKeyEmpty      = errors.New("store-key cannot be empty")
	ErrUnknownBackend     = errors.New("unknown backend")
	ErrUnknownLocale      = errors.New("unknown locale")
)

// Store errors that are not part of the typed taxonomy below.
var (
	ErrIDRequired         = errors.New("task ID is required")
	ErrAmbiguousID        = errors.New("ambiguous task ID")
	ErrIDGenerationFailed = errors.New("no unique id after repeated attempts")
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field  Field
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}

	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation on an id that is not in the store.
// An empty ID also matches [ErrIDRequired].
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return ErrIDRequired.Error()
	}

	return "task not found: " + e.ID
}

func (e *NotFoundError) Is(target error) bool {
	return e.ID == "" && target == ErrIDRequired
}

// InvalidEnumError reports a status outside the closed set.
type InvalidEnumError struct {
	Value string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid status %q (want active|completed|cancelled)", e.Value)
}

// InvalidModeError reports an unknown filter mode.
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid filter %q (want all|active|completed|done|cancelled)", e.Mode)
}

// FormatError reports an import payload that does not decode into a
// sequence of task records. Index is the offending record, or -1 when the
// payload as a whole is malformed.
type FormatError struct {
	Index int
	Err   error
}

func (e *FormatError) Error() string {
	if e.Index < 0 {
		return "invalid payload: " + e.Err.Error()
	}

	return fmt.Sprintf("invalid payload: record %d: %v", e.Index, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// PersistenceError reports a failed durable read or write. The in-memory
// state it accompanies is already applied and stays applied.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistence reports whether err carries a [*PersistenceError].
func IsPersistence(err error) bool {
	var perr *PersistenceError

	return errors.As(err, &perr)
}
