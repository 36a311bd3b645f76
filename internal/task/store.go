package task

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Persister receives the full collection after every successful mutation.
type Persister interface {
	Save(tasks []Task) error
}

// StoreOptions configures [NewStore].
type StoreOptions struct {
	// Persister is written through after each mutation. Nil disables persistence.
	Persister Persister

	// NewID generates ids for created tasks. Defaults to [NewUUIDv7].
	NewID IDGenerator
}

// Store is the ordered, exclusively owned task collection.
//
// Every operation validates before it applies, so a failed call leaves the
// collection untouched. Successful mutations are handed to the Persister
// after they are applied; a failed write comes back as a [*PersistenceError]
// alongside the applied result and is never rolled back.
//
// Store is not safe for concurrent use.
type Store struct {
	tasks     []Task
	persister Persister
	newID     IDGenerator
}

const maxIDAttempts = 16

// NewStore returns a Store seeded with a copy of initial.
func NewStore(initial []Task, opts StoreOptions) *Store {
	newID := opts.NewID
	if newID == nil {
		newID = NewUUIDv7
	}

	tasks := slices.Clone(initial)
	if tasks == nil {
		tasks = []Task{}
	}

	s := &Store{tasks: tasks, persister: opts.Persister, newID: newID}

	// Hand-edited data may lack ids; give them one so every task is addressable.
	for i := range s.tasks {
		if s.tasks[i].ID != "" {
			continue
		}

		if id, err := s.freshID(); err == nil {
			s.tasks[i].ID = id
		}
	}

	return s
}

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// List returns a snapshot in insertion order.
func (s *Store) List() []Task {
	return slices.Clone(s.tasks)
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (Task, error) {
	idx, err := s.indexOf(id)
	if err != nil {
		return Task{}, err
	}

	return s.tasks[idx], nil
}

// Resolve maps an exact id or a unique id prefix to an id.
func (s *Store) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrIDRequired
	}

	var matches []string

	for _, t := range s.tasks {
		if t.ID == ref {
			return t.ID, nil
		}

		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{ID: ref}
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d tasks", ErrAmbiguousID, ref, len(matches))
	}
}

// Create validates fields, appends a new task with a fresh id and writes through.
func (s *Store) Create(fields Fields) (Task, error) {
	err := ValidateCreate(fields)
	if err != nil {
		return Task{}, err
	}

	status := fields.Status
	if status == 0 {
		status = StatusActive
	}

	if !status.Valid() {
		return Task{}, &InvalidEnumError{Value: status.String()}
	}

	id, err := s.freshID()
	if err != nil {
		return Task{}, err
	}

	created := Task{
		ID:          id,
		Title:       fields.Title,
		Description: fields.Description,
		Executor:    fields.Executor,
		Deadline:    fields.Deadline,
		Status:      status,
	}

	s.tasks = append(s.tasks, created)

	return created, s.writeThrough()
}

// Update replaces one field of the task, keeping its position.
func (s *Store) Update(id string, field Field, value string) (Task, error) {
	idx, err := s.indexOf(id)
	if err != nil {
		return Task{}, err
	}

	err = ValidateUpdate(field, value)
	if err != nil {
		return Task{}, err
	}

	if field == FieldDeadline && strings.TrimSpace(value) == "" {
		value = ""
	}

	s.tasks[idx].set(field, value)

	return s.tasks[idx], s.writeThrough()
}

// SetStatus replaces the status of the task.
func (s *Store) SetStatus(id string, status Status) (Task, error) {
	idx, err := s.indexOf(id)
	if err != nil {
		return Task{}, err
	}

	if !status.Valid() {
		return Task{}, &InvalidEnumError{Value: status.String()}
	}

	s.tasks[idx].Status = status

	return s.tasks[idx], s.writeThrough()
}

// Delete removes the task. An unknown id is a [*NotFoundError] and leaves
// the collection unchanged.
func (s *Store) Delete(id string) error {
	idx, err := s.indexOf(id)
	if err != nil {
		return err
	}

	s.tasks = slices.Delete(s.tasks, idx, idx+1)

	return s.writeThrough()
}

// Clear removes every task. Callers confirm intent before calling it.
func (s *Store) Clear() error {
	s.tasks = []Task{}

	return s.writeThrough()
}

// ReplaceAll swaps the whole collection in one step. Tasks without an id get
// a fresh one. Duplicate ids or non-member statuses reject the call before
// anything changes; field contents are not revalidated.
func (s *Store) ReplaceAll(tasks []Task) error {
	next := slices.Clone(tasks)
	if next == nil {
		next = []Task{}
	}

	seen := make(map[string]int, len(next))

	for i, t := range next {
		if !t.Status.Valid() {
			return &FormatError{Index: i, Err: &InvalidEnumError{Value: t.Status.String()}}
		}

		if t.ID == "" {
			continue
		}

		if prev, dup := seen[t.ID]; dup {
			return &FormatError{Index: i, Err: fmt.Errorf("duplicate id %q (also record %d)", t.ID, prev)}
		}

		seen[t.ID] = i
	}

	for i := range next {
		if next[i].ID != "" {
			continue
		}

		id, err := s.freshIDAgainst(seen)
		if err != nil {
			return err
		}

		next[i].ID = id
		seen[id] = i
	}

	s.tasks = next

	return s.writeThrough()
}

func (s *Store) indexOf(id string) (int, error) {
	if id == "" {
		return -1, &NotFoundError{}
	}

	idx := slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
	if idx < 0 {
		return -1, &NotFoundError{ID: id}
	}

	return idx, nil
}

func (s *Store) freshID() (string, error) {
	taken := make(map[string]int, len(s.tasks))
	for i, t := range s.tasks {
		taken[t.ID] = i
	}

	return s.freshIDAgainst(taken)
}

func (s *Store) freshIDAgainst(taken map[string]int) (string, error) {
	for range maxIDAttempts {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}

		if _, dup := taken[id]; !dup && id != "" {
			return id, nil
		}
	}

	return "", ErrIDGenerationFailed
}

func (s *Store) writeThrough() error {
	if s.persister == nil {
		return nil
	}

	err := s.persister.Save(slices.Clone(s.tasks))
	if err == nil {
		return nil
	}

	var perr *PersistenceError
	if errors.As(err, &perr) {
		return err
	}

	return &PersistenceError{Op: "save", Err: err}
}
