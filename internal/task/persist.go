package task

import (
	"errors"
	"fmt"

	"github.com/calvinalkan/todo/internal/kv"
)

// DefaultStoreKey is the key the collection is kept under.
const DefaultStoreKey = "todo-tasks"

// Persistence keeps the collection under one key of a durable byte store,
// encoded with the same schema as [Export].
type Persistence struct {
	kv  kv.Store
	key string
}

// NewPersistence returns a Persistence writing to key in store.
func NewPersistence(store kv.Store, key string) *Persistence {
	if store == nil {
		panic("kv store is nil")
	}

	if key == "" {
		key = DefaultStoreKey
	}

	return &Persistence{kv: store, key: key}
}

// Load returns the stored collection. A missing key yields an empty
// collection and no error. A read or decode failure also yields an empty
// collection, together with a [*PersistenceError] the caller should report;
// it never prevents startup.
func (p *Persistence) Load() ([]Task, error) {
	data, err := p.kv.Get(p.key)
	if errors.Is(err, kv.ErrNotFound) {
		return []Task{}, nil
	}

	if err != nil {
		return []Task{}, &PersistenceError{Op: "load", Err: err}
	}

	tasks, err := Import(data, FormatJSON)
	if err != nil {
		return []Task{}, &PersistenceError{Op: "load", Err: fmt.Errorf("key %q: %w", p.key, err)}
	}

	return tasks, nil
}

// Save encodes the collection compactly and writes it under the key.
func (p *Persistence) Save(tasks []Task) error {
	records, err := toRecords(tasks)
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}

	data, err := encodeJSON(records, "")
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}

	err = p.kv.Put(p.key, data)
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}

	return nil
}

var _ Persister = (*Persistence)(nil)
