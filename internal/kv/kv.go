// Package kv provides the durable key-value byte stores the task list is
// persisted to. Every backend lives in a data directory that one process
// owns at a time, enforced with an exclusive lock file.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/calvinalkan/todo/pkg/fs"
)

var (
	// ErrNotFound is returned by Get when the key has never been written.
	ErrNotFound = errors.New("key not found")

	// ErrInvalidKey is returned for keys that cannot name a stored value.
	ErrInvalidKey = errors.New("invalid key")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown backend")
)

// Store is a durable map from keys to byte values.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Put durably replaces the value stored under key.
	Put(key string, value []byte) error

	// Close releases the store and its directory lock.
	Close() error
}

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Options configures [Open].
type Options struct {
	// Backend is BackendFile (default) or BackendSQLite.
	Backend string

	// Dir is the data directory. Created if missing.
	Dir string

	// FS is used by the file backend and the lock. Defaults to [fs.NewReal].
	FS fs.FS

	// LockTimeout bounds the wait for the directory lock. Defaults to [DefaultLockTimeout].
	LockTimeout time.Duration
}

// DefaultLockTimeout is how long Open waits for another process to release the data dir.
const DefaultLockTimeout = 2 * time.Second

const dirPerms = 0o750

// Open locks opts.Dir and opens the selected backend inside it.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("open kv: dir is empty")
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	timeout := opts.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	err := fsys.MkdirAll(opts.Dir, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("open kv: create dir: %w", err)
	}

	lock, err := acquireDirLock(ctx, fsys, opts.Dir, timeout)
	if err != nil {
		return nil, fmt.Errorf("open kv: %w", err)
	}

	var store Store

	switch opts.Backend {
	case BackendFile, "":
		store = newFileStore(fsys, opts.Dir)
	case BackendSQLite:
		store, err = openSQLite(ctx, filepath.Join(opts.Dir, "todo.sqlite"))
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}

	if err != nil {
		return nil, errors.Join(fmt.Errorf("open kv: %w", err), lock.release())
	}

	return &locked{Store: store, lock: lock}, nil
}

// validateKey rejects keys that would escape the data dir or collide with
// internal files.
func validateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	case strings.HasPrefix(key, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidKey, key)
	case strings.ContainsAny(key, `/\`) || key != filepath.Base(key):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidKey, key)
	}

	return nil
}

// locked ties a backend to the directory lock it was opened under.
type locked struct {
	Store

	lock *dirLock
}

func (l *locked) Close() error {
	return errors.Join(l.Store.Close(), l.lock.release())
}
