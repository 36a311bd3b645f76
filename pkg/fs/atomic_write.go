package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
)

// ErrDirSync indicates the parent directory could not be synced after rename.
//
// When returned, the new file is in place but durability is not guaranteed.
var ErrDirSync = errors.New("dir sync")

// AtomicWriter replaces files atomically using rename.
type AtomicWriter struct {
	fs FS
}

// NewAtomicWriter creates an AtomicWriter on top of fsys.
// Panics if fsys is nil.
func NewAtomicWriter(fsys FS) *AtomicWriter {
	if fsys == nil {
		panic("fs is nil")
	}

	return &AtomicWriter{fs: fsys}
}

// AtomicWriteOptions configures [AtomicWriter.Write].
type AtomicWriteOptions struct {
	// SyncDir syncs the parent directory after the rename.
	SyncDir bool

	// Perm is applied to the temp file with an explicit chmod. Must be non-zero.
	Perm os.FileMode
}

// DefaultOptions returns SyncDir=true and 0o644.
func (*AtomicWriter) DefaultOptions() AtomicWriteOptions {
	return AtomicWriteOptions{SyncDir: true, Perm: 0o644}
}

// WriteWithDefaults writes r to path using [AtomicWriter.DefaultOptions].
func (w *AtomicWriter) WriteWithDefaults(path string, r io.Reader) error {
	return w.Write(path, r, w.DefaultOptions())
}

// Write copies r into a temp file next to path, syncs it and renames it over
// path. Readers see either the old content or the new content, never a mix.
//
// A failure after the rename (directory sync) satisfies errors.Is(err, ErrDirSync).
func (w *AtomicWriter) Write(path string, r io.Reader, opts AtomicWriteOptions) error {
	if r == nil {
		panic("reader is nil")
	}

	if opts.Perm == 0 {
		return errors.New("opts.Perm must be non-zero")
	}

	dir, base := filepath.Split(path)
	if base == "" || base == "." {
		return fmt.Errorf("path is invalid: %q", path)
	}

	if dir == "" {
		dir = "."
	}

	dir = filepath.Clean(dir)

	tmp, tmpPath, err := w.createTemp(dir, base, opts.Perm)
	if err != nil {
		return err
	}

	discard := func(cause error) error {
		closeErr := tmp.Close()
		if closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			cause = errors.Join(cause, fmt.Errorf("close temp file %q: %w", tmpPath, closeErr))
		}

		removeErr := w.fs.Remove(tmpPath)
		if removeErr != nil && !os.IsNotExist(removeErr) {
			cause = errors.Join(cause, fmt.Errorf("remove temp file %q: %w", tmpPath, removeErr))
		}

		return cause
	}

	err = tmp.Chmod(opts.Perm)
	if err != nil {
		return discard(fmt.Errorf("chmod temp file %q: %w", tmpPath, err))
	}

	_, err = io.Copy(tmp, r)
	if err != nil {
		return discard(fmt.Errorf("write temp file %q: %w", tmpPath, err))
	}

	err = tmp.Sync()
	if err != nil {
		return discard(fmt.Errorf("sync temp file %q: %w", tmpPath, err))
	}

	err = tmp.Close()
	if err != nil {
		return discard(fmt.Errorf("close temp file %q: %w", tmpPath, err))
	}

	err = w.fs.Rename(tmpPath, path)
	if err != nil {
		return discard(fmt.Errorf("rename: %w", err))
	}

	if opts.SyncDir {
		return w.syncDir(dir)
	}

	return nil
}

const maxTempAttempts = 1000

var tempCounter atomic.Uint64

func (w *AtomicWriter) createTemp(dir, base string, perm os.FileMode) (File, string, error) {
	for range maxTempAttempts {
		path := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", base, os.Getpid(), tempCounter.Add(1)))

		file, err := w.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return file, path, nil
		}

		if os.IsExist(err) {
			continue
		}

		return nil, "", fmt.Errorf("create temp file: %w", err)
	}

	return nil, "", fmt.Errorf("exhausted temp file attempts in %q", dir)
}

func (w *AtomicWriter) syncDir(dir string) error {
	d, err := w.fs.Open(dir)
	if err != nil {
		return errors.Join(ErrDirSync, fmt.Errorf("open dir %q: %w", dir, err))
	}

	syncErr := d.Sync()
	closeErr := d.Close()

	if syncErr != nil {
		return errors.Join(ErrDirSync, fmt.Errorf("%q: %w", dir, syncErr), closeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close dir %q: %w", dir, closeErr)
	}

	return nil
}
