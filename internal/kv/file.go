package kv

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/calvinalkan/todo/pkg/fs"
)

const filePerms = 0o600

// fileStore keeps each key in its own file, replaced atomically on Put.
type fileStore struct {
	fs     fs.FS
	dir    string
	writer *fs.AtomicWriter
}

func newFileStore(fsys fs.FS, dir string) *fileStore {
	return &fileStore{fs: fsys, dir: dir, writer: fs.NewAtomicWriter(fsys)}
}

func (s *fileStore) Get(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := s.fs.ReadFile(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	return data, nil
}

func (s *fileStore) Put(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	err := s.writer.Write(filepath.Join(s.dir, key), bytes.NewReader(value), fs.AtomicWriteOptions{
		SyncDir: true,
		Perm:    filePerms,
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}

func (*fileStore) Close() error { return nil }
