package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/calvinalkan/todo/pkg/fs"
)

// ErrLocked is returned when another process holds the data dir.
var ErrLocked = errors.New("data dir is locked by another process")

const (
	lockFileName      = ".lock"
	lockRetryInterval = 10 * time.Millisecond
)

// dirLock is an exclusive flock on <dir>/.lock.
type dirLock struct {
	file fs.File
}

func acquireDirLock(ctx context.Context, fsys fs.FS, dir string, timeout time.Duration) (*dirLock, error) {
	path := filepath.Join(dir, lockFileName)

	file, err := fsys.OpenFile(path, os.O_CREATE|os.O_RDWR, filePerms)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)

	for {
		err = flock(file, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &dirLock{file: file}, nil
		}

		if !errors.Is(err, unix.EWOULDBLOCK) {
			_ = file.Close()

			return nil, fmt.Errorf("lock %s: %w", path, err)
		}

		if time.Now().After(deadline) {
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
		}

		select {
		case <-ctx.Done():
			_ = file.Close()

			return nil, fmt.Errorf("lock %s: %w", path, ctx.Err())
		case <-time.After(lockRetryInterval):
		}
	}
}

func flock(file fs.File, how int) error {
	for {
		err := unix.Flock(int(file.Fd()), how)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

func (l *dirLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}

	unlockErr := flock(l.file, unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if unlockErr != nil {
		unlockErr = fmt.Errorf("unlock: %w", unlockErr)
	}

	return errors.Join(unlockErr, closeErr)
}
