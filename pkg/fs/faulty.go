package fs

import (
	"errors"
	"io/fs"
	"os"
	"sync/atomic"
	"syscall"
)

// Fault selects an operation that [Faulty] can be told to fail.
type Fault uint8

const (
	// FaultRead fails [FS.ReadFile] with EIO.
	FaultRead Fault = iota
	// FaultCreate fails opens that create or write with ENOSPC.
	FaultCreate
	// FaultWrite fails [File.Write] with EDQUOT (quota exceeded).
	FaultWrite
	// FaultSync fails [File.Sync] with EIO.
	FaultSync
	// FaultRename fails [FS.Rename] with EROFS.
	FaultRename

	faultCount
)

// injectedError marks an error as produced by [Faulty].
type injectedError struct {
	Err error
}

func (e *injectedError) Error() string { return "injected: " + e.Err.Error() }

func (e *injectedError) Unwrap() error { return e.Err }

// IsInjected reports whether err (or any wrapped error) was produced by [Faulty].
func IsInjected(err error) bool {
	var injected *injectedError

	return errors.As(err, &injected)
}

// Faulty wraps an [FS] and fails the operations switched on with
// [Faulty.Fail]. Unlike a random fault injector it is fully deterministic:
// a switched-on fault fails every matching call until [Faulty.Heal].
//
// Injected errors are [*fs.PathError] (or [*os.LinkError] for rename) carrying
// a real [syscall.Errno], so errors.Is(err, syscall.ENOSPC) works.
type Faulty struct {
	fs     FS
	faults [faultCount]atomic.Bool
	hits   atomic.Int64
}

// NewFaulty wraps underlying. Panics if underlying is nil.
func NewFaulty(underlying FS) *Faulty {
	if underlying == nil {
		panic("underlying fs is nil")
	}

	return &Faulty{fs: underlying}
}

// Fail switches on the given faults.
func (f *Faulty) Fail(faults ...Fault) {
	for _, fault := range faults {
		f.faults[fault].Store(true)
	}
}

// Heal switches off every fault.
func (f *Faulty) Heal() {
	for i := range f.faults {
		f.faults[i].Store(false)
	}
}

// Hits returns how many errors have been injected so far.
func (f *Faulty) Hits() int64 { return f.hits.Load() }

func (f *Faulty) failing(fault Fault) bool {
	if f.faults[fault].Load() {
		f.hits.Add(1)

		return true
	}

	return false
}

func injectPath(op, path string, errno syscall.Errno) error {
	return &injectedError{Err: &fs.PathError{Op: op, Path: path, Err: errno}}
}

// Open opens path for reading.
func (f *Faulty) Open(path string) (File, error) {
	file, err := f.fs.Open(path)
	if err != nil {
		return nil, err
	}

	return &faultyFile{File: file, owner: f, path: path}, nil
}

// OpenFile opens path, failing writable opens while [FaultCreate] is on.
func (f *Faulty) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 && f.failing(FaultCreate) {
		return nil, injectPath("open", path, syscall.ENOSPC)
	}

	file, err := f.fs.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}

	return &faultyFile{File: file, owner: f, path: path}, nil
}

// ReadFile reads path, failing while [FaultRead] is on.
func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if f.failing(FaultRead) {
		return nil, injectPath("read", path, syscall.EIO)
	}

	return f.fs.ReadFile(path)
}

// MkdirAll passes through.
func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	return f.fs.MkdirAll(path, perm)
}

// Stat passes through.
func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	return f.fs.Stat(path)
}

// Exists passes through.
func (f *Faulty) Exists(path string) (bool, error) {
	return f.fs.Exists(path)
}

// Remove passes through.
func (f *Faulty) Remove(path string) error {
	return f.fs.Remove(path)
}

// Rename renames, failing while [FaultRename] is on.
func (f *Faulty) Rename(oldpath, newpath string) error {
	if f.failing(FaultRename) {
		return &injectedError{Err: &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EROFS}}
	}

	return f.fs.Rename(oldpath, newpath)
}

type faultyFile struct {
	File

	owner *Faulty
	path  string
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	if ff.owner.failing(FaultWrite) {
		return 0, injectPath("write", ff.path, syscall.EDQUOT)
	}

	return ff.File.Write(p)
}

func (ff *faultyFile) Sync() error {
	if ff.owner.failing(FaultSync) {
		return injectPath("sync", ff.path, syscall.EIO)
	}

	return ff.File.Sync()
}

var _ FS = (*Faulty)(nil)
