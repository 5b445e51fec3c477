package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrInjected is returned by FaultyFS when a rule carries no error of its own.
var ErrInjected = errors.New("fs: injected fault")

// Fault defines the failure behaviour for files matching a rule.
type Fault struct {
	FailAfterBytes int64 // fail writes past this many bytes; -1 disables
	FailOnSync     bool
	FailOnClose    bool
	FailOnRename   bool // matched against the rename target
	Err            error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// FaultyFS wraps a FileSystem and injects errors for matching paths.
// A rule matches when its pattern is a substring of the file's base name,
// so ".dataset.csv.123.tmp" matches "dataset.csv".
type FaultyFS struct {
	FS FileSystem

	mu    sync.Mutex
	rules map[string]Fault
}

// NewFaultyFS creates a FaultyFS wrapping fsys (or Default if nil).
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{
		FS:    fsys,
		rules: make(map[string]Fault),
	}
}

// AddRule registers a fault for paths containing pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

func (f *FaultyFS) match(name string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	base := filepath.Base(name)
	for pattern, rule := range f.rules {
		if strings.Contains(base, pattern) {
			return rule, true
		}
	}
	return Fault{FailAfterBytes: -1}, false
}

func (f *FaultyFS) CreateTemp(dir, pattern string) (File, error) {
	file, err := f.FS.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	fault, _ := f.match(file.Name())
	return &faultyFile{File: file, fault: fault}, nil
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if fault, ok := f.match(newpath); ok && fault.FailOnRename {
		return fault.err()
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Remove(name string) error              { return f.FS.Remove(name) }
func (f *FaultyFS) RemoveAll(path string) error           { return f.FS.RemoveAll(path) }
func (f *FaultyFS) Stat(name string) (os.FileInfo, error) { return f.FS.Stat(name) }
func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.FS.MkdirAll(path, perm)
}

type faultyFile struct {
	File
	fault Fault

	mu      sync.Mutex
	written int64
}

func (ff *faultyFile) WriteAt(p []byte, off int64) (int, error) {
	if ff.fault.FailAfterBytes >= 0 {
		ff.mu.Lock()
		exceeded := ff.written+int64(len(p)) > ff.fault.FailAfterBytes
		if !exceeded {
			ff.written += int64(len(p))
		}
		ff.mu.Unlock()
		if exceeded {
			return 0, ff.fault.err()
		}
	}
	return ff.File.WriteAt(p, off)
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		return ff.fault.err()
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailOnClose {
		_ = ff.File.Close()
		return ff.fault.err()
	}
	return ff.File.Close()
}
