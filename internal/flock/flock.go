// Package flock provides cross-process advisory file locks.
package flock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Lock is an exclusive advisory lock held on a lock file.
type Lock struct {
	file *os.File
}

// Acquire blocks until the exclusive lock on path is obtained or ctx is done.
// The lock file is created if it does not exist.
func Acquire(ctx context.Context, path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("flock: create dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("flock: open lock file: %w", err)
	}

	sleep := 10 * time.Millisecond
	for {
		locked, err := tryLock(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("flock: %w", err)
		}
		if locked {
			return &Lock{file: file}, nil
		}

		select {
		case <-ctx.Done():
			file.Close()
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
		if sleep < 200*time.Millisecond {
			sleep *= 2
		}
	}
}

// Release drops the lock and closes the lock file. Safe to call multiple times.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unlock(l.file)
	if cerr := l.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	l.file = nil
	return err
}
