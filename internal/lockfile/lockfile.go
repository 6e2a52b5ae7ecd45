// Package lockfile serializes operations that may trigger the one-time
// build of the game checkout. Session bootstrap never takes this lock
// itself; callers that start sessions against a writable checkout do.
package lockfile

import (
	"errors"
	"fmt"
	"os"
)

// ErrHeld means another process holds the lock.
var ErrHeld = errors.New("lock held by another process")

type Lock struct {
	path string
	file *os.File
}

func New(path string) *Lock {
	return &Lock{path: path}
}

// Acquire takes the lock without blocking, returning ErrHeld when another
// process already owns it.
func (l *Lock) Acquire() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	if err := l.platformLock(f); err != nil {
		f.Close()
		return err
	}
	l.file = f
	return nil
}

// Release drops the lock and removes the lock file.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}
	l.platformUnlock(l.file)
	err := l.file.Close()
	l.file = nil
	os.Remove(l.path)
	return err
}

func (l *Lock) IsLocked() bool {
	return l.file != nil
}
