//go:build unix

package lockfile

import (
	"fmt"
	"os"
	"syscall"
)

func (l *Lock) platformLock(f *os.File) error {
	err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err != nil {
		if err == syscall.EWOULDBLOCK {
			return ErrHeld
		}
		return fmt.Errorf("acquire lock: %w", err)
	}
	return nil
}

func (l *Lock) platformUnlock(f *os.File) {
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
