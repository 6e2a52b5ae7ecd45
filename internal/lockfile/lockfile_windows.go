//go:build windows

package lockfile

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

var (
	modkernel32      = syscall.NewLazyDLL("kernel32.dll")
	procLockFileEx   = modkernel32.NewProc("LockFileEx")
	procUnlockFileEx = modkernel32.NewProc("UnlockFileEx")
)

const (
	lockfileExclusiveLock   = 0x00000002
	lockfileFailImmediately = 0x00000001
)

func (l *Lock) platformLock(f *os.File) error {
	var ol syscall.Overlapped
	handle := syscall.Handle(f.Fd())

	r1, _, err := procLockFileEx.Call(
		uintptr(handle),
		uintptr(lockfileExclusiveLock|lockfileFailImmediately),
		0,
		1, 0,
		uintptr(unsafe.Pointer(&ol)),
	)
	if r1 == 0 {
		// ERROR_LOCK_VIOLATION: held by another process.
		if err == syscall.Errno(33) {
			return ErrHeld
		}
		return fmt.Errorf("acquire lock: %w", err)
	}
	return nil
}

func (l *Lock) platformUnlock(f *os.File) {
	var ol syscall.Overlapped
	handle := syscall.Handle(f.Fd())

	procUnlockFileEx.Call(
		uintptr(handle),
		0,
		1, 0,
		uintptr(unsafe.Pointer(&ol)),
	)
}
