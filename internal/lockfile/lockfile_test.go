package lockfile

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.lock")

	lock := New(path)
	if err := lock.Acquire(); err != nil {
		t.Fatal(err)
	}
	if !lock.IsLocked() {
		t.Error("lock should report held")
	}

	second := New(path)
	if err := second.Acquire(); !errors.Is(err, ErrHeld) {
		t.Errorf("second acquire: want ErrHeld, got %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatal(err)
	}
	if lock.IsLocked() {
		t.Error("lock should report released")
	}

	if err := second.Acquire(); err != nil {
		t.Errorf("acquire after release: %v", err)
	}
	second.Release()
}

func TestReleaseWithoutAcquire(t *testing.T) {
	lock := New(filepath.Join(t.TempDir(), "build.lock"))
	if err := lock.Release(); err != nil {
		t.Errorf("release of unheld lock: %v", err)
	}
}
