package config

import (
	"path/filepath"
	"testing"
)

func TestLoadReadsEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvGamePath, root)

	cfg := Load()
	if cfg.GamePath != root {
		t.Errorf("GamePath = %q, want %q", cfg.GamePath, root)
	}
	if cfg.LockPath != filepath.Join(root, ".llean.lock") {
		t.Errorf("LockPath = %q", cfg.LockPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateMissingPath(t *testing.T) {
	t.Setenv(EnvGamePath, "")
	cfg := Load()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when the game path is unset")
	}

	cfg.SetGamePath(filepath.Join(t.TempDir(), "missing"))
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when the game path does not exist")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.LevelGlob == "" {
		t.Error("level glob should have a default")
	}
	if cfg.REPL.Command == "" {
		t.Error("repl command should have a default")
	}
}
