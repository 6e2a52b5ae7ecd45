package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EnvGamePath names the environment variable pointing at the Natural
// Number Game checkout. Only Load consults it; library code receives the
// resolved Config explicitly.
const EnvGamePath = "NNG_PATH"

type REPLConfig struct {
	Command        string        `json:"command"`
	Args           []string      `json:"args,omitempty"`
	StartTimeout   time.Duration `json:"start_timeout"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

type Config struct {
	// GamePath is the root of the external tutorial project. Required for
	// every session-bootstrap operation.
	GamePath string

	// LevelGlob selects level files underneath GamePath.
	LevelGlob string

	// IgnorePatterns are doublestar patterns excluded from walks and from
	// the watch subcommand.
	IgnorePatterns []string

	// LockPath guards operations that may trigger the one-time lake build
	// of the game. The bootstrapper never takes this lock itself; the CLI
	// does, around its first session.
	LockPath string

	REPL     REPLConfig
	LogLevel string
}

func Default() *Config {
	return &Config{
		LevelGlob: "Game/Levels/**/*.lean",
		IgnorePatterns: []string{
			"**/.git/**",
			"**/.lake/**",
			"**/build/**",
		},
		REPL: REPLConfig{
			Command: "lake",
			Args:    []string{"env", "repl"},
			// First start may compile the whole game.
			StartTimeout:   10 * time.Minute,
			RequestTimeout: 2 * time.Minute,
		},
		LogLevel: "info",
	}
}

// Load builds a Config from defaults plus the NNG_PATH environment
// variable. The game path may still be overridden afterwards by flags.
func Load() *Config {
	cfg := Default()
	if root := os.Getenv(EnvGamePath); root != "" {
		cfg.SetGamePath(root)
	}
	return cfg
}

// SetGamePath normalizes and records the game root, keeping the derived
// lock path in sync.
func (c *Config) SetGamePath(path string) {
	c.GamePath = expand(path)
	c.LockPath = filepath.Join(c.GamePath, ".llean.lock")
}

func (c *Config) Validate() error {
	if c.GamePath == "" {
		return fmt.Errorf("game path not set (export %s or pass -game)", EnvGamePath)
	}
	info, err := os.Stat(c.GamePath)
	if err != nil {
		return fmt.Errorf("game path %q: %w", c.GamePath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("game path %q is not a directory", c.GamePath)
	}
	return nil
}

func expand(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
