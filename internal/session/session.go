// Package session boots proof-assistant sessions scoped to a parsed
// level: one external REPL process whose root environment has the level's
// module imported and its namespace opened.
package session

import (
	"context"
	"fmt"
	"os"

	"github.com/rmoravec/llean/internal/config"
	"github.com/rmoravec/llean/internal/level"
	"github.com/rmoravec/llean/internal/logger"
	"github.com/rmoravec/llean/internal/repl"
)

var log = logger.ForComponent("session")

// SessionError reports a failed bootstrap: the external process could not
// start (missing project, failed build) or the namespace-open command was
// rejected. It surfaces immediately; there are no retries.
type SessionError struct {
	Stage string
	Err   error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session %s: %v", e.Stage, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// Session is a live REPL scoped to one level's namespace. The process
// behind it is externally managed; Session only holds the handle, the
// namespace string, and the environment id commands should build on.
type Session struct {
	srv       *repl.Server
	Namespace string

	// Env identifies the REPL environment with the level module imported
	// and the namespace opened. Commands that should run inside the level
	// context target it.
	Env int
}

// Bootstrap starts a REPL for the configured game and opens the level's
// namespace so subsequent commands behave as they do inside the tutorial.
// The first start of a fresh checkout may trigger the game's one-time
// build; the filesystem lock guarding that build is the caller's concern.
func Bootstrap(ctx context.Context, cfg *config.Config, meta *level.Metadata) (*Session, error) {
	if _, err := os.Stat(cfg.GamePath); err != nil {
		return nil, &SessionError{Stage: "project check", Err: err}
	}

	srv := repl.NewServer(repl.ServerConfig{
		Command: cfg.REPL.Command,
		Args:    cfg.REPL.Args,
		Dir:     cfg.GamePath,
	})
	if err := srv.Start(ctx); err != nil {
		return nil, &SessionError{Stage: "start", Err: err}
	}

	log.Debug("opening level context",
		"module", meta.Module, "namespace", meta.Namespace)

	setup := fmt.Sprintf("import %s\nopen %s", meta.Module, meta.Namespace)
	resp, err := srv.RunCommand(ctx, repl.Command{Cmd: setup})
	if err != nil {
		srv.Kill()
		return nil, &SessionError{Stage: "open namespace", Err: err}
	}
	if resp.HasErrors() {
		srv.Kill()
		return nil, &SessionError{
			Stage: "open namespace",
			Err:   fmt.Errorf("rejected: %s", firstError(resp)),
		}
	}

	return &Session{srv: srv, Namespace: meta.Namespace, Env: resp.Env}, nil
}

// RunCommand executes a Lean command inside the session's environment.
func (s *Session) RunCommand(ctx context.Context, cmd string) (*repl.CommandResponse, error) {
	env := s.Env
	return s.srv.RunCommand(ctx, repl.Command{Cmd: cmd, Env: &env})
}

// RunTactic applies one tactic to the given proof state.
func (s *Session) RunTactic(ctx context.Context, tactic string, proofState int) (*repl.ProofStepResponse, error) {
	return s.srv.RunTactic(ctx, repl.ProofStep{Tactic: tactic, ProofState: proofState})
}

// StateGoal elaborates the session's goal into a sorry so the caller gets
// an addressable proof state to apply tactics to.
func (s *Session) StateGoal(ctx context.Context, goal string) (*repl.CommandResponse, error) {
	cmd := fmt.Sprintf("example %s := by sorry", goal)
	return s.RunCommand(ctx, cmd)
}

// Close releases the underlying process.
func (s *Session) Close() error {
	return s.srv.Stop()
}

// Kill terminates the underlying process without a graceful stop.
func (s *Session) Kill() error {
	return s.srv.Kill()
}

func firstError(resp *repl.CommandResponse) string {
	for _, m := range resp.Messages {
		if m.Severity == "error" {
			return m.Data
		}
	}
	return "unknown error"
}
