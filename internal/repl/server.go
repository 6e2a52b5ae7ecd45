package repl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"
)

var (
	ErrNotInstalled = errors.New("repl command not installed")
	ErrNotRunning   = errors.New("repl process not running")
)

type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateReady    State = "ready"
	StateError    State = "error"
)

// ServerConfig locates the external REPL binary and the project it runs
// inside. Dir must be the game checkout so `lake env` resolves its
// toolchain and build products.
type ServerConfig struct {
	Command string
	Args    []string
	Dir     string
}

// Server owns one REPL process. Requests are strictly sequential: the
// protocol has no ids, so a reply always belongs to the last request.
type Server struct {
	config ServerConfig

	cmd   *exec.Cmd
	codec *codec

	state     State
	startedAt time.Time

	mu       sync.Mutex
	stopOnce sync.Once
}

func NewServer(config ServerConfig) *Server {
	return &Server{config: config, state: StateStopped}
}

// Start launches the REPL process rooted at the configured directory.
// The very first start of a fresh checkout may block on the external
// project build; that wait has no internal timeout, only ctx.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateReady || s.state == StateStarting {
		return nil
	}

	path, err := exec.LookPath(s.config.Command)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotInstalled, s.config.Command)
	}

	s.state = StateStarting
	s.stopOnce = sync.Once{}

	s.cmd = exec.CommandContext(ctx, path, s.config.Args...)
	s.cmd.Dir = s.config.Dir
	s.cmd.Env = os.Environ()
	s.cmd.Stderr = os.Stderr

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		s.state = StateError
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		s.state = StateError
		return fmt.Errorf("stdout pipe: %w", err)
	}

	if err := s.cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		s.state = StateError
		return fmt.Errorf("start %s: %w", s.config.Command, err)
	}

	s.codec = newCodec(stdin, stdout)
	s.startedAt = time.Now()
	s.state = StateReady
	return nil
}

// RunCommand submits a whole Lean command and blocks for its reply.
func (s *Server) RunCommand(ctx context.Context, cmd Command) (*CommandResponse, error) {
	raw, err := s.roundTrip(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if lerr := decodeLeanError(raw, "env"); lerr != nil {
		return nil, lerr
	}

	var resp CommandResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode command response: %w", err)
	}
	return &resp, nil
}

// RunTactic applies one tactic to a proof state and blocks for the
// resulting state.
func (s *Server) RunTactic(ctx context.Context, step ProofStep) (*ProofStepResponse, error) {
	raw, err := s.roundTrip(ctx, step)
	if err != nil {
		return nil, err
	}

	if lerr := decodeLeanError(raw, "proofState"); lerr != nil {
		return nil, lerr
	}

	var resp ProofStepResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode proof step response: %w", err)
	}
	resp.Status = deriveStatus(&resp)
	return &resp, nil
}

func deriveStatus(resp *ProofStepResponse) ProofStatus {
	switch {
	case resp.hasErrors():
		return StatusError
	case len(resp.Goals) == 0:
		return StatusCompleted
	default:
		return StatusIncomplete
	}
}

func (s *Server) roundTrip(ctx context.Context, req any) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, ErrNotRunning
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.codec.writeRequest(req); err != nil {
		s.state = StateError
		return nil, err
	}
	raw, err := s.codec.readResponse()
	if err != nil {
		s.state = StateError
		return nil, err
	}
	return raw, nil
}

// Stop asks the process to exit, escalating to a kill after a grace
// period.
func (s *Server) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.cmd == nil || s.cmd.Process == nil {
			s.state = StateStopped
			return
		}

		if sigErr := s.cmd.Process.Signal(os.Interrupt); sigErr != nil {
			err = sigErr
		}

		done := make(chan error, 1)
		go func() { done <- s.cmd.Wait() }()

		select {
		case <-done:
		case <-time.After(3 * time.Second):
			s.cmd.Process.Kill()
			<-done
		}

		s.state = StateStopped
		s.cmd = nil
		s.codec = nil
	})
	return err
}

// Kill terminates the process without waiting.
func (s *Server) Kill() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	err := s.cmd.Process.Kill()
	s.state = StateStopped
	s.cmd = nil
	s.codec = nil
	return err
}

func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// decodeLeanError recognizes the REPL's bare failure reply: an object
// with a message and none of the fields a success reply carries.
func decodeLeanError(raw json.RawMessage, successField string) *LeanError {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil
	}
	if _, ok := probe[successField]; ok {
		return nil
	}
	msg, ok := probe["message"]
	if !ok {
		return nil
	}
	var lerr LeanError
	if err := json.Unmarshal(msg, &lerr.Message); err != nil {
		return nil
	}
	return &lerr
}
