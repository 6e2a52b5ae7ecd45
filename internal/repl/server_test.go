package repl

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"testing"
)

func TestServerStartMissingCommand(t *testing.T) {
	srv := NewServer(ServerConfig{Command: "llean-no-such-binary"})
	err := srv.Start(context.Background())
	if !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("want ErrNotInstalled, got %v", err)
	}
	if srv.State() != StateStopped {
		t.Errorf("state = %s", srv.State())
	}
}

func TestServerRunBeforeStart(t *testing.T) {
	srv := NewServer(ServerConfig{Command: "cat"})
	_, err := srv.RunCommand(context.Background(), Command{Cmd: "rfl"})
	if !errors.Is(err, ErrNotRunning) {
		t.Fatalf("want ErrNotRunning, got %v", err)
	}
}

// cat echoes requests back verbatim, which is enough to exercise the
// full write/read cycle against a real child process.
func TestServerRoundTripThroughProcess(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}

	srv := NewServer(ServerConfig{Command: "cat", Dir: t.TempDir()})
	if err := srv.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer srv.Kill()

	if srv.State() != StateReady {
		t.Fatalf("state = %s", srv.State())
	}

	resp, err := srv.RunCommand(context.Background(), Command{Cmd: "open MyNat"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.HasErrors() {
		t.Error("echoed request should not carry errors")
	}
}

func TestDecodeLeanError(t *testing.T) {
	raw := json.RawMessage(`{"message": "Lean error:\nunknown constant"}`)
	lerr := decodeLeanError(raw, "env")
	if lerr == nil {
		t.Fatal("expected LeanError")
	}
	if lerr.Message == "" {
		t.Error("empty message")
	}

	// A reply with the success field is not a failure even when it also
	// carries a message field.
	raw = json.RawMessage(`{"env": 0, "message": "warning"}`)
	if lerr := decodeLeanError(raw, "env"); lerr != nil {
		t.Errorf("unexpected LeanError: %v", lerr)
	}
}

func TestCommandResponseHasErrors(t *testing.T) {
	resp := &CommandResponse{Messages: []Message{
		{Severity: "warning", Data: "unused variable"},
	}}
	if resp.HasErrors() {
		t.Error("warnings are not errors")
	}
	resp.Messages = append(resp.Messages, Message{Severity: "error", Data: "type mismatch"})
	if !resp.HasErrors() {
		t.Error("error severity should be reported")
	}
}

func TestProofStatusDerivation(t *testing.T) {
	cases := []struct {
		resp ProofStepResponse
		want ProofStatus
	}{
		{ProofStepResponse{Goals: nil}, StatusCompleted},
		{ProofStepResponse{Goals: []string{"⊢ a = a"}}, StatusIncomplete},
		{ProofStepResponse{Messages: []Message{{Severity: "error"}}}, StatusError},
	}
	for _, tc := range cases {
		got := deriveStatus(&tc.resp)
		if got != tc.want {
			t.Errorf("status for %+v = %s, want %s", tc.resp, got, tc.want)
		}
	}
}
