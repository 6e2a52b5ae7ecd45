// Package repl drives an external Lean REPL process over its stdio
// protocol: one JSON request followed by a blank line in, one JSON
// response terminated by a blank line out. The protocol is the REPL's
// own; nothing here extends it.
package repl

import "fmt"

// Command runs whole Lean commands (imports, declarations, #eval) in the
// environment identified by Env. A nil Env targets a fresh environment,
// the only place imports are accepted.
type Command struct {
	Cmd string `json:"cmd"`
	Env *int   `json:"env,omitempty"`
}

// ProofStep applies a single tactic to an existing proof state.
type ProofStep struct {
	Tactic     string `json:"tactic"`
	ProofState int    `json:"proofState"`
}

type Pos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Message struct {
	Severity string `json:"severity"`
	Pos      Pos    `json:"pos"`
	EndPos   Pos    `json:"endPos"`
	Data     string `json:"data"`
}

// Sorry is a hole the REPL turned into an addressable proof state.
type Sorry struct {
	Pos        Pos    `json:"pos"`
	EndPos     Pos    `json:"endPos"`
	Goal       string `json:"goal"`
	ProofState *int   `json:"proofState,omitempty"`
}

type CommandResponse struct {
	Env      int       `json:"env"`
	Messages []Message `json:"messages,omitempty"`
	Sorries  []Sorry   `json:"sorries,omitempty"`
}

// HasErrors reports whether any diagnostic carries error severity.
func (r *CommandResponse) HasErrors() bool {
	for _, m := range r.Messages {
		if m.Severity == "error" {
			return true
		}
	}
	return false
}

type ProofStatus string

const (
	StatusCompleted  ProofStatus = "Completed"
	StatusIncomplete ProofStatus = "Incomplete"
	StatusError      ProofStatus = "Error"
)

type ProofStepResponse struct {
	ProofState int         `json:"proofState"`
	Goals      []string    `json:"goals"`
	Messages   []Message   `json:"messages,omitempty"`
	Status     ProofStatus `json:"-"`
}

func (r *ProofStepResponse) hasErrors() bool {
	for _, m := range r.Messages {
		if m.Severity == "error" {
			return true
		}
	}
	return false
}

// LeanError is the REPL's top-level failure reply, returned when a
// request itself is rejected rather than elaborated with diagnostics.
type LeanError struct {
	Message string `json:"message"`
}

func (e *LeanError) Error() string {
	return fmt.Sprintf("lean: %s", e.Message)
}
