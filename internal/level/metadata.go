// Package level extracts structured metadata from Natural Number Game
// level files. The marker grammar belongs to the external game project;
// it is carried here as a versioned value so a grammar change upstream
// stays a data change, not a code change.
package level

import "fmt"

// Metadata is the result of parsing a single level file. It is built once
// per parse and never mutated afterwards.
type Metadata struct {
	// Module is the Lean module that has to be imported to load this
	// level, e.g. "Game.Levels.Tutorial.L01rfl".
	Module string

	// Namespace is the dotted identifier a session opens so tactic
	// invocations resolve as they do inside the tutorial.
	Namespace string

	// Goal is the statement text in proof-assistant syntax, binders
	// included, without the trailing ":= by".
	Goal string

	// World and Level locate the file inside the game. Level is 0 when
	// the file carries no level marker.
	World string
	Level int

	// Tactics lists every tactic the level makes available, in file
	// order, hidden ones included. Hidden tags the subset that the game
	// keeps out of the visible tactic menu.
	Tactics []string
	Hidden  map[string]bool

	// TacticDocs maps tactic names to the usage text of their doc block,
	// when the file carries one.
	TacticDocs map[string]string

	// Theorems lists lemmas the level introduces, qualified as written.
	Theorems []string

	// Solution is the model proof body following ":= by", when present.
	Solution string
}

// IsHidden reports whether the named tactic is available but absent from
// the visible menu.
func (m *Metadata) IsHidden(name string) bool {
	return m.Hidden[name]
}

// ParseError reports a level file missing a required marker or otherwise
// unreadable. Optional markers never produce one.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Path, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }
