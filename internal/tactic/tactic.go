// Package tactic gives common Lean tactic invocations a structured form
// that survives a parse/format round trip, so callers can enumerate and
// mutate candidate tactics instead of splicing strings.
package tactic

import (
	"fmt"
	"strings"
)

// ParseError reports a tactic string that does not fit any registered
// model.
type ParseError struct {
	Command string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse tactic %q: %s", e.Command, e.Reason)
}

// Model is one structured tactic invocation. String renders the exact
// invocation text back.
type Model interface {
	Keyword() string
	String() string
}

type parserFunc func(command string) (Model, error)

// registry maps the leading keyword of an invocation to its parser.
var registry = map[string]parserFunc{
	"rw":          parseRewrite,
	"apply":       parseApply,
	"nth_rewrite": parseNthRewrite,
	"rfl":         parseRfl,
}

// Parse dispatches on the invocation's leading keyword. Inline `--`
// comments are stripped first.
func Parse(command string) (Model, error) {
	cleaned := stripComment(command)
	if cleaned == "" {
		return nil, &ParseError{Command: command, Reason: "empty command"}
	}
	keyword := strings.Fields(cleaned)[0]
	parse, ok := registry[keyword]
	if !ok {
		return nil, &ParseError{Command: command, Reason: "unsupported keyword " + keyword}
	}
	return parse(cleaned)
}

func stripComment(command string) string {
	head, _, _ := strings.Cut(command, "--")
	return strings.TrimSpace(head)
}

// splitArguments splits a comma separated block while respecting bracket
// nesting, so `rw [foo (a, b), bar]` keeps its two rules intact.
func splitArguments(block string) []string {
	var entries []string
	var current strings.Builder
	depth := 0
	for _, r := range block {
		switch {
		case r == ',' && depth == 0:
			if entry := strings.TrimSpace(current.String()); entry != "" {
				entries = append(entries, entry)
			}
			current.Reset()
			continue
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			if depth > 0 {
				depth--
			}
		}
		current.WriteRune(r)
	}
	if entry := strings.TrimSpace(current.String()); entry != "" {
		entries = append(entries, entry)
	}
	return entries
}
