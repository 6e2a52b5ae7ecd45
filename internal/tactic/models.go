package tactic

import (
	"regexp"
	"strconv"
	"strings"
)

// Direction is a rewrite orientation. Backward rules render with the Lean
// left-arrow prefix.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// Rule is one argument of a rewrite: a Lean expression plus direction.
type Rule struct {
	Expression string
	Direction  Direction
}

func (r Rule) String() string {
	if r.Direction == Backward {
		return "← " + r.Expression
	}
	return r.Expression
}

// ParseRule reads an optional leading left arrow off a rewrite argument.
func ParseRule(token string) (Rule, error) {
	trimmed := strings.TrimSpace(token)
	dir := Forward
	if rest, ok := strings.CutPrefix(trimmed, "←"); ok {
		dir = Backward
		trimmed = strings.TrimSpace(rest)
	}
	if trimmed == "" {
		return Rule{}, &ParseError{Command: token, Reason: "empty rewrite rule"}
	}
	return Rule{Expression: trimmed, Direction: dir}, nil
}

var rewritePattern = regexp.MustCompile(`(?s)^rw\s+\[(.+)\](?:\s+at\s+(.+))?$`)

// Rewrite models `rw [rules] at location`.
type Rewrite struct {
	Rules    []Rule
	Location string
}

func (*Rewrite) Keyword() string { return "rw" }

func (t *Rewrite) String() string {
	parts := make([]string, len(t.Rules))
	for i, rule := range t.Rules {
		parts[i] = rule.String()
	}
	out := "rw [" + strings.Join(parts, ", ") + "]"
	if t.Location != "" {
		out += " at " + t.Location
	}
	return out
}

func parseRewrite(command string) (Model, error) {
	m := rewritePattern.FindStringSubmatch(command)
	if m == nil {
		return nil, &ParseError{Command: command, Reason: "malformed rw"}
	}
	tokens := splitArguments(m[1])
	if len(tokens) == 0 {
		return nil, &ParseError{Command: command, Reason: "rw requires at least one rule"}
	}
	rules := make([]Rule, 0, len(tokens))
	for _, token := range tokens {
		rule, err := ParseRule(token)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return &Rewrite{Rules: rules, Location: strings.TrimSpace(m[2])}, nil
}

var applyPattern = regexp.MustCompile(`(?s)^apply\s+(.+?)(?:\s+at\s+(.+))?$`)

// Apply models `apply expr at location`.
type Apply struct {
	Expression string
	Location   string
}

func (*Apply) Keyword() string { return "apply" }

func (t *Apply) String() string {
	out := "apply " + t.Expression
	if t.Location != "" {
		out += " at " + t.Location
	}
	return out
}

func parseApply(command string) (Model, error) {
	m := applyPattern.FindStringSubmatch(command)
	if m == nil {
		return nil, &ParseError{Command: command, Reason: "malformed apply"}
	}
	expr := strings.TrimSpace(m[1])
	if expr == "" {
		return nil, &ParseError{Command: command, Reason: "apply requires an expression"}
	}
	return &Apply{Expression: expr, Location: strings.TrimSpace(m[2])}, nil
}

var nthRewritePattern = regexp.MustCompile(`(?s)^nth_rewrite\s+(\d+)\s+\[(.+)\](?:\s+at\s+(.+))?$`)

// NthRewrite models `nth_rewrite n [rule] at location`.
type NthRewrite struct {
	Index    int
	Rule     Rule
	Location string
}

func (*NthRewrite) Keyword() string { return "nth_rewrite" }

func (t *NthRewrite) String() string {
	out := "nth_rewrite " + strconv.Itoa(t.Index) + " [" + t.Rule.String() + "]"
	if t.Location != "" {
		out += " at " + t.Location
	}
	return out
}

func parseNthRewrite(command string) (Model, error) {
	m := nthRewritePattern.FindStringSubmatch(command)
	if m == nil {
		return nil, &ParseError{Command: command, Reason: "malformed nth_rewrite"}
	}
	tokens := splitArguments(m[2])
	if len(tokens) != 1 {
		return nil, &ParseError{Command: command, Reason: "nth_rewrite takes exactly one rule"}
	}
	rule, err := ParseRule(tokens[0])
	if err != nil {
		return nil, err
	}
	index, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, &ParseError{Command: command, Reason: "bad index"}
	}
	return &NthRewrite{Index: index, Rule: rule, Location: strings.TrimSpace(m[3])}, nil
}

// Rfl models the bare `rfl` tactic.
type Rfl struct{}

func (*Rfl) Keyword() string { return "rfl" }
func (*Rfl) String() string  { return "rfl" }

func parseRfl(command string) (Model, error) {
	if strings.TrimSpace(command) != "rfl" {
		return nil, &ParseError{Command: command, Reason: "rfl takes no arguments"}
	}
	return &Rfl{}, nil
}
