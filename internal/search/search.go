// Package search enumerates tactic candidates for a goal and explores
// tactic sequences depth-first against a live session, up to a bounded
// depth.
package search

import (
	"context"
	"strconv"
	"strings"

	"github.com/rmoravec/llean/internal/logger"
	"github.com/rmoravec/llean/internal/repl"
	"github.com/rmoravec/llean/internal/session"
	"github.com/rmoravec/llean/internal/tactic"
)

var log = logger.ForComponent("search")

// quantifierTokens disqualify a hypothesis from being an induction
// target.
var quantifierTokens = []string{"→", "∀", "∃", "↔", "≠", "≤", "≥", "⊢", ":="}

// parseGoal splits a pretty-printed goal into equality hypothesis names
// and plain variable names usable as induction targets. Everything at or
// after the turnstile is ignored.
func parseGoal(goal string) (eqs, induct []string) {
	for _, raw := range strings.Split(goal, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "case") {
			continue
		}
		if strings.HasPrefix(line, "⊢") {
			break
		}
		names, typ, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		typ = strings.TrimSpace(typ)
		fields := strings.Fields(strings.ReplaceAll(names, ",", " "))
		if len(fields) == 0 {
			continue
		}
		if strings.Contains(typ, "=") {
			eqs = append(eqs, fields...)
			continue
		}
		if containsAny(typ, quantifierTokens) {
			continue
		}
		induct = append(induct, fields...)
	}
	return eqs, induct
}

// Candidates builds tactic invocations worth trying against the goal,
// honoring the level's available tactic set.
func Candidates(goal string, available []string, lemmas []string) []string {
	has := make(map[string]bool, len(available))
	for _, name := range available {
		has[name] = true
	}

	eqs, inductTargets := parseGoal(goal)

	var rewriteNames []string
	seen := make(map[string]bool)
	for _, name := range append(append([]string{}, eqs...), lemmas...) {
		if name != "" && !seen[name] {
			seen[name] = true
			rewriteNames = append(rewriteNames, name)
		}
	}

	var candidates []string
	if has["rfl"] {
		candidates = append(candidates, (&tactic.Rfl{}).String())
	}
	if has["rw"] {
		for _, name := range rewriteNames {
			fwd := &tactic.Rewrite{Rules: []tactic.Rule{{Expression: name}}}
			bwd := &tactic.Rewrite{Rules: []tactic.Rule{{Expression: name, Direction: tactic.Backward}}}
			candidates = append(candidates, fwd.String(), bwd.String())
		}
	}
	if has["nth_rewrite"] {
		for position := 1; position <= 3; position++ {
			for _, name := range rewriteNames {
				fwd := &tactic.NthRewrite{Index: position, Rule: tactic.Rule{Expression: name}}
				bwd := &tactic.NthRewrite{Index: position, Rule: tactic.Rule{Expression: name, Direction: tactic.Backward}}
				candidates = append(candidates, fwd.String(), bwd.String())
			}
		}
	}
	if has["induction"] {
		for _, name := range inductTargets {
			candidates = append(candidates, "induction "+name)
		}
	}
	return candidates
}

// Options bound a depth-first search.
type Options struct {
	MaxDepth int
	Trace    *Graph
}

// DepthFirst explores tactic sequences from rootState, depth-first, until
// a sequence closes every goal or the depth bound prunes the frontier.
// The first solution found is returned; failed branches are only recorded
// when a trace graph is supplied.
func DepthFirst(ctx context.Context, sess *session.Session, rootState int, available, lemmas []string, opts Options) ([][]string, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 6
	}
	trace := opts.Trace

	root, err := sess.RunTactic(ctx, "skip", rootState)
	if err != nil {
		return nil, err
	}
	if root.Status == repl.StatusError {
		return nil, nil
	}

	type frame struct {
		state    string
		sequence []string
	}

	rootID := strconv.Itoa(root.ProofState)
	stateGoals := map[string][]string{rootID: root.Goals}
	if trace != nil {
		trace.RecordNode(rootID, root.Goals, 0)
	}

	var solutions [][]string
	stack := []frame{{state: rootID}}
	stateDepth := map[string]int{rootID: 0}
	explored := make(map[[2]string]bool)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(top.sequence) > maxDepth {
			continue
		}

		goals := stateGoals[top.state]
		if len(goals) == 0 {
			solutions = append(solutions, top.sequence)
			if trace != nil {
				trace.Solutions = append(trace.Solutions, top.sequence)
			}
			return solutions, nil
		}

		if depth, ok := stateDepth[top.state]; ok && depth < len(top.sequence) {
			continue
		}
		stateDepth[top.state] = len(top.sequence)

		var children []frame
		for _, cand := range Candidates(goals[0], available, lemmas) {
			edge := [2]string{top.state, cand}
			if explored[edge] {
				continue
			}
			explored[edge] = true

			stateID, err := strconv.Atoi(top.state)
			if err != nil {
				continue
			}
			resp, err := sess.RunTactic(ctx, cand, stateID)
			if err != nil {
				if ctx.Err() != nil {
					return solutions, ctx.Err()
				}
				if trace != nil {
					trace.RecordAttempt(top.state, cand, "", false)
				}
				continue
			}
			if resp.Status == repl.StatusError {
				if trace != nil {
					trace.RecordAttempt(top.state, cand, "", false)
				}
				continue
			}

			newState := strconv.Itoa(resp.ProofState)
			stateGoals[newState] = resp.Goals
			newDepth := len(top.sequence) + 1
			if trace != nil {
				trace.RecordAttempt(top.state, cand, newState, true)
				trace.RecordNode(newState, resp.Goals, newDepth)
			}
			if depth, ok := stateDepth[newState]; ok && depth <= newDepth {
				continue
			}
			stateDepth[newState] = newDepth

			sequence := make([]string, 0, newDepth)
			sequence = append(append(sequence, top.sequence...), cand)
			children = append(children, frame{state: newState, sequence: sequence})
		}

		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	log.Debug("search exhausted", "solutions", len(solutions))
	return solutions, nil
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
