package search

import (
	"reflect"
	"testing"
)

const succGoal = `case succ
a b : ℕ
h : a + b = b
⊢ a + succ b = succ b`

func TestParseGoal(t *testing.T) {
	eqs, induct := parseGoal(succGoal)

	if !reflect.DeepEqual(eqs, []string{"h"}) {
		t.Errorf("eqs = %v", eqs)
	}
	if !reflect.DeepEqual(induct, []string{"a", "b"}) {
		t.Errorf("induct = %v", induct)
	}
}

func TestParseGoalSkipsQuantifiedHypotheses(t *testing.T) {
	goal := `f : ℕ → ℕ
hx : ∀ n, f n ≤ n
x : ℕ
⊢ f x = x`

	eqs, induct := parseGoal(goal)
	if len(eqs) != 0 {
		t.Errorf("eqs = %v, want none (arrow and forall types excluded)", eqs)
	}
	if !reflect.DeepEqual(induct, []string{"x"}) {
		t.Errorf("induct = %v", induct)
	}
}

func TestParseGoalGroupedBinders(t *testing.T) {
	goal := `a, b : ℕ
⊢ a + b = b + a`

	_, induct := parseGoal(goal)
	if !reflect.DeepEqual(induct, []string{"a", "b"}) {
		t.Errorf("induct = %v", induct)
	}
}

func TestCandidatesHonorAvailableTactics(t *testing.T) {
	available := []string{"rfl", "rw"}
	got := Candidates(succGoal, available, []string{"add_zero"})

	want := []string{
		"rfl",
		"rw [h]",
		"rw [← h]",
		"rw [add_zero]",
		"rw [← add_zero]",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("candidates = %v, want %v", got, want)
	}
}

func TestCandidatesInduction(t *testing.T) {
	got := Candidates(succGoal, []string{"induction"}, nil)
	want := []string{"induction a", "induction b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("candidates = %v, want %v", got, want)
	}
}

func TestCandidatesNthRewriteEnumeratesPositions(t *testing.T) {
	got := Candidates(succGoal, []string{"nth_rewrite"}, nil)
	// Positions 1..3, forward and backward, for the one equality
	// hypothesis.
	if len(got) != 6 {
		t.Fatalf("got %d candidates: %v", len(got), got)
	}
	if got[0] != "nth_rewrite 1 [h]" || got[1] != "nth_rewrite 1 [← h]" {
		t.Errorf("unexpected ordering: %v", got[:2])
	}
}

func TestCandidatesDeduplicatesRewriteNames(t *testing.T) {
	got := Candidates(succGoal, []string{"rw"}, []string{"h"})
	want := []string{"rw [h]", "rw [← h]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("candidates = %v, want %v", got, want)
	}
}

func TestGraphRecording(t *testing.T) {
	g := NewGraph()
	g.RecordNode("0", []string{"⊢ a = a"}, 0)
	g.RecordAttempt("0", "rfl", "1", true)
	g.RecordAttempt("0", "rw [h]", "", false)

	if g.Root != "0" {
		t.Errorf("root = %q", g.Root)
	}
	node := g.Nodes["0"]
	if len(node.TacticsTried) != 2 {
		t.Errorf("tried = %v", node.TacticsTried)
	}
	if len(node.Successes) != 1 || node.Successes[0].NewState != "1" {
		t.Errorf("successes = %v", node.Successes)
	}
	if !reflect.DeepEqual(node.Failures, []string{"rw [h]"}) {
		t.Errorf("failures = %v", node.Failures)
	}

	// Revisiting a node keeps the shallowest depth.
	g.RecordNode("1", nil, 5)
	g.RecordNode("1", nil, 2)
	if g.Nodes["1"].Depth != 2 {
		t.Errorf("depth = %d", g.Nodes["1"].Depth)
	}
}
