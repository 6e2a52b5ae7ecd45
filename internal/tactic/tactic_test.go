package tactic

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []struct {
		command string
		keyword string
	}{
		{"rw [two_eq_succ_one]", "rw"},
		{"rw [← add_assoc, add_comm] at h", "rw"},
		{"rw [mul_add, add_mul, add_mul]", "rw"},
		{"apply succ_inj at h", "apply"},
		{"apply mul_left_ne_zero at h", "apply"},
		{"apply f", "apply"},
		{"nth_rewrite 2 [two_eq_succ_one]", "nth_rewrite"},
		{"nth_rewrite 2 [← zero_add y] at h", "nth_rewrite"},
		{"rfl", "rfl"},
	}

	for _, tc := range cases {
		model, err := Parse(tc.command)
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.command, err)
			continue
		}
		if model.Keyword() != tc.keyword {
			t.Errorf("Parse(%q).Keyword() = %q, want %q", tc.command, model.Keyword(), tc.keyword)
		}
		if got := model.String(); got != tc.command {
			t.Errorf("round trip of %q gave %q", tc.command, got)
		}
	}
}

func TestParseStripsInlineComments(t *testing.T) {
	model, err := Parse("rw [add_comm] -- swap the sides")
	if err != nil {
		t.Fatal(err)
	}
	if got := model.String(); got != "rw [add_comm]" {
		t.Errorf("got %q", got)
	}
}

func TestParseUnknownKeyword(t *testing.T) {
	_, err := Parse("foo bar")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("want *ParseError, got %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, command := range []string{"", "   ", "-- only a comment"} {
		if _, err := Parse(command); err == nil {
			t.Errorf("Parse(%q) should fail", command)
		}
	}
}

func TestRewriteStructure(t *testing.T) {
	model, err := Parse("rw [← add_assoc, add_comm] at h")
	if err != nil {
		t.Fatal(err)
	}
	rw, ok := model.(*Rewrite)
	if !ok {
		t.Fatalf("got %T", model)
	}
	if rw.Location != "h" {
		t.Errorf("location = %q", rw.Location)
	}
	want := []Rule{
		{Expression: "add_assoc", Direction: Backward},
		{Expression: "add_comm", Direction: Forward},
	}
	if !reflect.DeepEqual(rw.Rules, want) {
		t.Errorf("rules = %+v", rw.Rules)
	}
}

func TestNthRewriteRejectsMultipleRules(t *testing.T) {
	if _, err := Parse("nth_rewrite 1 [a, b]"); err == nil {
		t.Fatal("nth_rewrite with two rules should fail")
	}
}

func TestSplitArgumentsRespectsNesting(t *testing.T) {
	got := splitArguments("foo (a, b), bar [c, d], baz")
	want := []string{"foo (a, b)", "bar [c, d]", "baz"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRflRejectsArguments(t *testing.T) {
	if _, err := Parse("rfl at h"); err == nil {
		t.Fatal("rfl with arguments should fail")
	}
}
