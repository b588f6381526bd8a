package solver

import (
	"math"
	"strings"
	"testing"
)

func TestWriteLPProducesExpectedSections(t *testing.T) {
	p := &Problem{
		Variables: []Variable{
			NewContinuousVar("peakhigh", 0, 100),
			NewFreeVar("peaklow"),
			NewIntegerVar("start0", 0, 1),
		},
		Constraints: []Constraint{
			{
				Name:  "c_high_0",
				Terms: []Term{{Var: "peakhigh", Coef: 1}, {Var: "demand0", Coef: -1}},
				Op:    GreaterEq,
				RHS:   0,
			},
		},
		Objective: Objective{
			Terms:    []Term{{Var: "peakhigh", Coef: 1}, {Var: "peaklow", Coef: -1}},
			Minimize: true,
		},
	}

	var sb strings.Builder
	if err := WriteLP(&sb, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := sb.String()
	t.Logf("generated LP:\n%s", out)

	for _, want := range []string{"Minimize", "Subject To", "Bounds", "General", "End", "peaklow free", "start0"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected generated LP to contain %q, got:\n%s", want, out)
		}
	}
}

func TestWriteLPBoundsNonNegativeVariable(t *testing.T) {
	p := &Problem{
		Variables: []Variable{NewContinuousVar("x", 0, 10)},
		Objective: Objective{Terms: []Term{{Var: "x", Coef: 1}}, Minimize: true},
	}
	var sb strings.Builder
	if err := WriteLP(&sb, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sb.String(), "0 <= x <= 10") {
		t.Errorf("expected explicit bound line for x, got:\n%s", sb.String())
	}
}

// TestWriteLPBoundsAsymmetricLowerInfinite covers the peaklow shape
// (Lower: -Inf, Upper: 0), which falls into neither the fully-free nor the
// "Upper infinite" branch of writeBounds. It must never render the
// literal "-Inf"/"+Inf" tokens, which no CPLEX LP reader accepts.
func TestWriteLPBoundsAsymmetricLowerInfinite(t *testing.T) {
	p := &Problem{
		Variables: []Variable{
			{Name: "peaklow", Kind: Continuous, Lower: math.Inf(-1), Upper: 0},
		},
		Objective: Objective{Terms: []Term{{Var: "peaklow", Coef: -1}}, Minimize: true},
	}
	var sb strings.Builder
	if err := WriteLP(&sb, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := sb.String()
	t.Logf("generated LP:\n%s", out)

	if strings.Contains(out, "Inf") {
		t.Errorf("expected no literal Inf token in generated LP, got:\n%s", out)
	}
	if !strings.Contains(out, "-1e30 <= peaklow <= 0") {
		t.Errorf("expected a large finite surrogate bound line for peaklow, got:\n%s", out)
	}
}

func TestFormatNumberClampsInfinities(t *testing.T) {
	if got := formatNumber(math.Inf(1)); got != "1e30" {
		t.Errorf("formatNumber(+Inf): expected %q, got %q", "1e30", got)
	}
	if got := formatNumber(math.Inf(-1)); got != "-1e30" {
		t.Errorf("formatNumber(-Inf): expected %q, got %q", "-1e30", got)
	}
}
