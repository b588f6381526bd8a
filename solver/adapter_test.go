package solver

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestGLPKParseSolutionMatchesByIndex(t *testing.T) {
	dir := t.TempDir()
	solPath := filepath.Join(dir, "out.sol")
	content := `Problem:
Rows:       2
Columns:    2

   No.   Column name       St   Activity     Lower bound   Upper bound
------ ------------------ -- ------------- ------------- -------------
     1 peakhigh            B      5.00000             0
     2 peaklow             B      0.00000
`
	if err := os.WriteFile(solPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	p := &Problem{Variables: []Variable{
		NewContinuousVar("peakhigh", 0, 100),
		NewFreeVar("peaklow"),
	}}

	sol, err := glpkAdapter{}.parseSolution(solPath, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(sol.Values["peakhigh"]-5.0) > epsilon {
		t.Errorf("expected peakhigh=5, got %v", sol.Values["peakhigh"])
	}
	if math.Abs(sol.Values["peaklow"]-0.0) > epsilon {
		t.Errorf("expected peaklow=0, got %v", sol.Values["peaklow"])
	}
}

func TestGLPKParseSolutionDetectsInfeasibleStatus(t *testing.T) {
	dir := t.TempDir()
	solPath := filepath.Join(dir, "out.sol")
	// glpsol still writes a populated column section (the LP relaxation)
	// even when the MIP itself has been proven infeasible; the explicit
	// Status line is the only reliable signal.
	content := `Problem:
Rows:       2
Columns:    2
Status:     INFEASIBLE (INT)
Objective:  obj = 0 (MINimum)

   No.   Column name       St   Activity     Lower bound   Upper bound
------ ------------------ -- ------------- ------------- -------------
     1 peakhigh            B      5.00000             0
     2 peaklow             B      0.00000
`
	if err := os.WriteFile(solPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	p := &Problem{Variables: []Variable{
		NewContinuousVar("peakhigh", 0, 100),
		NewFreeVar("peaklow"),
	}}

	sol, err := glpkAdapter{}.parseSolution(solPath, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Status != StatusInfeasible {
		t.Errorf("expected Status=infeasible despite a populated column section, got %q", sol.Status)
	}
}

func TestGurobiParseSolutionMatchesByName(t *testing.T) {
	dir := t.TempDir()
	solPath := filepath.Join(dir, "out.sol")
	content := "# Objective value = 5\npeakhigh 5\npeaklow 0\n"
	if err := os.WriteFile(solPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	p := &Problem{Variables: []Variable{
		NewContinuousVar("peakhigh", 0, 100),
		NewFreeVar("peaklow"),
	}}

	sol, err := gurobiAdapter{}.parseSolution(solPath, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(sol.Objective-5.0) > epsilon {
		t.Errorf("expected objective=5, got %v", sol.Objective)
	}
	if math.Abs(sol.Values["peakhigh"]-5.0) > epsilon {
		t.Errorf("expected peakhigh=5, got %v", sol.Values["peakhigh"])
	}
}

const epsilon = 1e-6
