package solver

import (
	"fmt"
	"time"
)

// adapter encapsulates everything that differs between solver binaries:
// default binary name, CLI argument shape for the time limit, how to tell
// an infeasible exit from a crash, and the solution file's own format.
type adapter interface {
	defaultBinary() string
	buildArgs(lpPath, solPath string, timeLimit time.Duration) []string
	parseSolution(solPath string, p *Problem) (Solution, error)
	exitCodeMeansInfeasible(code int) bool
	graceWindow() time.Duration
}

func adapterFor(name string) (adapter, error) {
	switch name {
	case "glpk":
		return glpkAdapter{}, nil
	case "gurobi":
		return gurobiAdapter{}, nil
	case "cbc":
		return cbcAdapter{}, nil
	default:
		return nil, fmt.Errorf("unknown solver: %s", name)
	}
}
