package solver

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// gurobiAdapter drives gurobi_cl, the Gurobi command-line solver.
// Gurobi's .sol format preserves variable names exactly (no fixed-width
// truncation), so values are matched by name rather than by position.
type gurobiAdapter struct{}

func (gurobiAdapter) defaultBinary() string { return "gurobi_cl" }

func (gurobiAdapter) graceWindow() time.Duration { return 10 * time.Second }

func (gurobiAdapter) buildArgs(lpPath, solPath string, timeLimit time.Duration) []string {
	return []string{
		fmt.Sprintf("TimeLimit=%d", int(timeLimit.Seconds())),
		fmt.Sprintf("ResultFile=%s", solPath),
		lpPath,
	}
}

func (gurobiAdapter) exitCodeMeansInfeasible(code int) bool {
	return false
}

// parseSolution reads a Gurobi .sol file:
//
//	# Objective value = 5
//	peakhigh 5
//	peaklow 0
func (gurobiAdapter) parseSolution(solPath string, p *Problem) (Solution, error) {
	f, err := os.Open(solPath)
	if err != nil {
		return Solution{}, fmt.Errorf("failed to open gurobi solution file: %w", err)
	}
	defer f.Close()

	values := make(map[string]float64, len(p.Variables))
	objective := 0.0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if strings.Contains(line, "Objective value") {
				fields := strings.Fields(line)
				if len(fields) > 0 {
					if v, err := strconv.ParseFloat(fields[len(fields)-1], 64); err == nil {
						objective = v
					}
				}
			}
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		values[fields[0]] = v
	}
	if err := scanner.Err(); err != nil {
		return Solution{}, fmt.Errorf("failed to scan gurobi solution file: %w", err)
	}

	return Solution{Values: values, Objective: objective}, nil
}
