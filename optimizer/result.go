package optimizer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/oss-grid/csc-optimizer/solver"
)

// projectResult implements the Result Projector: it reshapes the solver's
// flat (variable name) -> value map into per-asset matrices keyed by the
// original order ids and re-indexed against the forecast's wall-clock
// timestamps, then computes the derived community-import aggregates.
func projectResult(inst *instance, idx *modelIndex, sol solver.Solution, solverName string, duration time.Duration) (*Result, error) {
	res := &Result{
		Timestamps:    inst.Timestamps,
		Solver:        solverName,
		SolveDuration: duration,
	}

	switch sol.Status {
	case solver.StatusOptimal:
		res.Optimal = true
		res.SolveStatus = "optimal"
	case solver.StatusTimeLimit:
		res.Optimal = false
		res.SolveStatus = "time_limit"
	default:
		return nil, fmt.Errorf("cannot project a %s solution", sol.Status)
	}

	peakhigh, ok := sol.Values["peakhigh"]
	if !ok {
		return nil, fmt.Errorf("solver did not return a value for peakhigh")
	}
	peaklow, ok := sol.Values["peaklow"]
	if !ok {
		return nil, fmt.Errorf("solver did not return a value for peaklow")
	}
	res.PeakHigh = peakhigh
	res.PeakLow = peaklow

	res.DemandControllable = make([]float64, inst.H)
	res.CommunityImport = make([]float64, inst.H)
	for t := 0; t < inst.H; t++ {
		dc := sol.Values[fmt.Sprintf("dc_%d", t)]
		res.DemandControllable[t] = dc
		imp := inst.Demand[t] + dc
		if imp < 0 {
			imp = 0
		}
		res.CommunityImport[t] = imp
	}
	res.TotalCommunityImport = floats.Sum(res.CommunityImport) * inst.TimestepHrs

	if len(idx.Shapeables) > 0 {
		res.DemandShape = extractMatrix(inst, idx.Shapeables, sol.Values, func(i, t int) string {
			return fmt.Sprintf("shp_%d_%d", i, t)
		})
	}
	if len(idx.Batteries) > 0 {
		res.BatteryIn = extractMatrix(inst, idx.Batteries, sol.Values, func(i, t int) string {
			return fmt.Sprintf("bin_%d_%d", i, t)
		})
		res.BatteryOut = extractMatrix(inst, idx.Batteries, sol.Values, func(i, t int) string {
			return fmt.Sprintf("bout_%d_%d", i, t)
		})
		res.BatteryEnergy = extractMatrix(inst, idx.Batteries, sol.Values, func(i, t int) string {
			return fmt.Sprintf("be_%d_%d", i, t)
		})
	}
	if len(idx.Deferrables) > 0 {
		res.DemandDeferr = extractMatrix(inst, idx.Deferrables, sol.Values, func(i, t int) string {
			return fmt.Sprintf("ddef_%d_%d", i, t)
		})
		res.DeferrSchedule = extractMatrix(inst, idx.Deferrables, sol.Values, func(i, t int) string {
			return fmt.Sprintf("dsch_%d_%d", i, t)
		})
	}

	return res, nil
}

func extractMatrix(inst *instance, ids []uuid.UUID, values map[string]float64, name func(i, t int) string) *AssetMatrix {
	m := &AssetMatrix{
		Timestamps: inst.Timestamps,
		Columns:    make(map[uuid.UUID][]float64, len(ids)),
	}
	for i, id := range ids {
		col := make([]float64, inst.H)
		for t := 0; t < inst.H; t++ {
			col[t] = values[name(i, t)]
		}
		m.Columns[id] = col
	}
	return m
}
