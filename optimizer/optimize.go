package optimizer

import (
	"context"
	"fmt"
	"log"
	"time"

	dsolver "github.com/oss-grid/csc-optimizer/solver"
)

// MaximizeSelfConsumption is the core's single entry point: it normalizes
// the forecast and order books into an integer-indexed instance, builds
// the peak-spread MILP, drives the configured external solver, and
// projects the result back onto wall-clock timestamps.
//
// opts.Logger receives exactly one line at completion (solve duration,
// solver, objective value) and one line per failure path; a nil Logger
// falls back to log.Default(), matching scheduler.NewMinerScheduler's
// convention.
func MaximizeSelfConsumption(
	ctx context.Context,
	uncontrollable DemandForecast,
	batteries []BatteryOrder,
	shapeables []ShapeableOrder,
	deferrables []DeferrableOrder,
	opts Options,
) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	if err := opts.Validate(); err != nil {
		logger.Printf("rejected invalid options: %v", err)
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	inst, err := normalize(uncontrollable, batteries, shapeables, deferrables, opts.TimestepHours)
	if err != nil {
		logger.Printf("normalization failed: %v", err)
		return nil, err
	}

	problem, idx := buildModel(inst)

	driver := &dsolver.Driver{
		Name:      opts.Solver,
		Path:      opts.SolverPath,
		TimeLimit: opts.TimeLimit,
		Verbose:   opts.Verbose,
	}

	start := time.Now()
	sol, err := driver.Solve(ctx, problem)
	elapsed := time.Since(start)

	if err != nil {
		switch e := err.(type) {
		case *dsolver.InfeasibleError:
			logger.Printf("solve failed: infeasible (%s, %s)", opts.Solver, elapsed)
			return nil, &InfeasibleError{Solver: e.Solver}
		case *dsolver.TimeoutError:
			logger.Printf("solve failed: timeout with no incumbent (%s, %s)", opts.Solver, elapsed)
			return nil, &SolverTimeoutError{Solver: e.Solver, TimeLimit: e.TimeLimit.String()}
		case *dsolver.RunError:
			logger.Printf("solve failed: solver error (%s, %s): %v", opts.Solver, elapsed, e.Err)
			return nil, &SolverError{Solver: e.Solver, Err: e.Err}
		default:
			logger.Printf("solve failed: %v (%s, %s)", err, opts.Solver, elapsed)
			return nil, &SolverError{Solver: opts.Solver, Err: err}
		}
	}

	result, err := projectResult(inst, idx, sol, opts.Solver, elapsed)
	if err != nil {
		logger.Printf("result projection failed: %v", err)
		return nil, fmt.Errorf("failed to project solver result: %w", err)
	}

	logger.Printf("solve complete: solver=%s duration=%s objective=%.4f", opts.Solver, elapsed, result.PeakHigh-result.PeakLow)

	return result, nil
}
