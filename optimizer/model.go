package optimizer

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/oss-grid/csc-optimizer/solver"
)

// modelIndex records the dense integer index assigned to each order id
// during model construction, so the Result Projector can map solver
// variable names back to the caller's opaque ids.
type modelIndex struct {
	Batteries   []uuid.UUID
	Shapeables  []uuid.UUID
	Deferrables []uuid.UUID
}

// buildModel translates a normalized instance into a solver-agnostic MILP,
// following the constraint families and decision variables of the
// peak-spread formulation: shapeable power/energy, battery charge-discharge
// with efficiency-weighted state-of-energy recursion, deferrable profile
// placement via discrete convolution, and the aggregation identity tying
// them all to a single peakhigh/peaklow pair.
func buildModel(inst *instance) (*solver.Problem, *modelIndex) {
	p := &solver.Problem{}
	idx := &modelIndex{}

	delta := inst.TimestepHrs
	h := inst.H

	p.AddVar(solver.NewContinuousVar("peakhigh", 0, math.Inf(1)))
	p.AddVar(solver.Variable{Name: "peaklow", Kind: solver.Continuous, Lower: math.Inf(-1), Upper: 0})

	dcName := func(t int) string { return fmt.Sprintf("dc_%d", t) }
	for t := 0; t < h; t++ {
		p.AddVar(solver.NewFreeVar(dcName(t)))
	}

	shpName := func(si, t int) string { return fmt.Sprintf("shp_%d_%d", si, t) }
	for si, s := range inst.Shapeables {
		idx.Shapeables = append(idx.Shapeables, s.ID)
		for t := 0; t < h; t++ {
			upper := s.MaxKW
			if t < s.StartIdx || t > s.EndIdx {
				upper = 0
			}
			p.AddVar(solver.NewContinuousVar(shpName(si, t), 0, upper))
		}
		var energyTerms []solver.Term
		for t := 0; t < h; t++ {
			energyTerms = append(energyTerms, solver.Term{Var: shpName(si, t), Coef: delta})
		}
		p.AddConstraint(solver.Constraint{
			Name:  fmt.Sprintf("shp_energy_%d", si),
			Terms: energyTerms,
			Op:    solver.Equal,
			RHS:   s.EndKWh,
		})
	}

	binName := func(bi, t int) string { return fmt.Sprintf("bin_%d_%d", bi, t) }
	boutName := func(bi, t int) string { return fmt.Sprintf("bout_%d_%d", bi, t) }
	beName := func(bi, t int) string { return fmt.Sprintf("be_%d_%d", bi, t) }
	for bi, b := range inst.Batteries {
		idx.Batteries = append(idx.Batteries, b.ID)
		for t := 0; t < h; t++ {
			inUpper, outUpper := b.MaxKW, b.MinKW
			if t < b.StartIdx || t > b.EndIdx {
				inUpper, outUpper = 0, 0
			}
			p.AddVar(solver.NewContinuousVar(binName(bi, t), 0, inUpper))
			p.AddVar(solver.NewContinuousVar(boutName(bi, t), 0, outUpper))
			p.AddVar(solver.NewContinuousVar(beName(bi, t), 0, b.MaxKWh))
		}

		p.AddConstraint(solver.Constraint{
			Name:  fmt.Sprintf("batt_init_%d", bi),
			Terms: []solver.Term{{Var: beName(bi, 0), Coef: 1}},
			Op:    solver.Equal,
			RHS:   b.InitialKWh,
		})
		for t := 1; t < h; t++ {
			p.AddConstraint(solver.Constraint{
				Name: fmt.Sprintf("batt_energy_%d_%d", bi, t),
				Terms: []solver.Term{
					{Var: beName(bi, t), Coef: 1},
					{Var: beName(bi, t-1), Coef: -1},
					{Var: binName(bi, t), Coef: -delta * b.Eta},
					{Var: boutName(bi, t), Coef: delta / b.Eta},
				},
				Op:  solver.Equal,
				RHS: 0,
			})
		}
		p.AddConstraint(solver.Constraint{
			Name:  fmt.Sprintf("batt_end_%d", bi),
			Terms: []solver.Term{{Var: beName(bi, h-1), Coef: 1}},
			Op:    solver.GreaterEq,
			RHS:   b.EndKWh,
		})
	}

	ddefName := func(di, t int) string { return fmt.Sprintf("ddef_%d_%d", di, t) }
	dschName := func(di, t int) string { return fmt.Sprintf("dsch_%d_%d", di, t) }
	for di, d := range inst.Deferrables {
		idx.Deferrables = append(idx.Deferrables, d.ID)
		for t := 0; t < h; t++ {
			inWindow := t >= d.StartIdx && t <= d.EndIdx
			schedUpper := 0.0
			if inWindow {
				schedUpper = 1
			}
			p.AddVar(solver.NewIntegerVar(dschName(di, t), 0, schedUpper))

			ddefLower, ddefUpper := 0.0, 0.0
			if inWindow {
				ddefLower, ddefUpper = math.Inf(-1), math.Inf(1)
			}
			p.AddVar(solver.Variable{Name: ddefName(di, t), Kind: solver.Continuous, Lower: ddefLower, Upper: ddefUpper})
		}

		for t := 0; t < h; t++ {
			terms := []solver.Term{{Var: ddefName(di, t), Coef: 1}}
			maxK := d.Duration
			if t+1 < maxK {
				maxK = t + 1
			}
			for k := 0; k < maxK; k++ {
				terms = append(terms, solver.Term{Var: dschName(di, t-k), Coef: -d.Profile[k]})
			}
			p.AddConstraint(solver.Constraint{
				Name:  fmt.Sprintf("defr_conv_%d_%d", di, t),
				Terms: terms,
				Op:    solver.Equal,
				RHS:   0,
			})
		}

		var placeTerms []solver.Term
		for t := 0; t < h; t++ {
			placeTerms = append(placeTerms, solver.Term{Var: dschName(di, t), Coef: 1})
		}
		p.AddConstraint(solver.Constraint{
			Name:  fmt.Sprintf("defr_place_%d", di),
			Terms: placeTerms,
			Op:    solver.Equal,
			RHS:   1,
		})
	}

	for t := 0; t < h; t++ {
		terms := []solver.Term{{Var: dcName(t), Coef: 1}}
		for si := range inst.Shapeables {
			terms = append(terms, solver.Term{Var: shpName(si, t), Coef: -1})
		}
		for bi := range inst.Batteries {
			terms = append(terms, solver.Term{Var: binName(bi, t), Coef: -1})
			terms = append(terms, solver.Term{Var: boutName(bi, t), Coef: 1})
		}
		for di := range inst.Deferrables {
			terms = append(terms, solver.Term{Var: ddefName(di, t), Coef: -1})
		}
		p.AddConstraint(solver.Constraint{
			Name:  fmt.Sprintf("aggregate_%d", t),
			Terms: terms,
			Op:    solver.Equal,
			RHS:   0,
		})

		p.AddConstraint(solver.Constraint{
			Name:  fmt.Sprintf("peak_high_%d", t),
			Terms: []solver.Term{{Var: "peakhigh", Coef: 1}, {Var: dcName(t), Coef: -1}},
			Op:    solver.GreaterEq,
			RHS:   inst.Demand[t],
		})
		p.AddConstraint(solver.Constraint{
			Name:  fmt.Sprintf("peak_low_%d", t),
			Terms: []solver.Term{{Var: "peaklow", Coef: 1}, {Var: dcName(t), Coef: -1}},
			Op:    solver.LessEq,
			RHS:   inst.Demand[t],
		})
	}

	p.Objective = solver.Objective{
		Terms:    []solver.Term{{Var: "peakhigh", Coef: 1}, {Var: "peaklow", Coef: -1}},
		Minimize: true,
	}

	return p, idx
}
