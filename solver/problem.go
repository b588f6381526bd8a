// Package solver builds a solver-agnostic LP/MILP model, writes it in
// CPLEX LP format, and drives an external solver binary (GLPK, Gurobi, or
// CBC) against it as a subprocess.
package solver

import "math"

// VarKind distinguishes continuous decision variables from integer ones.
type VarKind int

const (
	Continuous VarKind = iota
	Integer
)

// Variable is one decision variable of the model.
type Variable struct {
	Name  string
	Kind  VarKind
	Lower float64 // math.Inf(-1) for unbounded below
	Upper float64 // math.Inf(1) for unbounded above
}

// Term is one coefficient-variable pair in a linear expression.
type Term struct {
	Var  string
	Coef float64
}

// CompareOp is the relational operator of a constraint's row.
type CompareOp int

const (
	LessEq CompareOp = iota
	GreaterEq
	Equal
)

// Constraint is one row of the model: a linear expression related to a
// right-hand-side constant.
type Constraint struct {
	Name  string
	Terms []Term
	Op    CompareOp
	RHS   float64
}

// Objective is the linear expression to minimize or maximize.
type Objective struct {
	Terms    []Term
	Minimize bool
}

// Problem is the full solver-agnostic model: a set of variables, a set of
// constraint rows, and one objective.
type Problem struct {
	Variables   []Variable
	Constraints []Constraint
	Objective   Objective
}

// AddVar appends a variable and returns its name, for call sites that want
// to build names and immediately use them in a Term.
func (p *Problem) AddVar(v Variable) string {
	p.Variables = append(p.Variables, v)
	return v.Name
}

// AddConstraint appends a constraint row to the model.
func (p *Problem) AddConstraint(c Constraint) {
	p.Constraints = append(p.Constraints, c)
}

// NewContinuousVar is a convenience constructor for a continuous variable
// bounded to [lower, upper], the most common case in this model (power
// and energy variables).
func NewContinuousVar(name string, lower, upper float64) Variable {
	return Variable{Name: name, Kind: Continuous, Lower: lower, Upper: upper}
}

// NewFreeVar is a convenience constructor for a continuous variable
// unbounded in both directions (used for the per-timestep net
// controllable demand, whose sign is not fixed).
func NewFreeVar(name string) Variable {
	return Variable{Name: name, Kind: Continuous, Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// NewIntegerVar is a convenience constructor for a non-negative integer
// variable (used for the deferrable start-time indicator).
func NewIntegerVar(name string, lower, upper float64) Variable {
	return Variable{Name: name, Kind: Integer, Lower: lower, Upper: upper}
}
