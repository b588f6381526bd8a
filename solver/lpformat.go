package solver

import (
	"fmt"
	"io"
	"math"
)

// WriteLP serializes a Problem as a CPLEX LP format file, the common
// exchange format accepted by glpsol, gurobi_cl, and cbc alike.
func WriteLP(w io.Writer, p *Problem) error {
	if err := writeObjective(w, p.Objective); err != nil {
		return err
	}
	if err := writeConstraints(w, p.Constraints); err != nil {
		return err
	}
	if err := writeBounds(w, p.Variables); err != nil {
		return err
	}
	if err := writeGeneral(w, p.Variables); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "End")
	return err
}

func writeObjective(w io.Writer, obj Objective) error {
	sense := "Maximize"
	if obj.Minimize {
		sense = "Minimize"
	}
	if _, err := fmt.Fprintln(w, sense); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, " obj:"); err != nil {
		return err
	}
	if err := writeTerms(w, obj.Terms); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeConstraints(w io.Writer, constraints []Constraint) error {
	if _, err := fmt.Fprintln(w, "Subject To"); err != nil {
		return err
	}
	for _, c := range constraints {
		if _, err := fmt.Fprintf(w, " %s:", c.Name); err != nil {
			return err
		}
		if err := writeTerms(w, c.Terms); err != nil {
			return err
		}
		op := "<="
		switch c.Op {
		case GreaterEq:
			op = ">="
		case Equal:
			op = "="
		}
		if _, err := fmt.Fprintf(w, " %s %s\n", op, formatNumber(c.RHS)); err != nil {
			return err
		}
	}
	return nil
}

func writeBounds(w io.Writer, vars []Variable) error {
	if _, err := fmt.Fprintln(w, "Bounds"); err != nil {
		return err
	}
	for _, v := range vars {
		switch {
		case math.IsInf(v.Lower, -1) && math.IsInf(v.Upper, 1):
			if _, err := fmt.Fprintf(w, " %s free\n", v.Name); err != nil {
				return err
			}
		case math.IsInf(v.Upper, 1):
			if _, err := fmt.Fprintf(w, " %s >= %s\n", v.Name, formatNumber(v.Lower)); err != nil {
				return err
			}
		case math.IsInf(v.Lower, -1):
			// Upper is finite but Lower is unbounded below (e.g. peaklow):
			// neither the free nor the >= case applies. LP format has no
			// "<= upper" keyword, so the lower bound is spelled as a large
			// finite surrogate instead of emitting the literal "-Inf" token,
			// which no CPLEX LP reader accepts.
			if _, err := fmt.Fprintf(w, " %s <= %s <= %s\n", formatNumber(v.Lower), v.Name, formatNumber(v.Upper)); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintf(w, " %s <= %s <= %s\n", formatNumber(v.Lower), v.Name, formatNumber(v.Upper)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeGeneral(w io.Writer, vars []Variable) error {
	var integers []Variable
	for _, v := range vars {
		if v.Kind == Integer {
			integers = append(integers, v)
		}
	}
	if len(integers) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "General"); err != nil {
		return err
	}
	for _, v := range integers {
		if _, err := fmt.Fprintf(w, " %s\n", v.Name); err != nil {
			return err
		}
	}
	return nil
}

func writeTerms(w io.Writer, terms []Term) error {
	for _, t := range terms {
		sign := "+"
		coef := t.Coef
		if coef < 0 {
			sign = "-"
			coef = -coef
		}
		if _, err := fmt.Fprintf(w, " %s %s %s", sign, formatNumber(coef), t.Var); err != nil {
			return err
		}
	}
	return nil
}

func formatNumber(v float64) string {
	// CPLEX LP readers (glpsol, cbc, gurobi_cl) accept numeric tokens or the
	// "free" keyword, never the literal "-Inf"/"+Inf" that fmt would
	// otherwise emit; 1e30 is the conventional large-magnitude surrogate.
	if math.IsInf(v, 1) {
		return "1e30"
	}
	if math.IsInf(v, -1) {
		return "-1e30"
	}
	return fmt.Sprintf("%.10g", v)
}
