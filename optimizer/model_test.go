package optimizer

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func varByName(p *testProblem, name string) (lower, upper float64, found bool) {
	for _, v := range p.vars {
		if v.name == name {
			return v.lower, v.upper, true
		}
	}
	return 0, 0, false
}

// testProblem is a minimal mirror of solver.Problem's variable bounds,
// built directly from buildModel's output for assertions that don't need
// to import the solver package's exported types.
type testProblem struct {
	vars []struct {
		name         string
		lower, upper float64
	}
}

func collectVars(t *testing.T, inst *instance) *testProblem {
	t.Helper()
	p, _ := buildModel(inst)
	tp := &testProblem{}
	for _, v := range p.Variables {
		tp.vars = append(tp.vars, struct {
			name         string
			lower, upper float64
		}{v.Name, v.Lower, v.Upper})
	}
	return tp
}

func TestBuildModelGatesShapeableOutsideWindow(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fc := hourlyForecast(t0, []float64{0, 0, 0, 0})

	s := ShapeableOrder{ID: uuid.New(), StartBy: t0.Add(time.Hour), EndBy: t0.Add(2 * time.Hour), MaxKW: 3, EndKWh: 3}
	inst, err := normalize(fc, nil, []ShapeableOrder{s}, nil, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tp := collectVars(t, inst)

	_, upper, found := varByName(tp, "shp_0_0")
	if !found {
		t.Fatal("expected variable shp_0_0 to exist")
	}
	if upper != 0 {
		t.Errorf("expected shp_0_0 (outside window) to be pinned to 0, got upper=%v", upper)
	}

	_, upper, found = varByName(tp, "shp_0_1")
	if !found {
		t.Fatal("expected variable shp_0_1 to exist")
	}
	if upper != 3 {
		t.Errorf("expected shp_0_1 (inside window) to have upper=3, got %v", upper)
	}
}

func TestBuildModelGatesBatteryOutsideWindow(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fc := hourlyForecast(t0, []float64{0, 0, 0, 0})

	b := BatteryOrder{
		ID: uuid.New(), StartBy: t0.Add(time.Hour), EndBy: t0.Add(2 * time.Hour),
		MinKW: 4, MaxKW: 5, MaxKWh: 10, InitialKWh: 1, EndKWh: 1, Eta: 0.9,
	}
	inst, err := normalize(fc, []BatteryOrder{b}, nil, nil, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tp := collectVars(t, inst)

	_, upper, _ := varByName(tp, "bin_0_0")
	if upper != 0 {
		t.Errorf("expected bin_0_0 (outside window) pinned to 0, got %v", upper)
	}
	_, upper, _ = varByName(tp, "bout_0_1")
	if upper != 4 {
		t.Errorf("expected bout_0_1 (inside window) upper=4 (min_kw as discharge cap), got %v", upper)
	}

	lower, upper, found := varByName(tp, "be_0_0")
	if !found {
		t.Fatal("expected be_0_0 to exist")
	}
	if lower != 0 || upper != 10 {
		t.Errorf("expected battery energy bounds [0,10] at every t including outside the window, got [%v,%v]", lower, upper)
	}
}

func TestBuildModelGatesDeferrableOutsideWindow(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fc := hourlyForecast(t0, []float64{0, 0, 0, 0, 0})

	d := DeferrableOrder{ID: uuid.New(), StartBy: t0.Add(time.Hour), EndBy: t0.Add(3 * time.Hour), Duration: 2, ProfileKW: []float64{1, 2}}
	inst, err := normalize(fc, nil, nil, []DeferrableOrder{d}, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tp := collectVars(t, inst)

	_, upper, _ := varByName(tp, "dsch_0_0")
	if upper != 0 {
		t.Errorf("expected dsch_0_0 (outside window) pinned to 0, got %v", upper)
	}
	_, upper, _ = varByName(tp, "dsch_0_1")
	if upper != 1 {
		t.Errorf("expected dsch_0_1 (inside window) upper=1, got %v", upper)
	}

	lower, upper, _ := varByName(tp, "ddef_0_0")
	if lower != 0 || upper != 0 {
		t.Errorf("expected ddef_0_0 (outside window) pinned to [0,0], got [%v,%v]", lower, upper)
	}
	lower, upper, _ = varByName(tp, "ddef_0_1")
	if !math.IsInf(lower, -1) || !math.IsInf(upper, 1) {
		t.Errorf("expected ddef_0_1 (inside window) to be free, got [%v,%v]", lower, upper)
	}
}
