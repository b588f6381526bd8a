// Package optimizer implements the community self-consumption (CSC) core:
// a mixed-integer linear optimizer that jointly schedules batteries,
// shapeable loads, and deferrable loads against a forecast of
// uncontrollable demand to minimize the spread between the community's
// highest import peak and lowest export peak over a rolling horizon.
package optimizer

import (
	"time"

	"github.com/google/uuid"
)

// DemandSample is one (timestamp, power) pair of an uncontrollable demand
// forecast. Power is signed: negative values represent local generation
// surplus.
type DemandSample struct {
	Timestamp time.Time `json:"timestamp"`
	PowerKW   float64   `json:"p"`
}

// DemandForecast is an ordered, strictly monotonic, uniformly spaced
// sequence of demand samples. The spacing between adjacent samples, in
// hours, is the instance's timestep width.
type DemandForecast []DemandSample

// BatteryOrder authorizes a single battery to charge and discharge over
// the wall-clock window [StartBy, EndBy].
//
// MinKW is a historical naming inversion: it is NOT a lower bound, it is
// the maximum discharge power magnitude (see spec §9). It is kept under
// this name rather than renamed to MaxDischargeKW so that callers
// deserializing the original wire format (JSON key "min_kw") need no
// translation layer.
type BatteryOrder struct {
	ID         uuid.UUID `json:"id"`
	StartBy    time.Time `json:"startby"`
	EndBy      time.Time `json:"endby"`
	MinKW      float64   `json:"min_kw"`      // maximum discharge power magnitude, despite the name
	MaxKW      float64   `json:"max_kw"`      // maximum charge power
	MaxKWh     float64   `json:"max_kwh"`     // energy capacity
	InitialKWh float64   `json:"initial_kwh"` // energy at t=0
	EndKWh     float64   `json:"end_kwh"`     // minimum required energy at t=H-1
	Eta        float64   `json:"eta"`         // round-trip efficiency factor in (0, 1]
}

// ShapeableOrder authorizes a load with a fixed total energy obligation
// and a power cap, free to be distributed anywhere within
// [StartBy, EndBy].
type ShapeableOrder struct {
	ID      uuid.UUID `json:"id"`
	StartBy time.Time `json:"startby"`
	EndBy   time.Time `json:"endby"`
	MaxKW   float64   `json:"max_kw"`  // power cap
	EndKWh  float64   `json:"end_kwh"` // total energy that must be delivered over the window
}

// DeferrableOrder authorizes a load with a fixed power-shape profile that
// must be placed, unmodified, starting at exactly one timestep within
// [StartBy, EndBy].
type DeferrableOrder struct {
	ID        uuid.UUID `json:"id"`
	StartBy   time.Time `json:"startby"`
	EndBy     time.Time `json:"endby"`
	Duration  int       `json:"duration"`   // number of timesteps the profile spans
	ProfileKW []float64 `json:"profile_kw"` // fixed shape, length must equal Duration
}

// AssetMatrix is a per-asset time series keyed by order id: one column per
// order, one row per horizon timestep, re-indexed against the original
// wall-clock timestamps of the forecast. A nil AssetMatrix means the
// corresponding order set was empty.
type AssetMatrix struct {
	Timestamps []time.Time
	Columns    map[uuid.UUID][]float64
}

// Result is the full output bundle of one solve: per-asset schedules plus
// the derived aggregates.
type Result struct {
	DemandShape    *AssetMatrix // shapeable power, absent if no shapeables
	BatteryIn      *AssetMatrix // battery charge power, absent if no batteries
	BatteryOut     *AssetMatrix // battery discharge power, absent if no batteries
	BatteryEnergy  *AssetMatrix // battery state of energy, absent if no batteries
	DemandDeferr   *AssetMatrix // deferrable delivered power, absent if no deferrables
	DeferrSchedule *AssetMatrix // deferrable start indicator, absent if no deferrables

	Timestamps           []time.Time
	DemandControllable   []float64 // net controllable power per timestep
	CommunityImport      []float64 // max(0, uncontrollable+controllable) per timestep
	TotalCommunityImport float64
	PeakHigh             float64
	PeakLow              float64

	// Optimal is false when the solver's time limit elapsed with an
	// incumbent still on hand; the schedule above is that incumbent, not
	// a proven optimum.
	Optimal     bool
	SolveStatus string // "optimal" or "time_limit"

	SolveDuration time.Duration
	Solver        string
}
