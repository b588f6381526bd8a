package optimizer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// normalizedBattery is a BatteryOrder with its wall-clock window converted
// to integer timestep indices.
type normalizedBattery struct {
	ID                 uuid.UUID
	StartIdx, EndIdx   int
	MinKW, MaxKW       float64
	MaxKWh, InitialKWh float64
	EndKWh, Eta        float64
}

// normalizedShapeable is a ShapeableOrder with its wall-clock window
// converted to integer timestep indices.
type normalizedShapeable struct {
	ID               uuid.UUID
	StartIdx, EndIdx int
	MaxKW, EndKWh    float64
}

// normalizedDeferrable is a DeferrableOrder with its wall-clock window
// converted to integer timestep indices.
type normalizedDeferrable struct {
	ID               uuid.UUID
	StartIdx, EndIdx int
	Duration         int
	Profile          []float64
}

// instance is the fully integer-indexed MILP instance produced by the
// Normalizer, ready for the Model Builder.
type instance struct {
	H           int
	TimestepHrs float64
	Timestamps  []time.Time
	Demand      []float64
	Batteries   []normalizedBattery
	Shapeables  []normalizedShapeable
	Deferrables []normalizedDeferrable
}

// normalize implements the Normalizer contract: it converts the
// wall-clock forecast and order books into an integer-indexed instance.
// It fails with InvalidHorizonError if the forecast is too short or
// non-uniformly spaced, and with InvalidOrderError if an order's window
// is malformed or resolves outside the horizon.
func normalize(
	forecast DemandForecast,
	batteries []BatteryOrder,
	shapeables []ShapeableOrder,
	deferrables []DeferrableOrder,
	timestepHours float64,
) (*instance, error) {
	h := len(forecast)
	if h < 2 {
		return nil, &InvalidHorizonError{Reason: fmt.Sprintf("forecast has %d samples, need at least 2", h)}
	}

	delta := time.Duration(timestepHours * float64(time.Hour))
	if delta <= 0 {
		return nil, &InvalidHorizonError{Reason: "timestep must be positive"}
	}

	t0 := forecast[0].Timestamp
	timestamps := make([]time.Time, h)
	demand := make([]float64, h)
	for i, sample := range forecast {
		timestamps[i] = sample.Timestamp
		demand[i] = sample.PowerKW

		if i == 0 {
			continue
		}
		gap := sample.Timestamp.Sub(forecast[i-1].Timestamp)
		if absDuration(gap-delta) > time.Millisecond {
			return nil, &InvalidHorizonError{
				Reason: fmt.Sprintf("non-uniform spacing at index %d: gap %s, expected %s", i, gap, delta),
			}
		}
	}

	inst := &instance{
		H:           h,
		TimestepHrs: timestepHours,
		Timestamps:  timestamps,
		Demand:      demand,
	}

	toIndex := func(tau time.Time) int {
		return int(math.Floor(float64(tau.Sub(t0)) / float64(delta)))
	}

	for _, b := range batteries {
		s, e := toIndex(b.StartBy), toIndex(b.EndBy)
		if err := validateWindow(b.ID.String(), s, e, h); err != nil {
			return nil, err
		}
		if b.InitialKWh < 0 || b.InitialKWh > b.MaxKWh {
			return nil, &InvalidOrderError{OrderID: b.ID.String(), Reason: "initial_kwh must be within [0, max_kwh]"}
		}
		if b.Eta <= 0 || b.Eta > 1 {
			return nil, &InvalidOrderError{OrderID: b.ID.String(), Reason: "eta must be in (0, 1]"}
		}
		inst.Batteries = append(inst.Batteries, normalizedBattery{
			ID:         b.ID,
			StartIdx:   s,
			EndIdx:     e,
			MinKW:      b.MinKW,
			MaxKW:      b.MaxKW,
			MaxKWh:     b.MaxKWh,
			InitialKWh: b.InitialKWh,
			EndKWh:     b.EndKWh,
			Eta:        b.Eta,
		})
	}

	for _, s := range shapeables {
		si, ei := toIndex(s.StartBy), toIndex(s.EndBy)
		if err := validateWindow(s.ID.String(), si, ei, h); err != nil {
			return nil, err
		}
		inst.Shapeables = append(inst.Shapeables, normalizedShapeable{
			ID:       s.ID,
			StartIdx: si,
			EndIdx:   ei,
			MaxKW:    s.MaxKW,
			EndKWh:   s.EndKWh,
		})
	}

	for _, d := range deferrables {
		si, ei := toIndex(d.StartBy), toIndex(d.EndBy)
		if err := validateWindow(d.ID.String(), si, ei, h); err != nil {
			return nil, err
		}
		if len(d.ProfileKW) != d.Duration {
			return nil, &InvalidOrderError{
				OrderID: d.ID.String(),
				Reason:  fmt.Sprintf("profile_kw length %d does not match duration %d", len(d.ProfileKW), d.Duration),
			}
		}
		profile := make([]float64, len(d.ProfileKW))
		copy(profile, d.ProfileKW)
		inst.Deferrables = append(inst.Deferrables, normalizedDeferrable{
			ID:       d.ID,
			StartIdx: si,
			EndIdx:   ei,
			Duration: d.Duration,
			Profile:  profile,
		})
	}

	return inst, nil
}

func validateWindow(orderID string, startIdx, endIdx, h int) error {
	if startIdx > endIdx {
		return &InvalidOrderError{OrderID: orderID, Reason: fmt.Sprintf("startby resolves after endby (index %d > %d)", startIdx, endIdx)}
	}
	if startIdx < 0 || endIdx > h-1 {
		return &InvalidOrderError{OrderID: orderID, Reason: fmt.Sprintf("window [%d, %d] falls outside horizon [0, %d]", startIdx, endIdx, h-1)}
	}
	return nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// decodeProfileKW accepts either a JSON number array or a bracketed,
// comma-separated string (the legacy textual encoding carried over from
// the upstream order-submission API) and yields a float64 slice.
func decodeProfileKW(raw json.RawMessage) ([]float64, error) {
	var values []float64
	if err := json.Unmarshal(raw, &values); err == nil {
		return values, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, fmt.Errorf("profile_kw is neither a number array nor a string: %w", err)
	}

	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "[")
	text = strings.TrimSuffix(text, "]")
	if text == "" {
		return []float64{}, nil
	}

	parts := strings.Split(text, ",")
	values = make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("profile_kw entry %d (%q) is not a number: %w", i, p, err)
		}
		values[i] = v
	}
	return values, nil
}

// UnmarshalJSON implements custom decoding for DeferrableOrder so that
// profile_kw may arrive as either a native JSON array or the bracketed
// textual encoding produced by the upstream order-submission API.
func (d *DeferrableOrder) UnmarshalJSON(data []byte) error {
	type alias DeferrableOrder
	aux := &struct {
		ProfileKW json.RawMessage `json:"profile_kw"`
		*alias
	}{
		alias: (*alias)(d),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	profile, err := decodeProfileKW(aux.ProfileKW)
	if err != nil {
		return err
	}
	d.ProfileKW = profile
	return nil
}
