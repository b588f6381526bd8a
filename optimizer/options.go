package optimizer

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Options carries the per-invocation parameters of one solve: the
// timestep width, which solver to drive, its time limit, and whether to
// forward the solver's own diagnostic output.
type Options struct {
	TimestepHours float64       `json:"timestep_hours"` // Δ, hours per horizon slot
	Solver        string        `json:"solver"`         // "glpk", "gurobi", or "cbc"
	TimeLimit     time.Duration `json:"timelimit"`      // wall-clock budget given to the solver
	Verbose       bool          `json:"verbose"`        // forward the solver's own tee output
	SolverPath    string        `json:"solver_path"`    // overrides binary discovery when non-empty

	// Logger receives exactly one line at solve completion and one line
	// per failure path. A nil Logger falls back to log.Default(),
	// matching scheduler.NewMinerScheduler's convention. Never
	// serialized; options loaded from JSON have a nil Logger.
	Logger *log.Logger `json:"-"`
}

// DefaultOptions returns the options used when a caller supplies none:
// hourly timesteps, GLPK (the only solver that ships as an open-source
// binary on every platform), and a five-minute time limit, matching the
// original implementation's default.
func DefaultOptions() Options {
	return Options{
		TimestepHours: 1.0,
		Solver:        "glpk",
		TimeLimit:     5 * time.Minute,
		Verbose:       false,
		SolverPath:    "",
	}
}

// Validate checks that the options are usable before a solve is attempted.
func (o Options) Validate() error {
	if o.TimestepHours <= 0 {
		return fmt.Errorf("timestep_hours must be greater than 0, got: %f", o.TimestepHours)
	}

	switch o.Solver {
	case "glpk", "gurobi", "cbc":
	default:
		return fmt.Errorf("invalid solver: %s, must be one of: glpk, gurobi, cbc", o.Solver)
	}

	if o.TimeLimit <= 0 {
		return fmt.Errorf("timelimit must be greater than 0, got: %s", o.TimeLimit)
	}

	return nil
}

// LoadOptions loads options from a JSON file, defaulting unset fields.
func LoadOptions(filename string) (Options, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Options{}, fmt.Errorf("failed to open options file: %w", err)
	}
	defer file.Close()

	return LoadOptionsFromReader(file)
}

// LoadOptionsFromReader loads options from an io.Reader, defaulting unset
// fields.
func LoadOptionsFromReader(reader io.Reader) (Options, error) {
	opts := DefaultOptions()

	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&opts); err != nil {
		return Options{}, fmt.Errorf("failed to decode options JSON: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("invalid options: %w", err)
	}

	return opts, nil
}

// Save writes the options to a JSON file.
func (o Options) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create options file: %w", err)
	}
	defer file.Close()

	return o.SaveToWriter(file)
}

// SaveToWriter writes the options to an io.Writer.
func (o Options) SaveToWriter(writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(o); err != nil {
		return fmt.Errorf("failed to encode options JSON: %w", err)
	}

	return nil
}

// MarshalJSON implements custom JSON marshaling so TimeLimit round-trips
// as a duration string ("5m0s") rather than a raw nanosecond count.
func (o Options) MarshalJSON() ([]byte, error) {
	type Alias Options
	return json.Marshal(&struct {
		Alias
		TimeLimit string `json:"timelimit"`
	}{
		Alias:     (Alias)(o),
		TimeLimit: o.TimeLimit.String(),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling to accept TimeLimit as
// a duration string.
func (o *Options) UnmarshalJSON(data []byte) error {
	type Alias Options
	aux := &struct {
		*Alias
		TimeLimit string `json:"timelimit"`
	}{
		Alias: (*Alias)(o),
	}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if aux.TimeLimit != "" {
		d, err := time.ParseDuration(aux.TimeLimit)
		if err != nil {
			return fmt.Errorf("invalid timelimit: %w", err)
		}
		o.TimeLimit = d
	}

	return nil
}

// String returns a JSON representation of the options.
func (o Options) String() string {
	data, _ := json.MarshalIndent(o, "", "  ")
	return string(data)
}
