// Package utils provides small time-handling helpers used by the CLI
// front end.
package utils //nolint:revive // utils is a common and acceptable package name

import "time"

// WireTimeLayout is the UTC wall-clock format written by FormatUTC and
// read by ParseUTC; the trailing Z is a literal, so no other offset fits
// it.
const WireTimeLayout = "2006-01-02T15:04:05Z"

// FormatUTC formats t in UTC using WireTimeLayout.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(WireTimeLayout)
}

// ParseUTC parses a wall-clock string produced by FormatUTC, returning the
// instant in UTC. Input carrying a numeric offset instead of the trailing
// Z is rejected.
func ParseUTC(s string) (time.Time, error) {
	t, err := time.Parse(WireTimeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
