package value

import (
	"fmt"
	"regexp"
	"strconv"
)

// isoDuration holds the decomposed components of an ISO-8601 duration
// literal such as "P3Y6M4DT12H30M5S". No ISO-8601 duration parsing library
// (e.g. rickb777/period, sosodev/duration) appeared in any retrieved example
// repo's go.mod, so this is a small hand-written parser — see DESIGN.md.
type isoDuration struct {
	Years, Months, Days     float64
	Hours, Minutes, Seconds float64
}

var durationPattern = regexp.MustCompile(
	`^P(?:(\d+(?:\.\d+)?)Y)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)D)?` +
		`(?:T(?:(\d+(?:\.\d+)?)H)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)S)?)?$`,
)

// parseISODuration parses an ISO-8601 duration lexical form into its
// component fields. An all-empty match (just "P" or "PT") is rejected, as is
// any string that doesn't start with "P".
func parseISODuration(lexical string) (isoDuration, error) {
	m := durationPattern.FindStringSubmatch(lexical)
	if m == nil {
		return isoDuration{}, fmt.Errorf("invalid ISO-8601 duration literal: %q", lexical)
	}
	var d isoDuration
	fields := []*float64{&d.Years, &d.Months, &d.Days, &d.Hours, &d.Minutes, &d.Seconds}
	any := false
	for i, raw := range m[1:] {
		if raw == "" {
			continue
		}
		any = true
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return isoDuration{}, fmt.Errorf("invalid ISO-8601 duration literal: %q", lexical)
		}
		*fields[i] = f
	}
	if !any {
		return isoDuration{}, fmt.Errorf("invalid ISO-8601 duration literal: %q", lexical)
	}
	return d, nil
}

// TotalSeconds converts the (non years/months) portion of the duration to a
// total-seconds figure for chronological comparison (spec.md §4.4).
func (d isoDuration) TotalSeconds() float64 {
	return d.Days*86400 + d.Hours*3600 + d.Minutes*60 + d.Seconds
}

// HasCalendarComponent reports whether the duration carries a nonzero years
// or months component, which cannot be compared exactly without a reference
// date (spec.md §4.4: "if either operand contains nonzero years or months,
// raise an error").
func (d isoDuration) HasCalendarComponent() bool {
	return d.Years != 0 || d.Months != 0
}
