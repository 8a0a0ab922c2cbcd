package models

import "fmt"

// FrequencyKind enumerates the supported recurrence units.
type FrequencyKind string

const (
	FreqSeconds FrequencyKind = "seconds"
	FreqMinutes FrequencyKind = "minutes"
	FreqHours   FrequencyKind = "hours"
	FreqDaily   FrequencyKind = "daily"
	FreqWeekly  FrequencyKind = "weekly"
	FreqMonthly FrequencyKind = "monthly"
)

// Frequency describes how often a strategy executes.
// Count is only meaningful for the seconds/minutes/hours kinds.
type Frequency struct {
	Kind  FrequencyKind `json:"kind"`
	Count int64         `json:"count,omitempty"`
}

func Seconds(n int64) Frequency { return Frequency{Kind: FreqSeconds, Count: n} }
func Minutes(n int64) Frequency { return Frequency{Kind: FreqMinutes, Count: n} }
func Hours(n int64) Frequency   { return Frequency{Kind: FreqHours, Count: n} }
func Daily() Frequency          { return Frequency{Kind: FreqDaily} }
func Weekly() Frequency         { return Frequency{Kind: FreqWeekly} }
func Monthly() Frequency        { return Frequency{Kind: FreqMonthly} }

// IntervalSeconds converts the frequency into its recurrence interval.
func (f Frequency) IntervalSeconds() (int64, error) {
	switch f.Kind {
	case FreqSeconds:
		return f.Count, nil
	case FreqMinutes:
		return 60 * f.Count, nil
	case FreqHours:
		return 3600 * f.Count, nil
	case FreqDaily:
		return 86400, nil
	case FreqWeekly:
		return 604800, nil
	case FreqMonthly:
		return 2592000, nil
	}
	return 0, fmt.Errorf("unknown frequency kind %q", f.Kind)
}
