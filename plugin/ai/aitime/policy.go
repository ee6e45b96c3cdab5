package aitime

import (
	"fmt"
	"time"
)

// Policy holds the business rules applied to parsed candidates.
// It is shared read-only across requests.
type Policy struct {
	// WeekendSkip moves a Friday "next Saturday/Sunday" to the following Monday.
	WeekendSkip bool
	// DefaultHour is assigned when the expression carries no time token.
	DefaultHour int

	// MorningWindow pushes 10:00-14:00 results to DefaultHour on every weekday
	// except MorningWindowWeekday.
	MorningWindow        bool
	MorningWindowWeekday time.Weekday

	// AmbiguousHourPMThreshold is the highest bare "a las H" hour promoted to PM.
	AmbiguousHourPMThreshold int

	CorrectPastWeekdays  bool
	AssignDefaultHour    bool
	PromoteAmbiguousHour bool
}

// DefaultPolicy returns the production policy.
func DefaultPolicy() Policy {
	return Policy{
		WeekendSkip:              true,
		DefaultHour:              12,
		MorningWindow:            false,
		MorningWindowWeekday:     time.Friday,
		AmbiguousHourPMThreshold: 7,
		CorrectPastWeekdays:      true,
		AssignDefaultHour:        true,
		PromoteAmbiguousHour:     true,
	}
}

// Validate checks hour ranges.
func (p Policy) Validate() error {
	if p.DefaultHour < 0 || p.DefaultHour > 23 {
		return fmt.Errorf("default hour out of range: %d", p.DefaultHour)
	}
	if p.AmbiguousHourPMThreshold < 0 || p.AmbiguousHourPMThreshold > 11 {
		return fmt.Errorf("ambiguous hour threshold out of range: %d", p.AmbiguousHourPMThreshold)
	}
	return nil
}

// atHour returns t's calendar day at hour:minute:00.000 in t's location.
func atHour(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

// addDays shifts t by n calendar days, keeping the wall-clock time.
func addDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
