package aitime

import (
	"regexp"
	"strconv"
	"time"
)

// Pre-compiled patterns, matched against the folded expression.
var (
	dayAfterTomorrowAtHourPattern = regexp.MustCompile(
		`\b(?:pasado\s+manana|dema\s+passat|passat\s+dema)\s+a\s+(?:las?|les?)\s+(\d{1,2})\b`)
	dayAfterTomorrowPattern = regexp.MustCompile(
		`\b(?:pasado\s+manana|dema\s+passat|passat\s+dema)\b`)
	weekdayOfNextWeekPattern = regexp.MustCompile(`\b(` + weekdayAlternation + `)\s+de\s+la\s+(?:` +
		`semana\s+(?:que\s+viene|proxima|siguiente)|proxima\s+semana|siguiente\s+semana|` +
		`setmana\s+(?:que\s+ve|vinent|propera)|propera\s+setmana)\b`)
	weekdayComingPattern = regexp.MustCompile(`\b(` + weekdayAlternation + `)\s+(?:que\s+(?:viene|ve)|vinent)\b`)
)

// patternRule is one entry of the preprocessor strategy table.
// match returns the submatches when the rule applies, nil otherwise.
type patternRule struct {
	name    string
	match   func(folded string) []string
	resolve func(m []string, ref time.Time, policy Policy) time.Time
}

// patternRules is evaluated top to bottom; the first match wins.
// "weekday of next week" must precede "weekday coming" because both accept
// "<weekday> ... que viene".
var patternRules = []patternRule{
	{
		name: "day_after_tomorrow_at_hour",
		match: func(folded string) []string {
			m := dayAfterTomorrowAtHourPattern.FindStringSubmatch(folded)
			if m == nil {
				return nil
			}
			// An impossible hour leaves the text to the bare rule.
			if hour, err := strconv.Atoi(m[1]); err != nil || hour > 23 {
				return nil
			}
			return m
		},
		resolve: func(m []string, ref time.Time, _ Policy) time.Time {
			hour, _ := strconv.Atoi(m[1])
			return atHour(addDays(ref, 2), hour, 0)
		},
	},
	{
		name:  "day_after_tomorrow",
		match: dayAfterTomorrowPattern.FindStringSubmatch,
		resolve: func(_ []string, ref time.Time, _ Policy) time.Time {
			return addDays(ref, 2)
		},
	},
	{
		name:  "weekday_of_next_week",
		match: weekdayOfNextWeekPattern.FindStringSubmatch,
		resolve: func(m []string, ref time.Time, policy Policy) time.Time {
			isoWeekday := mondayOffset(ref.Weekday()) + 1
			toMonday := (8 - isoWeekday) % 7
			if toMonday == 0 {
				toMonday = 7
			}
			return atHour(addDays(ref, toMonday+weekdayIndex[m[1]]), policy.DefaultHour, 0)
		},
	},
	{
		name:  "weekday_coming",
		match: weekdayComingPattern.FindStringSubmatch,
		resolve: func(m []string, ref time.Time, policy Policy) time.Time {
			current := mondayOffset(ref.Weekday())
			diff := ((weekdayIndex[m[1]]-current)%7 + 7) % 7
			if diff == 0 {
				diff = 7
			}
			if policy.WeekendSkip && ref.Weekday() == time.Friday {
				if landing := addDays(ref, diff).Weekday(); landing == time.Saturday || landing == time.Sunday {
					diff = 3
				}
			}
			return atHour(addDays(ref, diff), policy.DefaultHour, 0)
		},
	},
}

// Preprocess applies the pattern rules to the expression.
// ok is false when no rule matched and the pipeline must continue.
func Preprocess(expression string, ref time.Time, policy Policy) (t time.Time, rule string, ok bool) {
	folded := fold(expression)
	for _, r := range patternRules {
		if m := r.match(folded); m != nil {
			return r.resolve(m, ref, policy), r.name, true
		}
	}
	return time.Time{}, "", false
}
