package aitime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAssemble(t *testing.T) {
	ref := tuesdayRef(t)
	loc := ref.Location()

	tests := []struct {
		name    string
		outcome Outcome
		want    Result
	}{
		{
			name:    "spanish weekday",
			outcome: resolvedOutcome(Moment{Time: time.Date(2025, 11, 7, 19, 0, 0, 0, loc)}, LanguageSpanish),
			want:    Result{Date: "2025-11-07", Weekday: "viernes", Time: "19:00", ISO: "2025-11-07T19:00:00+01:00"},
		},
		{
			name:    "spanish saturday is weekend",
			outcome: resolvedOutcome(Moment{Time: time.Date(2025, 11, 8, 12, 0, 0, 0, loc)}, LanguageSpanish),
			want:    Result{Date: "2025-11-08", Weekday: "sábado", Time: "12:00", ISO: "2025-11-08T12:00:00+01:00", IsWeekend: true},
		},
		{
			name:    "catalan sunday is weekend",
			outcome: resolvedOutcome(Moment{Time: time.Date(2025, 11, 9, 12, 0, 0, 0, loc)}, LanguageCatalan),
			want:    Result{Date: "2025-11-09", Weekday: "diumenge", Time: "12:00", ISO: "2025-11-09T12:00:00+01:00", IsWeekend: true},
		},
		{
			name:    "past",
			outcome: resolvedOutcome(Moment{Time: time.Date(2025, 11, 3, 9, 0, 0, 0, loc)}, LanguageSpanish),
			want:    Result{Date: "2025-11-03", Weekday: "lunes", Time: "09:00", ISO: "2025-11-03T09:00:00+01:00", IsPast: true},
		},
		{
			name:    "summer offset",
			outcome: resolvedOutcome(Moment{Time: time.Date(2026, 7, 1, 9, 30, 0, 0, loc)}, LanguageCatalan),
			want:    Result{Date: "2026-07-01", Weekday: "dimecres", Time: "09:30", ISO: "2026-07-01T09:30:00+02:00"},
		},
		{
			name:    "utc keeps numeric offset",
			outcome: resolvedOutcome(Moment{Time: time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC)}, LanguageSpanish),
			want:    Result{Date: "2025-11-05", Weekday: "miércoles", Time: "10:00", ISO: "2025-11-05T10:00:00+00:00"},
		},
		{
			name:    "undefined",
			outcome: undefinedOutcome(LanguageSpanish),
			want:    Result{Date: SentinelValue, Weekday: SentinelValue, Time: SentinelValue, ISO: SentinelValue},
		},
		{
			name:    "unresolved",
			outcome: unresolvedOutcome(LanguageCatalan),
			want:    Result{Date: SentinelValue, Weekday: SentinelValue, Time: SentinelValue, ISO: SentinelValue},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assemble(tt.outcome, ref))
		})
	}
}

func TestIsWeekendName(t *testing.T) {
	assert.True(t, isWeekendName("Sábado", LanguageSpanish))
	assert.True(t, isWeekendName("sabado", LanguageSpanish))
	assert.True(t, isWeekendName("DOMINGO", LanguageSpanish))
	assert.False(t, isWeekendName("viernes", LanguageSpanish))
	assert.True(t, isWeekendName("dissabte", LanguageCatalan))
	assert.False(t, isWeekendName("divendres", LanguageCatalan))
}
