package aitime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCorrector(t *testing.T) {
	ref := tuesdayRef(t)
	loc := ref.Location()
	at := func(day, hour, minute int) time.Time {
		return time.Date(2025, 11, day, hour, minute, 0, 0, loc)
	}

	morning := DefaultPolicy()
	morning.MorningWindow = true

	tests := []struct {
		name           string
		policy         Policy
		expression     string
		candidate      time.Time
		want           time.Time
		wantProvenance Provenance
		wantRules      []Correction
	}{
		{
			name:           "past weekday moves forward and gets default hour",
			policy:         DefaultPolicy(),
			expression:     "el lunes",
			candidate:      at(3, 0, 0),
			want:           at(10, 12, 0),
			wantProvenance: ProvenanceCorrected,
			wantRules:      []Correction{CorrectionPastWeekday, CorrectionDefaultHour},
		},
		{
			name:           "same weekday earlier today moves a week",
			policy:         DefaultPolicy(),
			expression:     "el martes a las 8",
			candidate:      at(4, 8, 0),
			want:           at(11, 8, 0),
			wantProvenance: ProvenanceCorrected,
			wantRules:      []Correction{CorrectionPastWeekday},
		},
		{
			name:           "bare ambiguous hour becomes afternoon",
			policy:         DefaultPolicy(),
			expression:     "el viernes a las 7",
			candidate:      at(7, 7, 0),
			want:           at(7, 19, 0),
			wantProvenance: ProvenanceCorrected,
			wantRules:      []Correction{CorrectionAmbiguousHour},
		},
		{
			name:           "number word hour",
			policy:         DefaultPolicy(),
			expression:     "mañana a la una y media",
			candidate:      at(5, 1, 30),
			want:           at(5, 13, 30),
			wantProvenance: ProvenanceCorrected,
			wantRules:      []Correction{CorrectionAmbiguousHour},
		},
		{
			name:           "morning qualifier keeps hour",
			policy:         DefaultPolicy(),
			expression:     "el viernes a las 7 de la mañana",
			candidate:      at(7, 7, 0),
			want:           at(7, 7, 0),
			wantProvenance: ProvenanceParser,
		},
		{
			name:           "hour above threshold untouched",
			policy:         DefaultPolicy(),
			expression:     "el viernes a las 8",
			candidate:      at(7, 8, 0),
			want:           at(7, 8, 0),
			wantProvenance: ProvenanceParser,
		},
		{
			name:           "explicit midnight keeps 00:00",
			policy:         DefaultPolicy(),
			expression:     "mañana a medianoche",
			candidate:      at(5, 0, 0),
			want:           at(5, 0, 0),
			wantProvenance: ProvenanceParser,
		},
		{
			name:           "day count phrase is not a weekday reference",
			policy:         DefaultPolicy(),
			expression:     "el lunes dentro de 2 dias",
			candidate:      at(3, 0, 0),
			want:           at(3, 12, 0),
			wantProvenance: ProvenanceCorrected,
			wantRules:      []Correction{CorrectionDefaultHour},
		},
		{
			name:           "morning window pushes other weekdays",
			policy:         morning,
			expression:     "el jueves a las 11",
			candidate:      at(6, 11, 0),
			want:           at(6, 12, 0),
			wantProvenance: ProvenanceCorrected,
			wantRules:      []Correction{CorrectionMorningWindow},
		},
		{
			name:           "morning window spares configured weekday",
			policy:         morning,
			expression:     "el viernes a las 11",
			candidate:      at(7, 11, 0),
			want:           at(7, 11, 0),
			wantProvenance: ProvenanceParser,
		},
		{
			name:           "all toggles off",
			policy:         Policy{DefaultHour: 12, AmbiguousHourPMThreshold: 7},
			expression:     "el lunes a las 7",
			candidate:      at(3, 7, 0),
			want:           at(3, 7, 0),
			wantProvenance: ProvenanceParser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCorrector(tt.policy)
			got, rules := c.correct(tt.candidate, ref, tt.expression)
			assert.True(t, tt.want.Equal(got.Time), "got %s want %s", got.Time.Format(isoMinute), tt.want.Format(isoMinute))
			assert.Equal(t, tt.wantProvenance, got.Provenance)
			assert.Equal(t, tt.wantRules, rules)

			assert.Equal(t, got, c.Correct(tt.candidate, ref, tt.expression))
		})
	}
}

// A weekday without an article is still a weekday reference and never lands in the past.
func TestCorrector_BareWeekday(t *testing.T) {
	loc := madrid(t)
	saturday := time.Date(2025, 11, 8, 10, 0, 0, 0, loc)
	c := NewCorrector(DefaultPolicy())

	got, rules := c.correct(time.Date(2025, 11, 3, 0, 0, 0, 0, loc), saturday, "lunes")
	assert.Equal(t, time.Date(2025, 11, 10, 12, 0, 0, 0, loc), got.Time)
	assert.Equal(t, []Correction{CorrectionPastWeekday, CorrectionDefaultHour}, rules)
	assert.False(t, got.Time.Before(saturday))
}
