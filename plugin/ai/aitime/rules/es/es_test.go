package es_test

import (
	"testing"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/fechador/plugin/ai/aitime/rules/es"
)

func newParser() *when.Parser {
	w := when.New(&rules.Options{Distance: 20, MatchByOrder: true})
	w.Add(es.All...)
	return w
}

func TestRules(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	// Tuesday
	ref := time.Date(2025, 11, 4, 9, 0, 0, 0, loc)
	w := newParser()

	tests := []struct {
		input string
		want  string
	}{
		{"hoy", "2025-11-04 09:00"},
		{"manana", "2025-11-05 09:00"},
		{"pasado manana", "2025-11-06 09:00"},
		{"ayer", "2025-11-03 09:00"},
		{"anteayer", "2025-11-02 09:00"},
		{"el viernes", "2025-11-07 00:00"},
		{"el lunes", "2025-11-03 00:00"},
		{"el proximo lunes", "2025-11-10 00:00"},
		{"el viernes a las 7", "2025-11-07 07:00"},
		{"manana a las 10:30", "2025-11-05 10:30"},
		{"manana a las 7 de la manana", "2025-11-05 07:00"},
		{"a las 5 de la tarde", "2025-11-04 17:00"},
		{"a las 9 de la noche", "2025-11-04 21:00"},
		{"a la una y media", "2025-11-04 01:30"},
		{"a las 8 menos cuarto", "2025-11-04 07:45"},
		{"a las 6 y cuarto pm", "2025-11-04 18:15"},
		{"el jueves 19:30", "2025-11-06 19:30"},
		{"15 de noviembre", "2025-11-15 00:00"},
		{"el 2 de enero de 2026", "2026-01-02 00:00"},
		{"en 3 dias", "2025-11-07 09:00"},
		{"dentro de dos semanas", "2025-11-18 09:00"},
		{"en un par de dias", "2025-11-06 09:00"},
		{"en 2 horas", "2025-11-04 11:00"},
		{"dentro de 45 minutos", "2025-11-04 09:45"},
		{"la semana que viene", "2025-11-11 09:00"},
		{"el mes que viene", "2025-12-04 09:00"},
		{"manana al mediodia", "2025-11-05 12:00"},
		{"el viernes por la tarde", "2025-11-07 17:00"},
		{"el viernes por la tarde a las 6", "2025-11-07 06:00"},
		{"este fin de semana", "2025-11-08 00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res, err := w.Parse(tt.input, ref)
			require.NoError(t, err)
			require.NotNil(t, res, "no rule matched %q", tt.input)
			assert.Equal(t, tt.want, res.Time.In(loc).Format("2006-01-02 15:04"))
		})
	}
}

func TestRules_NoMatch(t *testing.T) {
	ref := time.Date(2025, 11, 4, 9, 0, 0, 0, time.UTC)
	w := newParser()

	for _, input := range []string{
		"hola",
		"31 de febrero",
		"de la manana",
		"la reunion de equipo",
	} {
		t.Run(input, func(t *testing.T) {
			res, err := w.Parse(input, ref)
			require.NoError(t, err)
			assert.Nil(t, res)
		})
	}
}

func TestRules_DSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	// Saturday before the October 2025 change to CET.
	ref := time.Date(2025, 10, 25, 9, 0, 0, 0, loc)

	res, err := newParser().Parse("manana", ref)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "2025-10-26 09:00", res.Time.In(loc).Format("2006-01-02 15:04"))
}
