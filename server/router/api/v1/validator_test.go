package v1

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidator_Messages(t *testing.T) {
	var rv *RequestValidator
	require.NotPanics(t, func() { rv = NewRequestValidator() })

	tests := []struct {
		name string
		req  ResolveRequest
		want string
	}{
		{
			name: "reference offset",
			req:  ResolveRequest{Reference: "2025-11-04T09:00:00", Expression: "mañana"},
			want: "referencia debe ser una fecha ISO 8601 con desfase horario",
		},
		{
			name: "blank expression",
			req:  ResolveRequest{Reference: tuesdayRef, Expression: "  "},
			want: "expresion_usuario no puede estar vacío",
		},
		{
			name: "zone",
			req:  ResolveRequest{Reference: tuesdayRef, Expression: "mañana", Zone: "Mars/Olympus"},
			want: "zona_horaria debe ser una zona horaria IANA válida",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rv.Validate(&tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.want, rv.Message(err))
		})
	}

	assert.NoError(t, rv.Validate(&ResolveRequest{Reference: tuesdayRef, Expression: "mañana", Zone: "Europe/Madrid"}))
}

func TestMustRegister(t *testing.T) {
	assert.NotPanics(t, func() { mustRegister("ok", nil) })
	assert.PanicsWithValue(t, "validator: register iana_zone: duplicate", func() {
		mustRegister("iana_zone", errors.New("duplicate"))
	})
}
