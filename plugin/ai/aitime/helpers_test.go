package aitime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const isoMinute = "2006-01-02 15:04"

func madrid(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	return loc
}

// tuesdayRef is 2025-11-04T09:00:00+01:00.
func tuesdayRef(t *testing.T) time.Time {
	return time.Date(2025, 11, 4, 9, 0, 0, 0, madrid(t))
}

// fridayRef is 2025-11-07T10:00:00+01:00.
func fridayRef(t *testing.T) time.Time {
	return time.Date(2025, 11, 7, 10, 0, 0, 0, madrid(t))
}
