// Package timezone provides zone and reference-instant utilities for the
// resolver boundary.
package timezone

import (
	"fmt"
	"strings"
	"time"
)

const (
	// TimezoneUTC is the UTC timezone identifier.
	TimezoneUTC = "UTC"
	// TimezoneEuropeMadrid is the default zone of the resolver.
	TimezoneEuropeMadrid = "Europe/Madrid"
)

// LocationEuropeMadrid is the pre-loaded default location.
var LocationEuropeMadrid *time.Location

func init() {
	LocationEuropeMadrid = MustParseTimezone(TimezoneEuropeMadrid)
}

// ParseTimezone parses an IANA timezone identifier (e.g. "Europe/Madrid").
// An empty identifier returns fallback, or Europe/Madrid when fallback is nil.
func ParseTimezone(tz string, fallback *time.Location) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		if fallback == nil {
			return LocationEuropeMadrid, nil
		}
		return fallback, nil
	}
	if tz == TimezoneUTC {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// MustParseTimezone parses a timezone or panics if invalid.
func MustParseTimezone(tz string) *time.Location {
	loc, err := ParseTimezone(tz, nil)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsValidTimezone checks if a timezone identifier is valid. Empty is valid.
func IsValidTimezone(tz string) bool {
	_, err := ParseTimezone(tz, nil)
	return err == nil
}

// ParseReference parses an RFC3339 reference instant. The offset is mandatory:
// "Z" or "±hh:mm". Fractional seconds are accepted.
func ParseReference(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("reference is empty")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("reference %q is not RFC3339 with offset: %w", s, err)
	}
	return t, nil
}
