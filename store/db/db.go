package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/fechador/internal/profile"
	"github.com/hrygo/fechador/store"
	"github.com/hrygo/fechador/store/db/sqlite"
)

// NewDBDriver creates the journal driver for the profile's DSN.
// Only SQLite is supported; the journal is a local audit trail.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	if profile.JournalDSN == "" {
		return nil, errors.New("journal dsn is not configured")
	}
	driver, err := sqlite.NewDB(profile.JournalDSN)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
