package store

import (
	"context"
)

// Store provides database access to the resolution journal.
type Store struct {
	driver Driver
}

// New creates a new instance of Store.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) CreateResolution(ctx context.Context, create *Resolution) (*Resolution, error) {
	return s.driver.CreateResolution(ctx, create)
}

func (s *Store) ListResolutions(ctx context.Context, find *FindResolution) ([]*Resolution, error) {
	return s.driver.ListResolutions(ctx, find)
}

func (s *Store) DeleteResolutions(ctx context.Context, delete *DeleteResolution) (int64, error) {
	return s.driver.DeleteResolutions(ctx, delete)
}
