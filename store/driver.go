package store

import (
	"context"
	"database/sql"
)

// Driver is the interface a store database driver implements.
type Driver interface {
	GetDB() *sql.DB
	// Type names the migration directory of the driver.
	Type() string
	Close() error

	// Resolution model related methods.
	CreateResolution(ctx context.Context, create *Resolution) (*Resolution, error)
	ListResolutions(ctx context.Context, find *FindResolution) ([]*Resolution, error)
	DeleteResolutions(ctx context.Context, delete *DeleteResolution) (int64, error)
}
