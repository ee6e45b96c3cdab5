package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/fechador/store"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

type DB struct {
	db  *sql.DB
	dsn string
}

// NewDB opens the SQLite database at dsn, a file path or MemoryDSN.
func NewDB(dsn string) (store.Driver, error) {
	if dsn == "" {
		return nil, errors.New("dsn required")
	}

	sqliteDB, err := sql.Open("sqlite", dsnWithPragmas(dsn))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", dsn)
	}
	// An in-memory database lives as long as its connection; keep exactly one.
	if isMemory(dsn) {
		sqliteDB.SetMaxOpenConns(1)
		sqliteDB.SetConnMaxLifetime(0)
	}
	if err := sqliteDB.PingContext(context.Background()); err != nil {
		sqliteDB.Close()
		return nil, errors.Wrap(err, "failed to ping db")
	}

	return &DB{db: sqliteDB, dsn: dsn}, nil
}

func isMemory(dsn string) bool {
	return dsn == MemoryDSN || strings.Contains(dsn, "mode=memory")
}

// dsnWithPragmas enables WAL and a busy timeout on file databases.
func dsnWithPragmas(dsn string) string {
	if isMemory(dsn) {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (*DB) Type() string {
	return "sqlite"
}

func (d *DB) Close() error {
	return d.db.Close()
}
