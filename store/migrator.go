package store

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Migration files live in migration/{driver}/NN__description.sql. NN is the
// zero-padded schema version; files are applied in lexical order and each
// applied version is recorded in migration_history.

//go:embed migration
var migrationFS embed.FS

const (
	// MigrateFileNameSplit separates the version from the description, as in "0001__create_table.sql".
	MigrateFileNameSplit = "__"

	migrationHistoryDDL = `CREATE TABLE IF NOT EXISTS migration_history (
  version INTEGER PRIMARY KEY,
  created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
)`
)

// validateMigrationFileName checks that filename is "NN__description.sql".
func validateMigrationFileName(filename string) error {
	if !strings.HasSuffix(filename, ".sql") {
		return errors.Errorf("migration file must end with .sql: %s", filename)
	}
	prefix, _, ok := strings.Cut(filename, MigrateFileNameSplit)
	if !ok {
		return errors.Errorf("migration filename must contain %q: %s", MigrateFileNameSplit, filename)
	}
	if _, err := strconv.Atoi(prefix); err != nil {
		return errors.Errorf("migration filename must start with a number: %s", filename)
	}
	return nil
}

func migrationVersion(filename string) int {
	prefix, _, _ := strings.Cut(filename, MigrateFileNameSplit)
	v, _ := strconv.Atoi(prefix)
	return v
}

// Migrate applies every migration newer than the recorded schema version.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.driver.GetDB()
	if _, err := db.ExecContext(ctx, migrationHistoryDDL); err != nil {
		return errors.Wrap(err, "failed to create migration history")
	}

	current, err := s.GetCurrentSchemaVersion(ctx)
	if err != nil {
		return err
	}

	files, err := s.migrationFiles()
	if err != nil {
		return err
	}
	for _, file := range files {
		version := migrationVersion(path.Base(file))
		if version <= current {
			continue
		}
		if err := s.applyMigration(ctx, db, file, version); err != nil {
			return errors.Wrapf(err, "failed to apply migration %s", file)
		}
		slog.Info("applied migration", slog.String("file", file), slog.Int("version", version))
	}
	return nil
}

// GetCurrentSchemaVersion returns the highest applied migration version, 0 when none.
func (s *Store) GetCurrentSchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	if err := s.driver.GetDB().QueryRowContext(ctx, "SELECT MAX(version) FROM migration_history").Scan(&version); err != nil {
		return 0, errors.Wrap(err, "failed to read schema version")
	}
	return int(version.Int64), nil
}

func (s *Store) migrationFiles() ([]string, error) {
	dir := path.Join("migration", s.driver.Type())
	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read migrations for %s", s.driver.Type())
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := validateMigrationFileName(entry.Name()); err != nil {
			return nil, err
		}
		files = append(files, path.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (s *Store) applyMigration(ctx context.Context, db *sql.DB, file string, version int) error {
	stmt, err := fs.ReadFile(migrationFS, file)
	if err != nil {
		return errors.Wrap(err, "failed to read migration file")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(stmt)); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO migration_history (version) VALUES (?)", version); err != nil {
		return errors.Wrap(err, "failed to record migration")
	}
	return tx.Commit()
}
