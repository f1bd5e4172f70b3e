package store

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/screenplot/screenplot/internal/version"
)

// Migration flow:
// 1. If the database is uninitialized, apply LATEST.sql for the driver.
// 2. Record the schema version in system_setting.
//
// Migration files live in store/migration/{driver}/LATEST.sql. LATEST.sql
// holds the full schema for new installations; incremental migrations are
// added alongside it when the schema changes between releases.

//go:embed migration
var migrationFS embed.FS

const (
	// LatestSchemaFileName is the name of the latest schema file.
	LatestSchemaFileName = "LATEST.sql"

	schemaVersionSettingName = "schema_version"
)

// Migrate initializes the database schema when needed.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check database initialization")
	}
	if initialized {
		return nil
	}

	slog.Info("initializing database schema", "driver", s.profile.Driver)
	if err := s.applyLatestSchema(ctx); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	if err := s.setSchemaVersion(ctx, version.GetCurrentVersion(s.profile.Mode)); err != nil {
		return errors.Wrap(err, "failed to record schema version")
	}
	return nil
}

func (s *Store) applyLatestSchema(ctx context.Context) error {
	schemaPath := fmt.Sprintf("migration/%s/%s", s.profile.Driver, LatestSchemaFileName)
	buf, err := migrationFS.ReadFile(schemaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read schema file %q", schemaPath)
	}

	db := s.driver.GetDB()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrapf(err, "failed to execute schema %q", schemaPath)
	}
	return tx.Commit()
}

func (s *Store) setSchemaVersion(ctx context.Context, schemaVersion string) error {
	db := s.driver.GetDB()
	var stmt string
	if s.profile.Driver == "postgres" {
		stmt = "INSERT INTO system_setting (name, value) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value"
	} else {
		stmt = "INSERT INTO system_setting (name, value) VALUES (?, ?) ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value"
	}
	if _, err := db.ExecContext(ctx, stmt, schemaVersionSettingName, schemaVersion); err != nil {
		return errors.Wrap(err, "failed to upsert schema version")
	}
	return nil
}

// GetSchemaVersion returns the recorded schema version, or "" before the
// first migration.
func (s *Store) GetSchemaVersion(ctx context.Context) (string, error) {
	db := s.driver.GetDB()
	var stmt string
	if s.profile.Driver == "postgres" {
		stmt = "SELECT value FROM system_setting WHERE name = $1"
	} else {
		stmt = "SELECT value FROM system_setting WHERE name = ?"
	}
	var value string
	if err := db.QueryRowContext(ctx, stmt, schemaVersionSettingName).Scan(&value); err != nil {
		return "", nil
	}
	return value, nil
}
