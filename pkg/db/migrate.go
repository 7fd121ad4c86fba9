package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/unowned-ai/rpager/pkg/logging"
)

const (
	// TargetSchemaVersion is the highest schema version this build supports for the studystore component.
	TargetSchemaVersion int64 = 1
	// StudyStoreComponent is the name for the main study data component.
	StudyStoreComponent = "studystore"
)

// GetComponentSchemaVersion retrieves the schema version for a given component.
// Returns 0 if the component is not found or the versions table doesn't exist yet.
func GetComponentSchemaVersion(ctx context.Context, db *sql.DB, componentName string) (int64, error) {
	row := db.QueryRowContext(ctx, `SELECT version FROM rpager_versions WHERE component = ?;`, componentName)

	var version int64
	err := row.Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), "rpager_versions") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates all studystore tables and records schemaVersionToSet
// for the component.
func InitializeSchema(ctx context.Context, db *sql.DB, schemaVersionToSet int64) error {
	if _, err := db.ExecContext(ctx, SchemaV1); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	insertVersionSQL := `
INSERT INTO rpager_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	if _, err := db.ExecContext(ctx, insertVersionSQL, StudyStoreComponent, schemaVersionToSet); err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", StudyStoreComponent, schemaVersionToSet, err)
	}
	return nil
}

// UpgradeDB brings the studystore component of db to appTargetSchemaVersion.
// dbIdentifierForLog only labels log lines and errors.
func UpgradeDB(ctx context.Context, db *sql.DB, dbIdentifierForLog string, appTargetSchemaVersion int64, log logging.Logger) error {
	currentDBVersion, err := GetComponentSchemaVersion(ctx, db, StudyStoreComponent)
	if err != nil {
		return err
	}
	log = log.With("component", StudyStoreComponent, "db", dbIdentifierForLog)

	switch {
	case currentDBVersion == 0:
		log.Info(ctx, "initializing schema", "target_version", appTargetSchemaVersion)
		if err := InitializeSchema(ctx, db, appTargetSchemaVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", StudyStoreComponent, dbIdentifierForLog, err)
		}
		return nil
	case currentDBVersion == appTargetSchemaVersion:
		log.Debug(ctx, "schema up to date", "version", currentDBVersion)
		return nil
	case currentDBVersion < appTargetSchemaVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", StudyStoreComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", StudyStoreComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	}
}

// CheckpointAndClose flushes the WAL back into the main file before closing.
func CheckpointAndClose(ctx context.Context, db *sql.DB, log logging.Logger) error {
	if db == nil {
		return nil
	}
	// TRUNCATE waits for readers and writes the WAL back to the main DB.
	if _, err := db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		log.Warn(ctx, "WAL checkpoint failed during close", "error", err)
	}
	return db.Close()
}
