package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/unowned-ai/rpager/pkg/logging"
)

// checkTableExists is a test helper to verify if a table exists in the database.
func checkTableExists(t *testing.T, db *sql.DB, tableName string) {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?;", tableName).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			t.Errorf("Table '%s' does not exist, but it should.", tableName)
			return
		}
		t.Fatalf("Error checking if table '%s' exists: %v", tableName, err)
	}
}

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDBConnection(":memory:", false, "NORMAL")
	if err != nil {
		t.Fatalf("OpenDBConnection failed for in-memory DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenDBConnection_InvalidSyncPragma(t *testing.T) {
	_, err := OpenDBConnection(":memory:", false, "SOMETIMES")
	if err == nil {
		t.Fatal("expected an error for an invalid sync pragma")
	}
	if !strings.Contains(err.Error(), "invalid sync pragma value") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpgradeDB_NewDatabase(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)

	if err := UpgradeDB(ctx, db, ":memory:", TargetSchemaVersion, logging.Nop()); err != nil {
		t.Fatalf("UpgradeDB failed on a new in-memory database: %v", err)
	}

	for _, tableName := range []string{"rpager_versions", "kv_records"} {
		checkTableExists(t, db, tableName)
	}

	version, err := GetComponentSchemaVersion(ctx, db, StudyStoreComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed after UpgradeDB: %v", err)
	}
	if version != TargetSchemaVersion {
		t.Errorf("Expected component '%s' to be at version %d, but got %d", StudyStoreComponent, TargetSchemaVersion, version)
	}
}

func TestUpgradeDB_AlreadyUpToDate(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)

	if err := InitializeSchema(ctx, db, TargetSchemaVersion); err != nil {
		t.Fatalf("InitializeSchema failed: %v", err)
	}
	if err := UpgradeDB(ctx, db, ":memory:", TargetSchemaVersion, logging.Nop()); err != nil {
		t.Fatalf("UpgradeDB failed on an up-to-date database: %v", err)
	}

	version, err := GetComponentSchemaVersion(ctx, db, StudyStoreComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed: %v", err)
	}
	if version != TargetSchemaVersion {
		t.Errorf("Expected version %d, got %d", TargetSchemaVersion, version)
	}
}

func TestUpgradeDB_VersionMismatch(t *testing.T) {
	tests := []struct {
		name      string
		dbVersion int64
		appTarget int64
		wantInErr string
	}{
		{"older database", 1, 2, "which is older than application's target schema version 2"},
		{"newer database", 2, 1, "which is newer than application's target schema version 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db := openMemoryDB(t)

			if err := InitializeSchema(ctx, db, tt.dbVersion); err != nil {
				t.Fatalf("InitializeSchema to version %d failed: %v", tt.dbVersion, err)
			}

			err := UpgradeDB(ctx, db, ":memory:", tt.appTarget, logging.Nop())
			if err == nil {
				t.Fatalf("UpgradeDB should have failed")
			}
			wantPrefix := fmt.Sprintf("component %s in database ':memory:' has schema version %d", StudyStoreComponent, tt.dbVersion)
			if !strings.Contains(err.Error(), wantPrefix) || !strings.Contains(err.Error(), tt.wantInErr) {
				t.Errorf("UpgradeDB error message mismatch: %v", err)
			}

			current, getErr := GetComponentSchemaVersion(ctx, db, StudyStoreComponent)
			if getErr != nil {
				t.Fatalf("GetComponentSchemaVersion failed: %v", getErr)
			}
			if current != tt.dbVersion {
				t.Errorf("Database schema version changed from %d to %d after a failed upgrade", tt.dbVersion, current)
			}
		})
	}
}

func TestGetComponentSchemaVersion_NoTable(t *testing.T) {
	db := openMemoryDB(t)

	version, err := GetComponentSchemaVersion(context.Background(), db, StudyStoreComponent)
	if err != nil {
		t.Fatalf("expected no error before the schema exists, got %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}
}
