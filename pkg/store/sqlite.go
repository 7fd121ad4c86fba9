package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	getRecordStatement = `
	SELECT key, value, version, updated_at
	FROM kv_records
	WHERE key = ?
	`

	insertRecordStatement = `
	INSERT INTO kv_records (key, value, version)
	VALUES (?, ?, 1)
	ON CONFLICT(key) DO NOTHING
	`

	updateRecordStatement = `
	UPDATE kv_records
	SET value = ?, version = version + 1, updated_at = unixepoch()
	WHERE key = ? AND version = ?
	`

	deleteRecordStatement = `
	DELETE FROM kv_records
	WHERE key = ?
	`

	listKeysStatement = `
	SELECT key FROM kv_records ORDER BY key ASC
	`
)

type recordRow struct {
	Key       string  `db:"key"`
	Value     []byte  `db:"value"`
	Version   int64   `db:"version"`
	UpdatedAt float64 `db:"updated_at"`
}

// SQLiteKV keeps every key in one kv_records row. The schema is created by
// db.UpgradeDB.
type SQLiteKV struct {
	db *sqlx.DB
}

func NewSQLiteKV(db *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: sqlx.NewDb(db, "sqlite3")}
}

func (s *SQLiteKV) Get(ctx context.Context, key string) (Entry, error) {
	var row recordRow
	if err := s.db.GetContext(ctx, &row, getRecordStatement, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrKeyNotFound
		}
		return Entry{}, fmt.Errorf("failed to read key '%s': %w", key, err)
	}

	return Entry{
		Key:       row.Key,
		Value:     row.Value,
		Version:   row.Version,
		UpdatedAt: unixFloatToTime(row.UpdatedAt),
	}, nil
}

func (s *SQLiteKV) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if expectedVersion == 0 {
		res, err = s.db.ExecContext(ctx, insertRecordStatement, key, value)
	} else {
		res, err = s.db.ExecContext(ctx, updateRecordStatement, value, key, expectedVersion)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write key '%s': %w", key, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rowsAffected == 0 {
		return 0, ErrVersionConflict
	}
	return expectedVersion + 1, nil
}

func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteRecordStatement, key); err != nil {
		return fmt.Errorf("failed to delete key '%s': %w", key, err)
	}
	return nil
}

func (s *SQLiteKV) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.SelectContext(ctx, &keys, listKeysStatement); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

func unixFloatToTime(ts float64) time.Time {
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*1e9))
}
