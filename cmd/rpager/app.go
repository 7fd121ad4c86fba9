package main

import (
	"context"
	"database/sql"

	"github.com/unowned-ai/rpager/pkg/appstate"
	pkgdb "github.com/unowned-ai/rpager/pkg/db"
	"github.com/unowned-ai/rpager/pkg/gate"
	"github.com/unowned-ai/rpager/pkg/logging"
	"github.com/unowned-ai/rpager/pkg/store"
	"github.com/unowned-ai/rpager/pkg/study"
	"github.com/unowned-ai/rpager/pkg/utils"
)

var logger logging.Logger = logging.Nop()

// app is everything a command needs, opened over one database connection.
type app struct {
	dbPath string
	conn   *sql.DB
	kv     store.KV
	store  *study.Store
	state  *appstate.Manager
	gate   *gate.Gate
}

// openApp resolves the database path, brings the schema up to date and
// wires the study store, app state and passcode gate over it.
func openApp(ctx context.Context) (*app, error) {
	dbPath, err := utils.ResolveAndEnsureDBPath(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	conn, err := pkgdb.OpenDBConnection(dbPath, cfg.WAL, cfg.Sync)
	if err != nil {
		return nil, err
	}
	if err := pkgdb.UpgradeDB(ctx, conn, dbPath, pkgdb.TargetSchemaVersion, logger); err != nil {
		conn.Close()
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		conn.Close()
		return nil, err
	}

	kv := store.NewSQLiteKV(conn)
	st, err := study.Open(ctx, kv, logger, study.Options{
		Location: loc,
		Birthday: cfg.BirthdayValue(),
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	state := appstate.NewManager(kv, logger)
	if _, err := state.Load(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return &app{
		dbPath: dbPath,
		conn:   conn,
		kv:     kv,
		store:  st,
		state:  state,
		gate:   gate.New(kv, logger),
	}, nil
}

func (a *app) Close() error {
	return pkgdb.CheckpointAndClose(context.Background(), a.conn, logger)
}
