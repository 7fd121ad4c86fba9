package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared with the CLI.
const (
	FlagDB       = "db"
	FlagWAL      = "wal"
	FlagSync     = "sync"
	FlagConfig   = "config"
	FlagLogLevel = "log-level"
)

// RegisterFlags adds the persistent flags to fs with defaults from c.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagDB, c.DBPath, "Path to the SQLite database file (default: platform data dir)")
	fs.Bool(FlagWAL, c.WAL, "Enable SQLite WAL mode")
	fs.String(FlagSync, c.Sync, "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")
	fs.String(FlagConfig, "", "Path to a JSON config file")
	fs.String(FlagLogLevel, c.LogLevel, "Log level (debug, info, warn, error)")
}

// ApplyFlags overlays c with the flags that were set explicitly.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	if fs.Changed(FlagDB) {
		v, err := fs.GetString(FlagDB)
		if err != nil {
			return err
		}
		c.DBPath = v
	}
	if fs.Changed(FlagWAL) {
		v, err := fs.GetBool(FlagWAL)
		if err != nil {
			return err
		}
		c.WAL = v
	}
	if fs.Changed(FlagSync) {
		v, err := fs.GetString(FlagSync)
		if err != nil {
			return err
		}
		c.Sync = v
	}
	if fs.Changed(FlagLogLevel) {
		v, err := fs.GetString(FlagLogLevel)
		if err != nil {
			return err
		}
		c.LogLevel = v
	}
	return nil
}
