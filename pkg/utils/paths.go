package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	appDir       = "rpager"
	dbFileName   = "rpager.db"
	xdgDataEnv   = "XDG_DATA_HOME"
	legacyDBName = "r-pager.db"
)

// GetDefaultDBPathOnly returns a system-appropriate default path for the database
func GetDefaultDBPathOnly() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return dbFileName
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming", appDir, dbFileName)
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", appDir, dbFileName)
	default: // Primarily Linux, but also other UNIX-like systems.
		if xdg := os.Getenv(xdgDataEnv); filepath.IsAbs(xdg) {
			return filepath.Join(xdg, appDir, dbFileName)
		}
		return filepath.Join(homeDir, ".local", "share", appDir, dbFileName)
	}
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory to expand path '%s': %w", path, err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}

// ResolveAndEnsureDBPath turns providedPath (or the default) into an
// absolute path and creates its directory. A database written under the
// old hyphenated file name next to the default one is reused.
func ResolveAndEnsureDBPath(providedPath string) (string, error) {
	targetPath := providedPath
	if targetPath == "" {
		targetPath = GetDefaultDBPathOnly()
		legacy := filepath.Join(filepath.Dir(targetPath), legacyDBName)
		if _, err := os.Stat(targetPath); os.IsNotExist(err) {
			if _, err := os.Stat(legacy); err == nil {
				targetPath = legacy
			}
		}
	}

	targetPath, err := ExpandHome(targetPath)
	if err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", targetPath, err)
	}
	targetPath = absPath

	dbDir := filepath.Dir(targetPath)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dbDir, 0o700); err != nil { // journal content is private
			return "", fmt.Errorf("failed to create directory '%s' for database: %w", dbDir, err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to stat directory '%s' for database: %w", dbDir, err)
	}

	return targetPath, nil
}
