// Package config resolves filesystem locations for hostgate's data.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetDataDir resolves the base directory for all hostgate storage. It checks
// HOSTGATE_DIR first, then XDG paths, and finally falls back to the user's
// home directory.
func GetDataDir() string {
	if explicit := os.Getenv("HOSTGATE_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "hostgate")
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "hostgate")
}

// GetDBPath returns the absolute path to the SQLite database file.
func GetDBPath() string {
	return filepath.Join(GetDataDir(), "rules.db")
}
