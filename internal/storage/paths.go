// Package storage persists finished games, user preferences and game
// statistics in a Badger database.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "pawndropper"

// GetDataDir returns the per-user data directory, creating it:
// ~/Library/Application Support/pawndropper on macOS, %APPDATA%\pawndropper
// on Windows and $XDG_DATA_HOME/pawndropper (default ~/.local/share) elsewhere.
func GetDataDir() (string, error) {
	base, err := dataBase()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func dataBase() (string, error) {
	var env string
	var fallback []string
	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	default:
		env, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}
	if env != "" {
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// DatabaseDir returns the database directory below dataDir, creating it.
func DatabaseDir(dataDir string) (string, error) {
	dir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
