// Package paths resolves the on-disk layout: an XDG data directory holding
// the database, spilled attachments, and logs.
package paths

import (
	"os"
	"path/filepath"
)

// DataDir returns $XDG_DATA_HOME/vgmms (or ~/.local/share/vgmms).
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "vgmms")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "vgmms")
}

// ConfigPath returns $XDG_CONFIG_HOME/vgmms/config.toml (or ~/.config/...).
func ConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vgmms", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "vgmms", "config.toml")
}

// DBPath returns the database file path under dataDir.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "vgmms.db")
}

// AttachmentDir returns the directory for locally spilled attachment data.
func AttachmentDir(dataDir string) string {
	return filepath.Join(dataDir, "attachments")
}

// LogPath returns the daemon log file path.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "vgmmsd.log")
}

// EnsureDirs creates the data directory tree with owner-only permissions.
func EnsureDirs(dataDir string) error {
	dirs := []string{
		dataDir,
		AttachmentDir(dataDir),
		filepath.Join(dataDir, "logs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
