package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global config.toml.
//
// Number and CallingCode pin the subscriber identity; when empty the daemon
// falls back to querying the SIM. DataDir overrides the XDG data location.
type Config struct {
	DataDir     string `toml:"data_dir"`
	Number      string `toml:"number"`
	CallingCode string `toml:"calling_code"`
	Modem       string `toml:"modem"`
}

// Load reads config from the given path. Returns zero config and error if
// the file is missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
