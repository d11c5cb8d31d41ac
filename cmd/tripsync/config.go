package main

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/tbourn/go-trip-sync/internal/config"
)

// fileConfig mirrors the subset of settings worth keeping in a config file;
// everything else stays environment-driven.
type fileConfig struct {
	RemoteURL string `toml:"remote_url"`
	Token     string `toml:"token"`
	CachePath string `toml:"cache_path"`
	LogLevel  string `toml:"log_level"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tripsync.toml"
	}
	return filepath.Join(home, ".tripsync.toml")
}

// applyFileConfig overlays values from a TOML file onto cfg. A missing file
// is not an error; a malformed one is.
func applyFileConfig(cfg *config.Config, path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var fc fileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.RemoteURL != "" {
		cfg.Remote.BaseURL = fc.RemoteURL
	}
	if fc.Token != "" {
		cfg.Remote.Token = fc.Token
	}
	if fc.CachePath != "" {
		cfg.CachePath = fc.CachePath
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	return nil
}
