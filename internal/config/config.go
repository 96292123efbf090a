package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.convoyrc, $XDG_CONFIG_HOME/convoy/config.toml, ~/.config/convoy/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultPath returns the path used by 'convoy config init'.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".convoyrc"
	}
	return filepath.Join(home, ".convoyrc")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".convoyrc"),
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "convoy", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Channel
	if v := os.Getenv("CONVOY_CHANNEL_TRANSPORT"); v != "" {
		cfg.Channel.Transport = v
		if os.Getenv("CONVOY_CHANNEL_URL") == "" {
			cfg.Channel.URL = defaultChannelURL(v)
		}
	}
	if v := os.Getenv("CONVOY_CHANNEL_URL"); v != "" {
		cfg.Channel.URL = v
	}
	if v := os.Getenv("CONVOY_CHANNEL_TOPIC"); v != "" {
		cfg.Channel.Topic = v
	}

	// Relay
	if v := os.Getenv("CONVOY_RELAY_LISTEN"); v != "" {
		cfg.Relay.Listen = v
	}

	// Routing
	if v := os.Getenv("CONVOY_ROUTING_BASE_URL"); v != "" {
		cfg.Routing.BaseURL = v
	}
	if v := os.Getenv("CONVOY_ROUTING_PROFILE"); v != "" {
		cfg.Routing.Profile = v
	}

	// Navigation
	if v := os.Getenv("CONVOY_NAVIGATION_ORIGIN_LAT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Navigation.OriginLat = f
		}
	}
	if v := os.Getenv("CONVOY_NAVIGATION_ORIGIN_LON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Navigation.OriginLon = f
		}
	}

	// Catalog
	if v := os.Getenv("CONVOY_CATALOG_FILE"); v != "" {
		cfg.Catalog.File = v
	}

	// TUI
	if v := os.Getenv("CONVOY_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("CONVOY_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	// Log
	if v := os.Getenv("CONVOY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CONVOY_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
