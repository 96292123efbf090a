package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Channel.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("channel: %w", err))
	}
	if err := c.Routing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("routing: %w", err))
	}
	if err := c.Navigation.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("navigation: %w", err))
	}
	if err := c.Playback.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("playback: %w", err))
	}
	if err := c.Tail.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tail: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks ChannelConfig for errors.
func (c *ChannelConfig) Validate() error {
	switch c.Transport {
	case "", "memory":
		return nil
	case "websocket", "redis", "nats":
		// need a URL
	default:
		return fmt.Errorf("invalid transport: %s (must be memory, websocket, redis, or nats)", c.Transport)
	}
	if c.URL == "" {
		return fmt.Errorf("url is required for %s transport", c.Transport)
	}
	if _, err := url.Parse(c.URL); err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	return nil
}

// Validate checks RoutingConfig for errors.
func (c *RoutingConfig) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("base_url must be http or https, got %q", u.Scheme)
		}
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	return nil
}

// Validate checks NavigationConfig for errors.
func (c *NavigationConfig) Validate() error {
	if c.OriginLat < -90 || c.OriginLat > 90 {
		return fmt.Errorf("origin_lat out of range: %v", c.OriginLat)
	}
	if c.OriginLon < -180 || c.OriginLon > 180 {
		return fmt.Errorf("origin_lon out of range: %v", c.OriginLon)
	}
	if c.Zoom < 0 || c.Zoom > 20 {
		return errors.New("zoom must be between 0 and 20")
	}
	if c.RequestTimeout < 0 {
		return errors.New("request_timeout must be non-negative")
	}
	return nil
}

// Validate checks PlaybackConfig for errors.
func (c *PlaybackConfig) Validate() error {
	if c.Volume < 0 || c.Volume > 1 {
		return errors.New("volume must be between 0 and 1")
	}
	return nil
}

// Validate checks TailConfig for errors.
func (c *TailConfig) Validate() error {
	if c.Interval < 0 {
		return errors.New("interval must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light", "latte", "frappe", "macchiato", "mocha":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, light, or a catppuccin flavor)", c.Theme)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
