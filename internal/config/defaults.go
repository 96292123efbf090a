package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Channel: ChannelConfig{
			Transport: "websocket",
			URL:       "ws://127.0.0.1:7420/ws",
			Topic:     "convoy.mediaControl",
		},
		Relay: RelayConfig{
			Listen: "127.0.0.1:7420",
		},
		Routing: RoutingConfig{
			BaseURL: "https://router.project-osrm.org",
			Profile: "driving",
			Timeout: 10,
		},
		Navigation: NavigationConfig{
			// Bengaluru
			OriginLat:      12.9716,
			OriginLon:      77.5946,
			Zoom:           14,
			FitPadding:     50,
			RequestTimeout: 15,
		},
		Playback: PlaybackConfig{
			Volume: 0.75,
		},
		Tail: TailConfig{
			Interval: 1000,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 250,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Channel
	if c.Channel.Transport == "" {
		c.Channel.Transport = d.Channel.Transport
	}
	if c.Channel.URL == "" {
		c.Channel.URL = defaultChannelURL(c.Channel.Transport)
	}
	if c.Channel.Topic == "" {
		c.Channel.Topic = d.Channel.Topic
	}

	// Relay
	if c.Relay.Listen == "" {
		c.Relay.Listen = d.Relay.Listen
	}

	// Routing
	if c.Routing.BaseURL == "" {
		c.Routing.BaseURL = d.Routing.BaseURL
	}
	if c.Routing.Profile == "" {
		c.Routing.Profile = d.Routing.Profile
	}
	if c.Routing.Timeout == 0 {
		c.Routing.Timeout = d.Routing.Timeout
	}

	// Navigation
	if c.Navigation.OriginLat == 0 && c.Navigation.OriginLon == 0 {
		c.Navigation.OriginLat = d.Navigation.OriginLat
		c.Navigation.OriginLon = d.Navigation.OriginLon
	}
	if c.Navigation.Zoom == 0 {
		c.Navigation.Zoom = d.Navigation.Zoom
	}
	if c.Navigation.FitPadding == 0 {
		c.Navigation.FitPadding = d.Navigation.FitPadding
	}
	if c.Navigation.RequestTimeout == 0 {
		c.Navigation.RequestTimeout = d.Navigation.RequestTimeout
	}

	// Playback
	if c.Playback.Volume == 0 {
		c.Playback.Volume = d.Playback.Volume
	}

	// Tail
	if c.Tail.Interval == 0 {
		c.Tail.Interval = d.Tail.Interval
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// defaultChannelURL returns the conventional local address for a transport.
func defaultChannelURL(transport string) string {
	switch transport {
	case "websocket":
		return "ws://127.0.0.1:7420/ws"
	case "redis":
		return "redis://127.0.0.1:6379/0"
	case "nats":
		return "nats://127.0.0.1:4222"
	default:
		return ""
	}
}
