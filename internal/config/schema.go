package config

// Config is the root configuration structure.
type Config struct {
	Channel    ChannelConfig    `toml:"channel"`
	Relay      RelayConfig      `toml:"relay"`
	Routing    RoutingConfig    `toml:"routing"`
	Navigation NavigationConfig `toml:"navigation"`
	Playback   PlaybackConfig   `toml:"playback"`
	Catalog    CatalogConfig    `toml:"catalog"`
	Tail       TailConfig       `toml:"tail"`
	TUI        TUIConfig        `toml:"tui"`
	Log        LogConfig        `toml:"log"`
}

// ChannelConfig selects the shared channel transport.
type ChannelConfig struct {
	Transport string `toml:"transport"` // memory, websocket, redis, nats
	URL       string `toml:"url"`
	Topic     string `toml:"topic"`
	Password  string `toml:"password"`
}

// RelayConfig holds settings for the websocket relay server.
type RelayConfig struct {
	Listen string `toml:"listen"`
}

// RoutingConfig holds routing service settings.
type RoutingConfig struct {
	BaseURL string `toml:"base_url"`
	Profile string `toml:"profile"`
	Timeout int    `toml:"timeout"` // seconds, per HTTP attempt
}

// NavigationConfig holds navigation session settings.
type NavigationConfig struct {
	OriginLat      float64 `toml:"origin_lat"`
	OriginLon      float64 `toml:"origin_lon"`
	Zoom           int     `toml:"zoom"`
	FitPadding     int     `toml:"fit_padding"`
	RequestTimeout int     `toml:"request_timeout"` // seconds
}

// PlaybackConfig holds local playback settings.
type PlaybackConfig struct {
	Volume     float64 `toml:"volume"`
	RejectPlay bool    `toml:"reject_play"`
}

// CatalogConfig points at an optional YAML catalog file.
type CatalogConfig struct {
	File string `toml:"file"`
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Interval int `toml:"interval"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
