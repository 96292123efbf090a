package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/convoy/internal/config"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{"channel.transport", "redis", "redis", false},
		{"routing.timeout", "5", 5, false},
		{"routing.timeout", "five", nil, true},
		{"playback.volume", "0.5", 0.5, false},
		{"playback.volume", "loud", nil, true},
		{"playback.reject_play", "yes", true, false},
		{"playback.reject_play", "no", false, false},
		{"routing.api_key", "x", nil, true},
	}
	for _, tt := range tests {
		got, err := parseValue(tt.key, tt.value)
		if tt.wantErr {
			assert.Error(t, err, "parseValue(%q, %q)", tt.key, tt.value)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "parseValue(%q, %q)", tt.key, tt.value)
	}
}

func TestSetRaw(t *testing.T) {
	raw := map[string]any{"channel": map[string]any{"url": "ws://old"}}

	require.NoError(t, setRaw(raw, "channel.url", "ws://new"))
	require.NoError(t, setRaw(raw, "log.level", "debug"))
	assert.Error(t, setRaw(raw, "nodot", "x"))

	assert.Equal(t, "ws://new", raw["channel"].(map[string]any)["url"])
	assert.Equal(t, "debug", raw["log"].(map[string]any)["level"])
}

func TestEncodeConfigRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodeConfig(&buf, config.Default()))
	assert.True(t, strings.HasPrefix(buf.String(), "# Convoy Configuration"))

	var got config.Config
	_, err := toml.Decode(buf.String(), &got)
	require.NoError(t, err)
	assert.Equal(t, *config.Default(), got)
}

func TestSetConfigValues(t *testing.T) {
	path := t.TempDir() + "/convoyrc"
	cfgFile = path
	t.Cleanup(func() { cfgFile = "" })

	require.NoError(t, writeConfigFile(path, config.Default()))
	require.NoError(t, setConfigValues(map[string]string{
		"channel.transport": "nats",
		"playback.volume":   "0.4",
	}))

	got, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "nats", got.Channel.Transport)
	assert.InDelta(t, 0.4, got.Playback.Volume, 1e-9)
	assert.Equal(t, config.Default().Routing.BaseURL, got.Routing.BaseURL)
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"a longer string", 8, "a lon..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := TruncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"serve", "ui", "route", "tail", "catalog", "config", "version", "play", "pause"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}
