package core

import (
	"context"
	"fmt"
)

// DriverState is what the playback hardware currently does.
type DriverState struct {
	Loaded     bool    `json:"loaded"`
	TrackIndex int     `json:"track_index"`
	Playing    bool    `json:"playing"`
	Volume     float64 `json:"volume"`
}

// DesiredState is the declarative target the controller asks the driver to reach.
type DesiredState struct {
	TrackIndex int     `json:"trackIndex"`
	Playing    bool    `json:"playing"`
	Volume     float64 `json:"volume"`
}

// CommandKind identifies a driver command.
type CommandKind int

const (
	CommandLoad CommandKind = iota
	CommandPlay
	CommandPause
	CommandSetVolume
	CommandSeek
)

func (k CommandKind) String() string {
	switch k {
	case CommandLoad:
		return "load"
	case CommandPlay:
		return "play"
	case CommandPause:
		return "pause"
	case CommandSetVolume:
		return "volume"
	case CommandSeek:
		return "seek"
	default:
		return "unknown"
	}
}

// Command is a single idempotent instruction for the playback driver.
type Command struct {
	Kind       CommandKind
	TrackIndex int     // CommandLoad
	Volume     float64 // CommandSetVolume
	Position   float64 // CommandSeek, seconds
}

func (c Command) String() string {
	switch c.Kind {
	case CommandLoad:
		return fmt.Sprintf("load(%d)", c.TrackIndex)
	case CommandSetVolume:
		return fmt.Sprintf("volume(%.2f)", c.Volume)
	case CommandSeek:
		return fmt.Sprintf("seek(%.1fs)", c.Position)
	default:
		return c.Kind.String()
	}
}

// PlaybackDriver is the hardware playback effect owned by the sync controller.
type PlaybackDriver interface {
	// State returns the driver's current state.
	State() DriverState
	// Position returns the playback position in seconds.
	Position() float64
	// Duration returns the loaded track's duration in seconds, 0 if unknown.
	Duration() float64
	// Execute applies a command. A rejected play returns an error.
	Execute(ctx context.Context, cmd Command) error
}
