// Package driver provides playback drivers for the sync controller.
package driver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/tessro/convoy/internal/core"
)

// ErrPlayRejected is returned when the hardware refuses to start playback.
var ErrPlayRejected = errors.New("playback rejected by device")

// SimOptions configures a Sim.
type SimOptions struct {
	Tracks     core.Tracks
	Volume     float64
	RejectPlay bool
	// Now is the clock used to advance the position. Defaults to time.Now.
	Now func() time.Time
}

// Sim is a simulated playback device. Position advances with the clock
// while playing and stops at the track duration.
type Sim struct {
	mu sync.Mutex

	tracks     core.Tracks
	now        func() time.Time
	rejectPlay bool

	state     core.DriverState
	position  float64
	startedAt time.Time

	history []core.Command
}

// NewSim creates a simulated device with nothing loaded.
func NewSim(opts SimOptions) *Sim {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Sim{
		tracks:     opts.Tracks,
		now:        now,
		rejectPlay: opts.RejectPlay,
		state:      core.DriverState{Volume: clampVolume(opts.Volume)},
	}
}

// SetRejectPlay controls whether subsequent play commands fail.
func (s *Sim) SetRejectPlay(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectPlay = reject
}

// State returns the device state.
func (s *Sim) State() core.DriverState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Position returns the current playback position in seconds.
func (s *Sim) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *Sim) positionLocked() float64 {
	pos := s.position
	if s.state.Playing {
		pos += s.now().Sub(s.startedAt).Seconds()
	}
	if d := s.durationLocked(); d > 0 {
		pos = math.Min(pos, d)
	}
	return pos
}

// Duration returns the loaded track's duration, 0 when unknown.
func (s *Sim) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.durationLocked()
}

func (s *Sim) durationLocked() float64 {
	if !s.state.Loaded {
		return 0
	}
	if t := s.tracks.At(s.state.TrackIndex); t != nil {
		return t.Duration
	}
	return 0
}

// History returns every command that changed the device, oldest first.
func (s *Sim) History() []core.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Command, len(s.history))
	copy(out, s.history)
	return out
}

// Execute applies cmd. Commands that would not change the device are no-ops.
func (s *Sim) Execute(ctx context.Context, cmd core.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd.Kind {
	case core.CommandLoad:
		if !s.tracks.Contains(cmd.TrackIndex) {
			return fmt.Errorf("load: track %d out of range", cmd.TrackIndex)
		}
		if s.state.Loaded && s.state.TrackIndex == cmd.TrackIndex {
			return nil
		}
		s.state.Loaded = true
		s.state.TrackIndex = cmd.TrackIndex
		s.state.Playing = false
		s.position = 0

	case core.CommandPlay:
		if !s.state.Loaded {
			return fmt.Errorf("play: nothing loaded")
		}
		if s.state.Playing {
			return nil
		}
		if s.rejectPlay {
			return ErrPlayRejected
		}
		s.state.Playing = true
		s.startedAt = s.now()

	case core.CommandPause:
		if !s.state.Playing {
			return nil
		}
		s.position = s.positionLocked()
		s.state.Playing = false

	case core.CommandSetVolume:
		v := clampVolume(cmd.Volume)
		if v == s.state.Volume {
			return nil
		}
		s.state.Volume = v

	case core.CommandSeek:
		if !s.state.Loaded {
			return fmt.Errorf("seek: nothing loaded")
		}
		pos := math.Max(0, cmd.Position)
		if d := s.durationLocked(); d > 0 {
			pos = math.Min(pos, d)
		}
		s.position = pos
		s.startedAt = s.now()

	default:
		return fmt.Errorf("unknown command %v", cmd.Kind)
	}

	s.history = append(s.history, cmd)
	return nil
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

var _ core.PlaybackDriver = (*Sim)(nil)
