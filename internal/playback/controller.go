// Package playback keeps a shared "now playing" state synchronized across
// peers and drives the local playback device toward it.
package playback

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tessro/convoy/internal/channel"
	"github.com/tessro/convoy/internal/core"
	cerrors "github.com/tessro/convoy/internal/errors"
	"github.com/tessro/convoy/internal/metrics"
	"github.com/tessro/convoy/internal/notify"
)

// DefaultVolume is the initial local volume.
const DefaultVolume = 0.75

// ChangeSource says why the playback state changed.
type ChangeSource int

const (
	// SourceLocal is a local intent or local setting.
	SourceLocal ChangeSource = iota
	// SourceRemote is an adopted update from another peer.
	SourceRemote
	// SourceReverted is a local revert after the device refused to play.
	SourceReverted
)

func (s ChangeSource) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourceRemote:
		return "remote"
	case SourceReverted:
		return "reverted"
	default:
		return "unknown"
	}
}

// Change is delivered to subscribers after every state mutation.
type Change struct {
	Source ChangeSource
	State  core.PlaybackState
	Volume float64
}

// Snapshot is a point-in-time copy of the controller state.
type Snapshot struct {
	Origin   string             `json:"origin"`
	State    core.PlaybackState `json:"state"`
	Volume   float64            `json:"volume"`
	Track    core.Track         `json:"track"`
	Progress core.ProgressState `json:"progress"`
}

// Options configures a Controller.
type Options struct {
	// Origin identifies this peer. A fresh one is generated when empty.
	Origin  string
	Tracks  core.Tracks
	Channel channel.Channel
	Driver  core.PlaybackDriver
	// Volume is the initial volume. Zero selects DefaultVolume.
	Volume float64
	Logger zerolog.Logger
}

// Controller owns the local PlaybackState. Local intents are published to the
// channel; remote updates are adopted and never re-published.
type Controller struct {
	origin string
	tracks core.Tracks
	ch     channel.Channel
	driver core.PlaybackDriver
	logger zerolog.Logger

	inbox       <-chan channel.Envelope
	unsubscribe func()

	mu     sync.Mutex
	state  core.PlaybackState
	volume float64

	changes *notify.Hub[Change]
}

// New creates a controller in state {0, paused}, subscribes to the channel
// and loads the first track on the driver.
func New(ctx context.Context, opts Options) (*Controller, error) {
	if opts.Tracks.Len() == 0 {
		return nil, cerrors.ErrEmptyCatalog
	}
	if opts.Channel == nil {
		return nil, errors.New("playback: channel is required")
	}
	if opts.Driver == nil {
		return nil, errors.New("playback: driver is required")
	}

	origin := opts.Origin
	if origin == "" {
		origin = channel.NewOrigin()
	}
	volume := opts.Volume
	if volume == 0 || math.IsNaN(volume) {
		volume = DefaultVolume
	}

	c := &Controller{
		origin:  origin,
		tracks:  opts.Tracks,
		ch:      opts.Channel,
		driver:  opts.Driver,
		logger:  opts.Logger.With().Str("component", "playback").Str("origin", origin).Logger(),
		volume:  clamp01(volume),
		changes: notify.New[Change](notify.DefaultBuffer),
	}
	c.inbox, c.unsubscribe = opts.Channel.Subscribe()

	c.mu.Lock()
	err := c.convergeLocked(ctx)
	c.mu.Unlock()
	if err != nil {
		c.unsubscribe()
		return nil, fmt.Errorf("initialize driver: %w", err)
	}
	return c, nil
}

// Origin returns this peer's origin marker.
func (c *Controller) Origin() string {
	return c.origin
}

// Tracks returns the catalog.
func (c *Controller) Tracks() core.Tracks {
	return c.tracks
}

// State returns the current playback state.
func (c *Controller) State() core.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ApplyLocalIntent applies a local user intent, publishes the new state and
// drives the device. An out-of-range SelectTrack is ignored.
func (c *Controller) ApplyLocalIntent(ctx context.Context, intent Intent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := c.next(intent)
	if !ok {
		c.logger.Debug().Stringer("intent", intent).Msg("ignoring intent")
		return nil
	}

	c.state = next
	c.logger.Debug().Stringer("intent", intent).Int("track", next.TrackIndex).Bool("playing", next.Playing).Msg("local intent")

	pubErr := c.publishLocked(ctx)
	c.changes.Publish(Change{Source: SourceLocal, State: c.state, Volume: c.volume})

	if err := c.convergeLocked(ctx); err != nil {
		return err
	}
	return pubErr
}

func (c *Controller) next(intent Intent) (core.PlaybackState, bool) {
	s := c.state
	n := c.tracks.Len()

	switch intent.Kind {
	case Advance:
		s.TrackIndex = (s.TrackIndex + 1) % n
	case Retreat:
		s.TrackIndex = (s.TrackIndex - 1 + n) % n
	case TogglePlay:
		s.Playing = !s.Playing
	case SelectTrack:
		if !c.tracks.Contains(intent.Index) {
			return s, false
		}
		s.TrackIndex = intent.Index
	default:
		return s, false
	}
	return s, true
}

func (c *Controller) publishLocked(ctx context.Context) error {
	env, err := channel.NewMediaControl(c.origin, c.state)
	if err != nil {
		return err
	}
	if err := c.ch.Publish(ctx, env); err != nil {
		c.logger.Warn().Err(err).Msg("publish failed")
		return fmt.Errorf("publish playback state: %w", err)
	}
	metrics.SyncBroadcasts.Inc()
	return nil
}

// OnRemoteUpdate adopts state published by origin. Updates from this peer and
// updates equal to the current state are ignored. Adopted state is never
// re-published. It reports whether the update was adopted.
func (c *Controller) OnRemoteUpdate(ctx context.Context, state core.PlaybackState, origin string) bool {
	if origin == c.origin {
		metrics.SyncRemote.WithLabelValues("echo").Inc()
		return false
	}
	if !c.tracks.Contains(state.TrackIndex) {
		metrics.SyncRemote.WithLabelValues("invalid").Inc()
		c.logger.Warn().Int("track", state.TrackIndex).Str("from", origin).Msg("remote track out of range")
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Equal(state) {
		metrics.SyncRemote.WithLabelValues("unchanged").Inc()
		return false
	}

	metrics.SyncRemote.WithLabelValues("adopted").Inc()
	c.logger.Debug().Int("track", state.TrackIndex).Bool("playing", state.Playing).Str("from", origin).Msg("adopting remote state")

	c.state = state
	c.changes.Publish(Change{Source: SourceRemote, State: c.state, Volume: c.volume})

	if err := c.convergeLocked(ctx); err != nil {
		c.logger.Error().Err(err).Msg("driver failed to converge")
	}
	return true
}

// convergeLocked drives the device toward the desired state. A refused play
// reverts playing to false locally without publishing.
func (c *Controller) convergeLocked(ctx context.Context) error {
	desired := core.DesiredState{TrackIndex: c.state.TrackIndex, Playing: c.state.Playing, Volume: c.volume}

	for _, cmd := range Reconcile(desired, c.driver.State()) {
		metrics.DriverCommands.WithLabelValues(cmd.Kind.String()).Inc()

		err := c.driver.Execute(ctx, cmd)
		if err == nil {
			continue
		}
		if cmd.Kind == core.CommandPlay {
			c.logger.Warn().Err(err).Msg("device refused to play, reverting")
			c.state.Playing = false
			c.changes.Publish(Change{Source: SourceReverted, State: c.state, Volume: c.volume})
			continue
		}
		return fmt.Errorf("driver %s: %w", cmd, err)
	}
	return nil
}

// SetVolume sets the local volume in [0, 1]. Volume is never published.
func (c *Controller) SetVolume(ctx context.Context, v float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v = clamp01(v)
	if v == c.volume {
		return nil
	}
	c.volume = v
	c.changes.Publish(Change{Source: SourceLocal, State: c.state, Volume: c.volume})
	return c.convergeLocked(ctx)
}

// Volume returns the local volume.
func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// SeekPercent moves the local playhead to pct percent of the track. It does
// nothing when the duration is unknown. Seeks are never published.
func (c *Controller) SeekPercent(ctx context.Context, pct float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.driver.Duration()
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) || math.IsNaN(pct) {
		return nil
	}
	pct = math.Max(0, math.Min(100, pct))

	cmd := core.Command{Kind: core.CommandSeek, Position: d * pct / 100}
	metrics.DriverCommands.WithLabelValues(cmd.Kind.String()).Inc()
	if err := c.driver.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("driver %s: %w", cmd, err)
	}
	return nil
}

// Progress returns the playhead derived from the device.
func (c *Controller) Progress() core.ProgressState {
	return core.NewProgress(c.driver.Position(), c.driver.Duration())
}

// Snapshot returns a copy of the controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	s := Snapshot{Origin: c.origin, State: c.state, Volume: c.volume}
	c.mu.Unlock()

	if t := c.tracks.At(s.State.TrackIndex); t != nil {
		s.Track = *t
	}
	s.Progress = c.Progress()
	return s
}

// Subscribe returns a stream of state changes.
func (c *Controller) Subscribe() (<-chan Change, func()) {
	return c.changes.Subscribe()
}

// Run applies remote updates from the channel until ctx is done or the
// channel closes.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-c.inbox:
			if !ok {
				return cerrors.ErrChannelClosed
			}
			c.handle(ctx, env)
		}
	}
}

func (c *Controller) handle(ctx context.Context, env channel.Envelope) {
	if env.Event != channel.EventMediaControl {
		c.logger.Debug().Str("event", env.Event).Msg("ignoring event")
		return
	}
	state, err := env.PlaybackState()
	if err != nil {
		metrics.SyncRemote.WithLabelValues("invalid").Inc()
		c.logger.Warn().Err(err).Str("from", env.Origin).Msg("dropping malformed update")
		return
	}
	c.OnRemoteUpdate(ctx, state, env.Origin)
}

// Close stops listening to the channel and closes subscriber streams. It does
// not close the channel itself.
func (c *Controller) Close() {
	c.unsubscribe()
	c.changes.Close()
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
