// Package tail turns controller and navigation snapshots into a feed of events.
package tail

import (
	"context"
	"time"

	"github.com/tessro/convoy/internal/navigation"
	"github.com/tessro/convoy/internal/playback"
)

// EventType represents the type of session event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventPause
	EventResume
	EventVolumeChange
	EventRouteRequested
	EventRouteActive
	EventRouteFailed
	EventRouteCancelled
)

// Status is one poll of the watched components. Either half may be nil.
type Status struct {
	Playback   *playback.Snapshot
	Navigation *navigation.Snapshot
}

// Event represents a session state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *Status
	Current   *Status
}

// PlaybackSource is anything that can report a playback snapshot.
type PlaybackSource interface {
	Snapshot() playback.Snapshot
}

// NavigationSource is anything that can report a navigation snapshot.
type NavigationSource interface {
	Snapshot() navigation.Snapshot
}

// Watcher polls snapshots for changes and emits events.
type Watcher struct {
	playback   PlaybackSource
	navigation NavigationSource
	interval   time.Duration
	now        func() time.Time
	events     chan Event
	done       chan struct{}
}

// NewWatcher creates a watcher. Either source may be nil.
func NewWatcher(pb PlaybackSource, nav NavigationSource, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	return &Watcher{
		playback:   pb,
		navigation: nav,
		interval:   interval,
		now:        time.Now,
		events:     make(chan Event, 16),
		done:       make(chan struct{}),
	}
}

// Events returns the channel of session events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling for state changes.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	prev := w.poll()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			curr := w.poll()
			for _, e := range diffStatus(prev, curr, w.now()) {
				select {
				case w.events <- e:
				default:
					// Drop event if channel is full
				}
			}
			prev = curr
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

func (w *Watcher) poll() *Status {
	s := &Status{}
	if w.playback != nil {
		snap := w.playback.Snapshot()
		s.Playback = &snap
	}
	if w.navigation != nil {
		snap := w.navigation.Snapshot()
		s.Navigation = &snap
	}
	return s
}

// diffStatus compares two polls and returns detected events.
func diffStatus(prev, curr *Status, now time.Time) []Event {
	if prev == nil || curr == nil {
		return nil
	}

	var types []EventType
	types = append(types, diffPlayback(prev.Playback, curr.Playback)...)
	types = append(types, diffNavigation(prev.Navigation, curr.Navigation)...)

	events := make([]Event, 0, len(types))
	for _, t := range types {
		events = append(events, Event{Type: t, Timestamp: now, Previous: prev, Current: curr})
	}
	return events
}

func diffPlayback(prev, curr *playback.Snapshot) []EventType {
	if prev == nil || curr == nil {
		return nil
	}

	var types []EventType
	if prev.State.TrackIndex != curr.State.TrackIndex {
		types = append(types, EventTrackChange)
	}

	// Pause/Resume detection
	if prev.State.Playing && !curr.State.Playing {
		types = append(types, EventPause)
	} else if !prev.State.Playing && curr.State.Playing {
		types = append(types, EventResume)
	}

	if prev.Volume != curr.Volume {
		types = append(types, EventVolumeChange)
	}
	return types
}

func diffNavigation(prev, curr *navigation.Snapshot) []EventType {
	if prev == nil || curr == nil {
		return nil
	}

	newRequest := curr.RequestID != prev.RequestID
	var types []EventType

	switch curr.State {
	case navigation.Requesting:
		if newRequest || prev.State != navigation.Requesting {
			types = append(types, EventRouteRequested)
		}
	case navigation.Active:
		if newRequest || prev.State != navigation.Active {
			types = append(types, EventRouteActive)
		}
	case navigation.Idle, navigation.Failed:
		// Failures fall back to Idle immediately, so they are recognized by the error.
		if curr.Error != "" && (newRequest || prev.Error != curr.Error) {
			types = append(types, EventRouteFailed)
		} else if curr.Error == "" && prev.State == navigation.Active && !newRequest {
			types = append(types, EventRouteCancelled)
		}
	}
	return types
}
