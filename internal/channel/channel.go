// Package channel implements the shared bidirectional channel that connects
// every convoy peer. Delivery is fire-and-forget and at-most-once.
package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tessro/convoy/internal/core"
)

const (
	// EventMediaControl is the event name carrying playback state.
	EventMediaControl = "mediaControl"

	subscriberBuffer = 64
)

// Envelope is a single message on the shared channel.
type Envelope struct {
	Event  string          `json:"event"`
	Origin string          `json:"origin"`
	SentAt time.Time       `json:"sent_at"`
	Data   json.RawMessage `json:"data"`
}

// MediaControl is the mediaControl payload.
type MediaControl struct {
	TrackIndex int  `json:"trackIndex"`
	Playing    bool `json:"playing"`
}

// Channel is a shared message transport. Implementations must be safe for
// concurrent use.
type Channel interface {
	// Publish sends env to the channel without waiting for delivery.
	Publish(ctx context.Context, env Envelope) error
	// Subscribe returns a stream of inbound envelopes and a function that
	// cancels the subscription. The stream is closed when the channel closes.
	Subscribe() (<-chan Envelope, func())
	// Close tears the transport down.
	Close() error
}

// NewOrigin returns a fresh origin marker identifying one peer instance.
func NewOrigin() string {
	return uuid.NewString()
}

// NewMediaControl builds a mediaControl envelope for state.
func NewMediaControl(origin string, state core.PlaybackState) (Envelope, error) {
	data, err := json.Marshal(MediaControl{TrackIndex: state.TrackIndex, Playing: state.Playing})
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal media control: %w", err)
	}
	return Envelope{
		Event:  EventMediaControl,
		Origin: origin,
		SentAt: time.Now(),
		Data:   data,
	}, nil
}

// PlaybackState decodes a mediaControl payload.
func (e Envelope) PlaybackState() (core.PlaybackState, error) {
	if e.Event != EventMediaControl {
		return core.PlaybackState{}, fmt.Errorf("unexpected event %q", e.Event)
	}
	var mc MediaControl
	if err := json.Unmarshal(e.Data, &mc); err != nil {
		return core.PlaybackState{}, fmt.Errorf("unmarshal media control: %w", err)
	}
	return core.PlaybackState{TrackIndex: mc.TrackIndex, Playing: mc.Playing}, nil
}

// Encode serializes an envelope for the wire.
func Encode(env Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// Decode parses an envelope from the wire.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("envelope has no event")
	}
	return env, nil
}
