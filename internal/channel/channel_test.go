package channel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/convoy/internal/config"
	"github.com/tessro/convoy/internal/core"
	cerrors "github.com/tessro/convoy/internal/errors"
)

func TestMediaControlRoundTrip(t *testing.T) {
	env, err := NewMediaControl("peer-a", core.PlaybackState{TrackIndex: 2, Playing: true})
	require.NoError(t, err)
	assert.Equal(t, EventMediaControl, env.Event)
	assert.JSONEq(t, `{"trackIndex":2,"playing":true}`, string(env.Data))

	data, err := Encode(env)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "peer-a", got.Origin)

	state, err := got.PlaybackState()
	require.NoError(t, err)
	assert.Equal(t, core.PlaybackState{TrackIndex: 2, Playing: true}, state)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `nope`},
		{"missing event", `{"origin":"x","data":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data)); err == nil {
				t.Errorf("Decode(%q) error = nil, want error", tt.data)
			}
		})
	}
}

func TestPlaybackStateWrongEvent(t *testing.T) {
	env := Envelope{Event: "chat", Data: []byte(`{}`)}
	_, err := env.PlaybackState()
	assert.Error(t, err)
}

func TestMemoryEchoesToAllSubscribers(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	a, cancelA := m.Subscribe()
	defer cancelA()
	b, cancelB := m.Subscribe()
	defer cancelB()

	env, err := NewMediaControl("peer-a", core.PlaybackState{TrackIndex: 1})
	require.NoError(t, err)
	require.NoError(t, m.Publish(context.Background(), env))

	for _, ch := range []<-chan Envelope{a, b} {
		select {
		case got := <-ch:
			assert.Equal(t, "peer-a", got.Origin)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive envelope")
		}
	}
}

func TestMemoryUnsubscribeClosesStream(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	ch, cancel := m.Subscribe()
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
}

func TestMemoryClose(t *testing.T) {
	m := NewMemory()
	ch, _ := m.Subscribe()
	require.NoError(t, m.Close())

	_, ok := <-ch
	assert.False(t, ok)

	err := m.Publish(context.Background(), Envelope{Event: EventMediaControl})
	assert.True(t, errors.Is(err, cerrors.ErrChannelClosed))

	late, _ := m.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

func TestOpenUnknownTransport(t *testing.T) {
	_, err := Open(context.Background(), config.ChannelConfig{Transport: "carrier-pigeon"}, zerolog.Nop())
	assert.True(t, errors.Is(err, cerrors.ErrUnknownTransport))
}

func TestOpenMemory(t *testing.T) {
	ch, err := Open(context.Background(), config.ChannelConfig{Transport: "memory"}, zerolog.Nop())
	require.NoError(t, err)
	defer ch.Close()
	assert.IsType(t, &Memory{}, ch)
}
