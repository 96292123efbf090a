package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tessro/convoy/internal/core"
)

func TestReconcile(t *testing.T) {
	load := func(i int) core.Command { return core.Command{Kind: core.CommandLoad, TrackIndex: i} }
	play := core.Command{Kind: core.CommandPlay}
	pause := core.Command{Kind: core.CommandPause}
	vol := func(v float64) core.Command { return core.Command{Kind: core.CommandSetVolume, Volume: v} }

	tests := []struct {
		name    string
		desired core.DesiredState
		actual  core.DriverState
		want    []core.Command
	}{
		{
			name:    "nothing loaded",
			desired: core.DesiredState{TrackIndex: 0, Volume: 0.75},
			actual:  core.DriverState{Volume: 0.75},
			want:    []core.Command{load(0)},
		},
		{
			name:    "in sync",
			desired: core.DesiredState{TrackIndex: 1, Playing: true, Volume: 0.75},
			actual:  core.DriverState{Loaded: true, TrackIndex: 1, Playing: true, Volume: 0.75},
			want:    nil,
		},
		{
			name:    "resume",
			desired: core.DesiredState{TrackIndex: 1, Playing: true, Volume: 0.75},
			actual:  core.DriverState{Loaded: true, TrackIndex: 1, Volume: 0.75},
			want:    []core.Command{play},
		},
		{
			name:    "pause",
			desired: core.DesiredState{TrackIndex: 1, Volume: 0.75},
			actual:  core.DriverState{Loaded: true, TrackIndex: 1, Playing: true, Volume: 0.75},
			want:    []core.Command{pause},
		},
		{
			name:    "track change while playing reloads and plays",
			desired: core.DesiredState{TrackIndex: 2, Playing: true, Volume: 0.75},
			actual:  core.DriverState{Loaded: true, TrackIndex: 1, Playing: true, Volume: 0.75},
			want:    []core.Command{load(2), play},
		},
		{
			name:    "track change while paused",
			desired: core.DesiredState{TrackIndex: 2, Volume: 0.75},
			actual:  core.DriverState{Loaded: true, TrackIndex: 1, Volume: 0.75},
			want:    []core.Command{load(2)},
		},
		{
			name:    "volume only",
			desired: core.DesiredState{TrackIndex: 0, Volume: 0.2},
			actual:  core.DriverState{Loaded: true, Volume: 0.75},
			want:    []core.Command{vol(0.2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reconcile(tt.desired, tt.actual))
		})
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	desired := core.DesiredState{TrackIndex: 2, Playing: true, Volume: 0.5}
	actual := core.DriverState{}

	cmds := Reconcile(desired, actual)
	assert.NotEmpty(t, cmds)

	// Apply the commands the way a device would.
	for _, c := range cmds {
		switch c.Kind {
		case core.CommandLoad:
			actual.Loaded, actual.TrackIndex, actual.Playing = true, c.TrackIndex, false
		case core.CommandPlay:
			actual.Playing = true
		case core.CommandPause:
			actual.Playing = false
		case core.CommandSetVolume:
			actual.Volume = c.Volume
		}
	}

	assert.Empty(t, Reconcile(desired, actual))
	assert.Empty(t, Reconcile(desired, actual))
}
