package playback

import "github.com/tessro/convoy/internal/core"

// Reconcile returns the commands that move actual toward desired. It is pure:
// once the driver has applied them, reconciling again yields no commands.
func Reconcile(desired core.DesiredState, actual core.DriverState) []core.Command {
	var cmds []core.Command

	playing := actual.Playing
	if !actual.Loaded || actual.TrackIndex != desired.TrackIndex {
		cmds = append(cmds, core.Command{Kind: core.CommandLoad, TrackIndex: desired.TrackIndex})
		// Loading a new source stops playback.
		playing = false
	}

	switch {
	case desired.Playing && !playing:
		cmds = append(cmds, core.Command{Kind: core.CommandPlay})
	case !desired.Playing && playing:
		cmds = append(cmds, core.Command{Kind: core.CommandPause})
	}

	if desired.Volume != actual.Volume {
		cmds = append(cmds, core.Command{Kind: core.CommandSetVolume, Volume: desired.Volume})
	}

	return cmds
}
