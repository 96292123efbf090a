package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tessro/convoy/internal/channel"
	"github.com/tessro/convoy/internal/core"
)

var playCmd = &cobra.Command{
	Use:   "play <track>",
	Short: "Tell every peer to play a track",
	Long: `Publish a one-shot playback update to the shared channel.

Tracks are numbered from 1, as shown by 'convoy catalog'.

Examples:
  convoy play 2
  convoy pause 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(cmd, args[0], true)
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause <track>",
	Short: "Tell every peer to pause on a track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(cmd, args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(pauseCmd)
}

// runControl publishes {track, playing} under a fresh origin. There is no
// state handshake, so the full desired state must be given.
func runControl(cmd *cobra.Command, arg string, playing bool) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	n, err := strconv.Atoi(arg)
	if err != nil || !cat.Tracks.Contains(n-1) {
		return fmt.Errorf("track must be between 1 and %d", cat.Tracks.Len())
	}

	ctx := cmd.Context()
	ch, err := openChannel(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	state := core.PlaybackState{TrackIndex: n - 1, Playing: playing}
	env, err := channel.NewMediaControl(channel.NewOrigin(), state)
	if err != nil {
		return err
	}
	if err := ch.Publish(ctx, env); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(state)
	}

	track := cat.Tracks.At(n - 1)
	verb := "Paused"
	if playing {
		verb = "Playing"
	}
	fmt.Printf("%s: %s — %s\n", verb, track.Title, track.Artist)
	return nil
}
