package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/convoy/internal/format"
	"github.com/tessro/convoy/internal/playback"
	"github.com/tessro/convoy/internal/tui/styles"
)

// NowPlaying displays the current track and playhead.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(snap *playback.Snapshot, total, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if snap == nil || snap.Track.Title == "" {
		content = styles.Muted.Render("Nothing loaded")
	} else {
		content = n.renderTrack(snap, total, width-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (n *NowPlaying) renderTrack(snap *playback.Snapshot, total, width int) string {
	track := snap.Track

	icon := styles.StatusIcon(snap.State.Playing)
	title := styles.Title.Width(width - 4).Render(track.Title)
	artist := styles.Subtitle.Render(track.Artist)
	position := styles.Dim.Render(fmt.Sprintf("Track %d of %d", snap.State.TrackIndex+1, total))

	// Progress bar with times on either side
	progressWidth := width - 14
	if progressWidth < 10 {
		progressWidth = 10
	}
	bar := styles.ProgressBar(snap.Progress.Percentage, progressWidth)
	progress := fmt.Sprintf("%s %s %s",
		format.Clock(snap.Progress.Position),
		bar,
		format.Clock(snap.Progress.Duration))

	volume := styles.Muted.Render(fmt.Sprintf("%s %d%%",
		styles.VolumeIcon(snap.Volume),
		int(snap.Volume*100+0.5)))

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+artist,
		"  "+position,
		"",
		progress,
		"",
		volume,
		n.renderControls(snap.State.Playing),
	)
}

func (n *NowPlaying) renderControls(playing bool) string {
	controls := styles.Dim.Render("⏮ ")
	if playing {
		controls += styles.Playing.Render("⏸")
	} else {
		controls += styles.Paused.Render("▶")
	}
	controls += styles.Dim.Render(" ⏭")

	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Render(controls)
}
