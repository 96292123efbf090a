package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/convoy/internal/core"
	"github.com/tessro/convoy/internal/tui/styles"
)

// Playlist displays the track catalog with the current track marked.
type Playlist struct {
	cursor int
	offset int
}

// NewPlaylist creates a new Playlist component
func NewPlaylist() *Playlist {
	return &Playlist{}
}

// CursorDown moves the cursor down
func (p *Playlist) CursorDown(n int) {
	if p.cursor < n-1 {
		p.cursor++
	}
}

// CursorUp moves the cursor up
func (p *Playlist) CursorUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// Cursor returns the index under the cursor
func (p *Playlist) Cursor() int {
	return p.cursor
}

// Render renders the playlist panel
func (p *Playlist) Render(tracks core.Tracks, current, width, height int, focused bool) string {
	title := styles.PanelTitle("Playlist", focused)

	var content string
	if tracks.Len() == 0 {
		content = styles.Muted.Render("Catalog is empty")
	} else {
		content = p.renderTracks(tracks, current, width-4, height-4, focused)
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

func (p *Playlist) renderTracks(tracks core.Tracks, current, width, maxLines int, focused bool) string {
	visible := maxLines - 1 // Leave room for "more" indicator
	if visible < 1 {
		visible = 1
	}

	// Keep the cursor on screen
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+visible {
		p.offset = p.cursor - visible + 1
	}

	start := p.offset
	end := start + visible
	if end > len(tracks) {
		end = len(tracks)
	}

	lines := make([]string, 0, end-start+1)

	// number, marker and separator
	const overhead = 9

	for i := start; i < end; i++ {
		track := tracks[i]
		num := fmt.Sprintf("%2d.", i+1)
		title, artist := fitPair(track.Title, track.Artist, width-overhead, 10)

		selector := " "
		if focused && i == p.cursor {
			selector = "▸"
		}

		var line string
		if i == current {
			line = selector + styles.Playing.Render(fmt.Sprintf("%s ▶ %s — %s", num, title, artist))
		} else {
			line = fmt.Sprintf("%s%s   %s — %s",
				selector,
				styles.Dim.Render(num),
				title,
				styles.Muted.Render(artist))
		}
		lines = append(lines, line)
	}

	if end < len(tracks) {
		more := styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(tracks)-end))
		lines = append(lines, more)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// fitPair truncates a and b to fit available, giving b at least a third
// of the space (and no less than min).
func fitPair(a, b string, available, min int) (string, string) {
	if len(a)+len(b) <= available {
		return a, b
	}

	minB := available / 3
	if minB < min {
		minB = min
	}
	if minB > available-min {
		minB = available - min
	}

	bSpace := minB
	if len(b) < bSpace {
		bSpace = len(b)
	}
	return truncate(a, available-bSpace), truncate(b, bSpace)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
