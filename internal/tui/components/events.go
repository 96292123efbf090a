package components

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/convoy/internal/tui/styles"
)

// EventEntry is one line of the event feed.
type EventEntry struct {
	Text string
	At   time.Time
}

// Events displays recent session events, newest first.
type Events struct{}

// NewEvents creates a new Events component
func NewEvents() *Events {
	return &Events{}
}

// Render renders the events panel
func (e *Events) Render(entries []EventEntry, width, height int, focused bool) string {
	title := styles.PanelTitle("Events", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No events yet")
	} else {
		content = e.renderEntries(entries, width-4, height-4)
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

func (e *Events) renderEntries(entries []EventEntry, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	for i, entry := range entries {
		if i >= maxLines {
			break
		}

		ago := humanize.Time(entry.At)
		text := truncate(entry.Text, width-len(ago)-1)

		padding := width - lipgloss.Width(text) - len(ago)
		if padding < 1 {
			padding = 1
		}

		lines = append(lines, text+lipgloss.NewStyle().Width(padding).Render("")+styles.Dim.Render(ago))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
