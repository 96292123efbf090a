package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/convoy/internal/core"
	"github.com/tessro/convoy/internal/format"
	"github.com/tessro/convoy/internal/navigation"
	"github.com/tessro/convoy/internal/tui/styles"
)

// Navigation displays the destination picker or the active route.
type Navigation struct {
	selected int
}

// NewNavigation creates a new Navigation component
func NewNavigation() *Navigation {
	return &Navigation{}
}

// SelectNext selects the next destination
func (n *Navigation) SelectNext(count int) {
	if n.selected < count-1 {
		n.selected++
	}
}

// SelectPrev selects the previous destination
func (n *Navigation) SelectPrev() {
	if n.selected > 0 {
		n.selected--
	}
}

// Selected returns the selected destination index
func (n *Navigation) Selected() int {
	return n.selected
}

// Render renders the navigation panel. spinner is shown while a route is requested.
func (n *Navigation) Render(snap *navigation.Snapshot, overlay navigation.OverlayState, dests []core.Destination, spinner string, width, height int, focused bool) string {
	title := styles.PanelTitle("Navigation", focused)

	var content string
	switch {
	case snap == nil:
		content = styles.Muted.Render("Navigation unavailable")
	case snap.State == navigation.Requesting:
		name := "destination"
		if snap.Destination != nil {
			name = snap.Destination.Name
		}
		content = fmt.Sprintf("%s Routing to %s...", spinner, name)
	case snap.State == navigation.Active && snap.Route != nil:
		content = n.renderRoute(snap, overlay)
	default:
		content = n.renderDestinations(snap, dests, focused)
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

func (n *Navigation) renderDestinations(snap *navigation.Snapshot, dests []core.Destination, focused bool) string {
	if n.selected >= len(dests) {
		n.selected = len(dests) - 1
	}
	if n.selected < 0 {
		n.selected = 0
	}

	lines := make([]string, 0, len(dests)+2)
	if snap.Message != "" {
		lines = append(lines, styles.Banner.Render(snap.Message), "")
	}

	for i, d := range dests {
		selector := "  "
		name := d.Name
		if focused && i == n.selected {
			selector = "▸ "
			name = styles.Highlight.Render(name)
		}
		lines = append(lines, fmt.Sprintf("%s%s %s", selector, styles.PlaceIcon(d.Icon), name))
	}

	if len(dests) == 0 {
		lines = append(lines, styles.Muted.Render("No destinations"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (n *Navigation) renderRoute(snap *navigation.Snapshot, overlay navigation.OverlayState) string {
	route := snap.Route

	eta := lipgloss.NewStyle().Bold(true).Foreground(styles.Route).Render(format.Duration(route.Duration))
	dist := styles.Subtitle.Render(format.Distance(route.Distance))

	dest := ""
	if snap.Destination != nil {
		dest = styles.Dim.Render("to " + snap.Destination.Name)
	}

	next := styles.Title.Render("➤ " + route.Next.String())

	view := styles.Dim.Render(fmt.Sprintf("%d points, centered %s", len(overlay.Route), overlay.Center))

	return lipgloss.JoinVertical(lipgloss.Left,
		eta+"  "+dist+"  "+dest,
		"",
		next,
		"",
		view,
	)
}
