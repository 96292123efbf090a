package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/convoy/internal/core"
	"github.com/tessro/convoy/internal/tui/styles"
)

// DestinationModel is the bubbletea model for the destination picker.
// Typing filters the list by name.
type DestinationModel struct {
	all      []core.Destination
	matches  []core.Destination
	input    textinput.Model
	cursor   int
	selected *core.Destination
	width    int
	height   int
}

// Styles for destination picker
var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.Primary)

	pickerItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	pickerSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(styles.Accent).
				Bold(true)

	pickerDimStyle = lipgloss.NewStyle().
			Foreground(styles.TextDim)
)

// NewDestinationModel creates a new destination picker model.
func NewDestinationModel(dests []core.Destination) DestinationModel {
	ti := textinput.New()
	ti.Placeholder = "Filter destinations..."
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	return DestinationModel{
		all:     dests,
		matches: dests,
		input:   ti,
		width:   80,
		height:  20,
	}
}

// Init initializes the model.
func (m DestinationModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m DestinationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if len(m.matches) > 0 && m.cursor < len(m.matches) {
				d := m.matches[m.cursor]
				m.selected = &d
				return m, tea.Quit
			}
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filter()
	return m, cmd
}

func (m *DestinationModel) filter() {
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if query == "" {
		m.matches = m.all
	} else {
		m.matches = m.matches[:0:0]
		for _, d := range m.all {
			if strings.Contains(strings.ToLower(d.Name), query) {
				m.matches = append(m.matches, d)
			}
		}
	}
	if m.cursor >= len(m.matches) {
		m.cursor = max(len(m.matches)-1, 0)
	}
}

// View renders the model.
func (m DestinationModel) View() string {
	var b strings.Builder

	b.WriteString(pickerTitleStyle.Render("🧭 Select Destination"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.matches) == 0 {
		b.WriteString(pickerDimStyle.Render("No matching destinations"))
		b.WriteString("\n")
	}
	for i, d := range m.matches {
		line := fmt.Sprintf("%s %s %s", styles.PlaceIcon(d.Icon), d.Name, pickerDimStyle.Render(d.LatLon.String()))
		if i == m.cursor {
			b.WriteString(pickerSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(pickerItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pickerDimStyle.Render("type to filter • ↑/↓ navigate • enter select • esc quit"))

	return b.String()
}

// Selected returns the selected destination, or nil if none.
func (m DestinationModel) Selected() *core.Destination {
	return m.selected
}

// RunDestinationPicker runs the picker and returns the selected destination.
func RunDestinationPicker(dests []core.Destination) (*core.Destination, error) {
	model := NewDestinationModel(dests)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(DestinationModel).Selected(), nil
}
