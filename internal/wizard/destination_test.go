package wizard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/convoy/internal/core"
)

var dests = []core.Destination{
	{Name: "Home", LatLon: core.LatLon{Lat: 12.9352, Lon: 77.6245}},
	{Name: "Work", LatLon: core.LatLon{Lat: 12.9784, Lon: 77.5918}},
	{Name: "Mall", LatLon: core.LatLon{Lat: 12.9719, Lon: 77.6371}},
}

func send(m DestinationModel, msgs ...tea.Msg) DestinationModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(DestinationModel)
	}
	return m
}

func TestDestinationPickerSelect(t *testing.T) {
	m := send(NewDestinationModel(dests),
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	got := m.Selected()
	if got == nil || got.Name != "Mall" {
		t.Errorf("Selected() = %v, want Mall", got)
	}
}

func TestDestinationPickerFilter(t *testing.T) {
	m := send(NewDestinationModel(dests), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("wo")})
	if len(m.matches) != 1 || m.matches[0].Name != "Work" {
		t.Fatalf("matches = %v, want [Work]", m.matches)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Selected(); got == nil || got.Name != "Work" {
		t.Errorf("Selected() = %v, want Work", got)
	}
}

func TestDestinationPickerNoMatch(t *testing.T) {
	m := send(NewDestinationModel(dests),
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzz")},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if m.Selected() != nil {
		t.Errorf("Selected() = %v, want nil", m.Selected())
	}
}

func TestDestinationPickerCancel(t *testing.T) {
	m := send(NewDestinationModel(dests), tea.KeyMsg{Type: tea.KeyEsc})
	if m.Selected() != nil {
		t.Errorf("Selected() = %v, want nil", m.Selected())
	}
}

func TestNeedsDestination(t *testing.T) {
	if !NeedsDestination(nil) {
		t.Error("NeedsDestination(nil) = false, want true")
	}
	if NeedsDestination([]string{"home"}) {
		t.Error("NeedsDestination([home]) = true, want false")
	}
}
