package components

import (
	"strings"
	"testing"

	"github.com/tessro/convoy/internal/core"
	"github.com/tessro/convoy/internal/navigation"
	"github.com/tessro/convoy/internal/playback"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFitPair(t *testing.T) {
	a, b := fitPair("Short", "Pair", 40, 10)
	if a != "Short" || b != "Pair" {
		t.Errorf("fitPair() = %q, %q; want unchanged", a, b)
	}

	a, b = fitPair("A Very Long Track Title Indeed", "Some Artist Name", 30, 10)
	if len(a)+len(b) > 30 {
		t.Errorf("fitPair() total = %d, want <= 30", len(a)+len(b))
	}
}

func TestPlaylistCursor(t *testing.T) {
	p := NewPlaylist()
	p.CursorUp()
	if p.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", p.Cursor())
	}
	p.CursorDown(2)
	p.CursorDown(2)
	if p.Cursor() != 1 {
		t.Errorf("Cursor() = %d, want 1 (clamped)", p.Cursor())
	}
}

func TestNavigationRender(t *testing.T) {
	dests := []core.Destination{{Name: "Home"}, {Name: "Work"}}
	n := NewNavigation()

	idle := n.Render(&navigation.Snapshot{State: navigation.Idle, Message: "No route found to that destination."}, navigation.OverlayState{}, dests, "*", 60, 12, true)
	for _, want := range []string{"Home", "Work", "No route found"} {
		if !strings.Contains(idle, want) {
			t.Errorf("idle view missing %q", want)
		}
	}

	active := n.Render(&navigation.Snapshot{
		State:       navigation.Active,
		Destination: &dests[0],
		Route:       &core.RouteSnapshot{Distance: 5000, Duration: 600, Next: core.NextStepInstruction("Turn right")},
	}, navigation.OverlayState{}, dests, "*", 60, 12, true)
	for _, want := range []string{"10 min", "5.0 km", "Turn right"} {
		if !strings.Contains(active, want) {
			t.Errorf("active view missing %q", want)
		}
	}

	requesting := n.Render(&navigation.Snapshot{State: navigation.Requesting, Destination: &dests[1]}, navigation.OverlayState{}, dests, "*", 60, 12, true)
	if !strings.Contains(requesting, "Routing to Work") {
		t.Error("requesting view missing destination")
	}
}

func TestNowPlayingRender(t *testing.T) {
	snap := &playback.Snapshot{
		State:    core.PlaybackState{TrackIndex: 1, Playing: true},
		Volume:   0.75,
		Track:    core.Track{Title: "Night Drive", Artist: "Neon Lanes"},
		Progress: core.NewProgress(65, 187),
	}
	out := NewNowPlaying().Render(snap, 3, 70, 14, true)
	for _, want := range []string{"Night Drive", "Neon Lanes", "Track 2 of 3", "01:05", "03:07", "75%"} {
		if !strings.Contains(out, want) {
			t.Errorf("now playing view missing %q", want)
		}
	}
}
