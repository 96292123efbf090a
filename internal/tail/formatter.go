package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tessro/convoy/internal/format"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// formatLine formats an event as a simple line.
func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}

	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}

	parts = append(parts, f.eventDescription(e))

	return strings.Join(parts, " ")
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Ago:       humanize.Time(e.Timestamp),
	}

	if e.Current != nil && e.Current.Playback != nil {
		pb := e.Current.Playback
		data.Title = pb.Track.Title
		data.Artist = pb.Track.Artist
		data.Track = pb.State.TrackIndex
		data.Playing = pb.State.Playing
		data.Volume = volumePercent(pb.Volume)
	}

	if e.Current != nil && e.Current.Navigation != nil {
		nav := e.Current.Navigation
		if nav.Destination != nil {
			data.Destination = nav.Destination.Name
		}
		if nav.Route != nil {
			data.Distance = format.Distance(nav.Route.Distance)
			data.Duration = format.Duration(nav.Route.Duration)
			data.Instruction = nav.Route.Next.String()
		}
		data.Message = nav.Message
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type        string
	Emoji       string
	Timestamp   time.Time
	Time        string
	Ago         string
	Title       string
	Artist      string
	Track       int
	Playing     bool
	Volume      int
	Destination string
	Distance    string
	Duration    string
	Instruction string
	Message     string
}

func volumePercent(v float64) int {
	return int(v*100 + 0.5)
}

// eventDescription returns a human-readable description of the event.
func (f *Formatter) eventDescription(e Event) string {
	pb := func() bool { return e.Current != nil && e.Current.Playback != nil }
	nav := func() bool { return e.Current != nil && e.Current.Navigation != nil }

	switch e.Type {
	case EventTrackChange:
		if pb() && e.Current.Playback.Track.Title != "" {
			return fmt.Sprintf("Now playing: %s - %s",
				e.Current.Playback.Track.Artist,
				e.Current.Playback.Track.Title)
		}
		return "Track changed"

	case EventPause:
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventVolumeChange:
		if pb() {
			return fmt.Sprintf("Volume: %d%%", volumePercent(e.Current.Playback.Volume))
		}
		return "Volume changed"

	case EventRouteRequested:
		if nav() && e.Current.Navigation.Destination != nil {
			return fmt.Sprintf("Routing to %s...", e.Current.Navigation.Destination.Name)
		}
		return "Routing..."

	case EventRouteActive:
		if nav() && e.Current.Navigation.Route != nil {
			n := e.Current.Navigation
			name := "destination"
			if n.Destination != nil {
				name = n.Destination.Name
			}
			return fmt.Sprintf("Route to %s: %s, %s. %s",
				name,
				format.Duration(n.Route.Duration),
				format.Distance(n.Route.Distance),
				n.Route.Next)
		}
		return "Route ready"

	case EventRouteFailed:
		if nav() && e.Current.Navigation.Message != "" {
			return e.Current.Navigation.Message
		}
		return "Route failed"

	case EventRouteCancelled:
		return "Route cancelled"

	default:
		return "Unknown event"
	}
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventVolumeChange:
		return "🔊"
	case EventRouteRequested:
		return "🧭"
	case EventRouteActive:
		return "🗺️"
	case EventRouteFailed:
		return "⚠️"
	case EventRouteCancelled:
		return "✖️"
	default:
		return "❓"
	}
}

// eventTypeName returns the name of the event type.
func eventTypeName(t EventType) string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventVolumeChange:
		return "volume_change"
	case EventRouteRequested:
		return "route_requested"
	case EventRouteActive:
		return "route_active"
	case EventRouteFailed:
		return "route_failed"
	case EventRouteCancelled:
		return "route_cancelled"
	default:
		return "unknown"
	}
}
