package playback

import "fmt"

// IntentKind identifies a local user intent.
type IntentKind int

const (
	Advance IntentKind = iota
	Retreat
	TogglePlay
	SelectTrack
)

func (k IntentKind) String() string {
	switch k {
	case Advance:
		return "advance"
	case Retreat:
		return "retreat"
	case TogglePlay:
		return "toggle"
	case SelectTrack:
		return "select"
	default:
		return "unknown"
	}
}

// Intent is a local user action on the shared playback state.
type Intent struct {
	Kind  IntentKind
	Index int // SelectTrack only
}

// Select returns a SelectTrack intent for index i.
func Select(i int) Intent {
	return Intent{Kind: SelectTrack, Index: i}
}

func (i Intent) String() string {
	if i.Kind == SelectTrack {
		return fmt.Sprintf("select(%d)", i.Index)
	}
	return i.Kind.String()
}
