package core

import "math"

// PlaybackState is the shared "now playing" state synchronized between peers.
type PlaybackState struct {
	TrackIndex int  `json:"trackIndex"`
	Playing    bool `json:"playing"`
}

// Equal reports whether two states agree on both synchronized fields.
func (s PlaybackState) Equal(o PlaybackState) bool {
	return s.TrackIndex == o.TrackIndex && s.Playing == o.Playing
}

// ProgressState is derived from the playback driver and never transmitted.
type ProgressState struct {
	Position   float64 `json:"position"`
	Duration   float64 `json:"duration"`
	Percentage float64 `json:"percentage"`
}

// NewProgress builds a ProgressState, treating NaN, infinite or negative
// readings as unknown (zero).
func NewProgress(position, duration float64) ProgressState {
	position = finiteOrZero(position)
	duration = finiteOrZero(duration)

	p := ProgressState{Position: position, Duration: duration}
	if duration > 0 {
		p.Percentage = math.Min(100, 100*position/duration)
	}
	return p
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
