package core

// Track is one entry of the externally supplied track catalog.
type Track struct {
	Title    string  `json:"title" yaml:"title"`
	Artist   string  `json:"artist" yaml:"artist"`
	Src      string  `json:"src" yaml:"src"`
	AlbumArt string  `json:"album_art,omitempty" yaml:"album_art"`
	Duration float64 `json:"duration" yaml:"duration"` // seconds, 0 if unknown
}

// Tracks is an immutable, ordered track catalog.
type Tracks []Track

// At returns the track at index i, or nil if i is out of range.
func (t Tracks) At(i int) *Track {
	if i < 0 || i >= len(t) {
		return nil
	}
	return &t[i]
}

// Len returns the catalog length.
func (t Tracks) Len() int {
	return len(t)
}

// Contains reports whether i is a valid catalog index.
func (t Tracks) Contains(i int) bool {
	return i >= 0 && i < len(t)
}
