package navigation

import (
	"sync"

	"github.com/tessro/convoy/internal/core"
)

// MapView is the map surface owned by the Manager. Only the Manager mutates it.
type MapView interface {
	ShowRoute(polyline []core.LatLon)
	ClearRoute()
	FitBounds(b core.Bounds, padding int)
	SetView(center core.LatLon, zoom int)
	SetMarker(p core.LatLon)
}

// OverlayState is a copy of what an Overlay currently shows.
type OverlayState struct {
	Route   []core.LatLon `json:"route,omitempty"`
	Center  core.LatLon   `json:"center"`
	Zoom    int           `json:"zoom"`
	Bounds  *core.Bounds  `json:"bounds,omitempty"`
	Padding int           `json:"padding,omitempty"`
	Marker  core.LatLon   `json:"marker"`
}

// HasRoute reports whether a route polyline is drawn.
func (s OverlayState) HasRoute() bool {
	return len(s.Route) > 0
}

// Overlay is an in-memory MapView.
type Overlay struct {
	mu    sync.RWMutex
	state OverlayState
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{}
}

func (o *Overlay) ShowRoute(polyline []core.LatLon) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Route = append([]core.LatLon(nil), polyline...)
}

func (o *Overlay) ClearRoute() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Route = nil
	o.state.Bounds = nil
	o.state.Padding = 0
}

// FitBounds centers the viewport on b. Zoom is left to the renderer.
func (o *Overlay) FitBounds(b core.Bounds, padding int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Bounds = &b
	o.state.Padding = padding
	o.state.Center = b.Center()
}

func (o *Overlay) SetView(center core.LatLon, zoom int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Center = center
	o.state.Zoom = zoom
	o.state.Bounds = nil
}

func (o *Overlay) SetMarker(p core.LatLon) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Marker = p
}

// State returns a copy of the overlay.
func (o *Overlay) State() OverlayState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	s := o.state
	s.Route = append([]core.LatLon(nil), o.state.Route...)
	if o.state.Bounds != nil {
		b := *o.state.Bounds
		s.Bounds = &b
	}
	return s
}

var _ MapView = (*Overlay)(nil)
