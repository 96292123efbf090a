// Package navigation runs a route-planning session against a routing service
// and keeps the map consistent with it.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tessro/convoy/internal/core"
	cerrors "github.com/tessro/convoy/internal/errors"
	"github.com/tessro/convoy/internal/metrics"
	"github.com/tessro/convoy/internal/notify"
)

const (
	DefaultZoom           = 14
	DefaultFitPadding     = 50
	DefaultRequestTimeout = 15 * time.Second
)

var errClosed = errors.New("navigation: manager closed")

// State is the navigation session state.
type State int

const (
	Idle State = iota
	Requesting
	Active
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requesting:
		return "requesting"
	case Active:
		return "active"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Router plans a route between two points.
type Router interface {
	Route(ctx context.Context, origin, dest core.LatLon) (*core.RouteSnapshot, error)
}

// Result is the outcome of one route request.
type Result struct {
	Route *core.RouteSnapshot
	Err   error
}

// Snapshot is a copy of the session. Route is shared with the manager and
// must be treated as read-only.
type Snapshot struct {
	State       State               `json:"state"`
	RequestID   uint64              `json:"request_id"`
	Position    core.LatLon         `json:"position"`
	Destination *core.Destination   `json:"destination,omitempty"`
	Route       *core.RouteSnapshot `json:"route,omitempty"`
	Err         error               `json:"-"`
	Error       string              `json:"error,omitempty"`
	Message     string              `json:"message,omitempty"`
}

// Options configures a Manager.
type Options struct {
	Router   Router
	Map      MapView
	Position core.LatLon
	Zoom     int
	// FitPadding is the padding, in pixels, around a fitted route.
	FitPadding int
	// RequestTimeout fails an outstanding request. Zero disables it.
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// Manager owns the navigation session. At most one route request is
// outstanding; results carrying any other request id are discarded.
type Manager struct {
	router  Router
	view    MapView
	zoom    int
	padding int
	timeout time.Duration
	logger  zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	state      State
	requestID  uint64
	position   core.LatLon
	dest       *core.Destination
	route      *core.RouteSnapshot
	lastErr    error
	message    string
	lastFailed *core.Destination
	timer      *time.Timer

	changes *notify.Hub[Snapshot]
}

// New creates an Idle manager and centers the map on the current position.
func New(opts Options) (*Manager, error) {
	if opts.Router == nil {
		return nil, errors.New("navigation: router is required")
	}
	if !opts.Position.Valid() {
		return nil, fmt.Errorf("navigation: invalid position %v", opts.Position)
	}
	view := opts.Map
	if view == nil {
		view = NewOverlay()
	}
	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	padding := opts.FitPadding
	if padding <= 0 {
		padding = DefaultFitPadding
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		router:   opts.Router,
		view:     view,
		zoom:     zoom,
		padding:  padding,
		timeout:  opts.RequestTimeout,
		logger:   opts.Logger.With().Str("component", "navigation").Logger(),
		ctx:      ctx,
		cancel:   cancel,
		position: opts.Position,
		changes:  notify.New[Snapshot](notify.DefaultBuffer),
	}

	view.SetView(m.position, m.zoom)
	view.SetMarker(m.position)
	return m, nil
}

// SelectDestination starts a route request from the current position to d.
// It is a no-op while a request is outstanding. It reports whether a request
// was issued.
func (m *Manager) SelectDestination(d core.Destination) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectLocked(d)
}

func (m *Manager) selectLocked(d core.Destination) bool {
	if m.state == Requesting {
		m.logger.Debug().Str("destination", d.Name).Msg("request in flight, ignoring selection")
		return false
	}
	if !d.Valid() {
		m.logger.Warn().Str("destination", d.Name).Stringer("at", d.LatLon).Msg("invalid destination")
		return false
	}

	// Entering Requesting drops any previous route.
	m.view.ClearRoute()
	m.route = nil
	m.lastErr = nil
	m.message = ""

	m.requestID++
	id := m.requestID
	dest := d
	m.dest = &dest
	m.state = Requesting

	origin := m.position
	m.logger.Info().Uint64("request", id).Str("destination", d.Name).Msg("requesting route")

	if m.timeout > 0 {
		m.timer = time.AfterFunc(m.timeout, func() {
			m.OnRouteResult(id, Result{Err: cerrors.ErrRouteTimeout})
		})
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		// The request is never aborted when superseded; its result is ignored instead.
		route, err := m.router.Route(m.ctx, origin, d.LatLon)
		m.OnRouteResult(id, Result{Route: route, Err: err})
	}()

	m.notifyLocked()
	return true
}

// OnRouteResult applies the result of request id. Results for any request
// other than the outstanding one are discarded. It reports whether the
// result was applied.
func (m *Manager) OnRouteResult(id uint64, res Result) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != m.requestID || m.state != Requesting {
		metrics.RouteRequests.WithLabelValues("stale").Inc()
		m.logger.Debug().Uint64("request", id).Uint64("current", m.requestID).Msg("discarding stale route result")
		return false
	}

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}

	err := res.Err
	if err == nil && res.Route == nil {
		err = cerrors.ErrNoRoute
	}
	if err == nil && len(res.Route.Polyline) < 2 {
		err = cerrors.ErrBadGeometry
	}

	if err != nil {
		m.failLocked(err)
		return true
	}

	metrics.RouteRequests.WithLabelValues("ok").Inc()
	m.route = res.Route
	m.lastFailed = nil
	m.state = Active
	m.view.ShowRoute(res.Route.Polyline)
	if b, ok := res.Route.Bounds(); ok {
		m.view.FitBounds(b, m.padding)
	}
	m.logger.Info().Uint64("request", id).Float64("distance_m", res.Route.Distance).Float64("duration_s", res.Route.Duration).Msg("route active")
	m.notifyLocked()
	return true
}

// failLocked surfaces err and falls back to Idle immediately.
func (m *Manager) failLocked(err error) {
	metrics.RouteRequests.WithLabelValues(resultLabel(err)).Inc()
	m.logger.Warn().Err(err).Uint64("request", m.requestID).Msg("route request failed")

	m.state = Failed
	m.lastErr = err
	m.message = cerrors.UserMessage(err)
	m.lastFailed = m.dest
	m.notifyLocked()

	m.enterIdleLocked()
	m.notifyLocked()
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, cerrors.ErrRouteTimeout):
		return "timeout"
	case errors.Is(err, cerrors.ErrNoRoute), errors.Is(err, cerrors.ErrBadGeometry):
		return "no_route"
	default:
		return "error"
	}
}

func (m *Manager) enterIdleLocked() {
	m.view.ClearRoute()
	m.route = nil
	m.dest = nil
	m.state = Idle
}

// Plan selects d and blocks until the request settles, ctx is done or the
// manager closes. It returns the first snapshot that is no longer Requesting,
// so a request timeout ends the wait even while the transport call runs.
func (m *Manager) Plan(ctx context.Context, d core.Destination) (Snapshot, error) {
	changes, unsubscribe := m.Subscribe()
	defer unsubscribe()

	if !m.SelectDestination(d) {
		return m.Snapshot(), fmt.Errorf("navigation: cannot route to %s while %s", d.Name, m.State())
	}
	for {
		select {
		case <-ctx.Done():
			return m.Snapshot(), ctx.Err()
		case s, ok := <-changes:
			if !ok {
				return m.Snapshot(), errClosed
			}
			if s.State != Requesting {
				return s, nil
			}
		}
	}
}

// Cancel ends an Active session and recenters the map on the current
// position. It does nothing in any other state.
func (m *Manager) Cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Active {
		return false
	}
	m.logger.Info().Msg("route cancelled")
	m.enterIdleLocked()
	m.message = ""
	m.view.SetView(m.position, m.zoom)
	m.notifyLocked()
	return true
}

// Retry re-selects the destination of the last failed request.
func (m *Manager) Retry() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastFailed == nil || (m.state != Idle && m.state != Failed) {
		return false
	}
	d := *m.lastFailed
	if !m.selectLocked(d) {
		return false
	}
	m.lastFailed = nil
	return true
}

// SetPosition updates the current position used as request origin and
// recenter target.
func (m *Manager) SetPosition(p core.LatLon) error {
	if !p.Valid() {
		return fmt.Errorf("invalid position %v", p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = p
	m.view.SetMarker(p)
	return nil
}

// State returns the session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns a copy of the session.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	s := Snapshot{
		State:     m.state,
		RequestID: m.requestID,
		Position:  m.position,
		Route:     m.route,
		Err:       m.lastErr,
		Message:   m.message,
	}
	if m.dest != nil {
		d := *m.dest
		s.Destination = &d
	}
	if m.lastErr != nil {
		s.Error = m.lastErr.Error()
	}
	return s
}

func (m *Manager) notifyLocked() {
	m.changes.Publish(m.snapshotLocked())
}

// Subscribe returns a stream of snapshots, one per transition.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	return m.changes.Subscribe()
}

// Wait blocks until all issued route requests have returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Close aborts outstanding requests and closes subscriber streams.
func (m *Manager) Close() {
	m.cancel()
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()
	m.wg.Wait()
	m.changes.Close()
}
