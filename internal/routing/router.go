package routing

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tessro/convoy/internal/core"
	"github.com/tessro/convoy/internal/metrics"
)

// DefaultProfile is the OSRM routing profile used when none is configured.
const DefaultProfile = "driving"

// Router plans routes between two points.
type Router struct {
	client  *Client
	profile string
}

// NewRouter creates a Router for the given profile.
func NewRouter(client *Client, profile string) *Router {
	if profile == "" {
		profile = DefaultProfile
	}
	return &Router{client: client, profile: profile}
}

// NewFromConfig is a convenience for building a Router from base URL, profile and timeout.
func NewFromConfig(baseURL, profile string, timeout time.Duration, logger zerolog.Logger) *Router {
	return NewRouter(NewClient(baseURL, timeout, logger), profile)
}

// RoutePath returns the request path for a route from origin to dest.
func (r *Router) RoutePath(origin, dest core.LatLon) string {
	return fmt.Sprintf("/route/v1/%s/%s;%s", url.PathEscape(r.profile), lonLat(origin), lonLat(dest))
}

func lonLat(p core.LatLon) string {
	return strconv.FormatFloat(p.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lat, 'f', -1, 64)
}

// Route requests a route from origin to dest and returns the first route as a snapshot.
func (r *Router) Route(ctx context.Context, origin, dest core.LatLon) (*core.RouteSnapshot, error) {
	start := time.Now()
	defer func() {
		metrics.RouteLatency.Observe(time.Since(start).Seconds())
	}()

	var resp RouteResponse
	params := map[string]string{
		"overview":   "full",
		"geometries": "geojson",
		"steps":      "true",
	}
	if err := r.client.Get(ctx, r.RoutePath(origin, dest), params, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "" && resp.Code != "Ok" {
		return nil, &APIError{Status: 200, Code: resp.Code, Message: resp.Message}
	}
	return ToSnapshot(&resp)
}

// DirectionsURL returns an openstreetmap.org link showing the route.
func DirectionsURL(origin, dest core.LatLon) string {
	q := url.Values{}
	q.Set("engine", "fossgis_osrm_car")
	q.Set("route", origin.String()+";"+dest.String())
	return "https://www.openstreetmap.org/directions?" + q.Encode()
}
