package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesCollectors(t *testing.T) {
	SyncBroadcasts.Inc()
	SyncRemote.WithLabelValues("adopted").Inc()
	RouteRequests.WithLabelValues("ok").Inc()
	RelayPeers.Set(2)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	out := string(body)
	for _, want := range []string{
		"convoy_sync_broadcasts_total",
		`convoy_sync_remote_updates_total{outcome="adopted"}`,
		`convoy_route_requests_total{result="ok"}`,
		"convoy_relay_peers 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
