// Package metrics holds the Prometheus collectors shared by convoy components.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SyncBroadcasts counts locally originated playback updates published to the channel.
	SyncBroadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "convoy_sync_broadcasts_total",
		Help: "Playback updates published to the shared channel.",
	})

	// SyncRemote counts inbound playback updates by outcome (adopted, unchanged, echo, invalid).
	SyncRemote = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convoy_sync_remote_updates_total",
		Help: "Inbound playback updates by reconciliation outcome.",
	}, []string{"outcome"})

	// DriverCommands counts commands sent to the playback driver by kind.
	DriverCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convoy_driver_commands_total",
		Help: "Commands issued to the playback driver.",
	}, []string{"kind"})

	// RouteRequests counts route requests by result (ok, no_route, error, timeout, stale).
	RouteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convoy_route_requests_total",
		Help: "Route requests by outcome.",
	}, []string{"result"})

	// RouteLatency observes routing service round-trip time.
	RouteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "convoy_route_request_seconds",
		Help:    "Routing service round-trip time.",
		Buckets: prometheus.DefBuckets,
	})

	// RelayPeers tracks connected relay peers.
	RelayPeers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "convoy_relay_peers",
		Help: "Peers connected to the websocket relay.",
	})

	// RelayMessages counts frames forwarded by the relay.
	RelayMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "convoy_relay_messages_total",
		Help: "Frames forwarded between relay peers.",
	})
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
