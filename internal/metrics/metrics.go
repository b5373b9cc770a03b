package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connections_active",
		Help: "Currently open websocket connections.",
	})
	EventsBroadcast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_events_broadcast_total",
		Help: "Events fanned out to room members.",
	})
	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_frames_dropped_total",
		Help: "Inbound frames rejected as malformed.",
	})
)

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
