// Package metrics exposes prometheus counters/gauges/histograms for the
// proxy's listener families, adapted from the teacher's
// internal/proxy/metrics.go and generalized across all three tunnel
// kinds instead of one Signal-specific label set.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsTotal counts accepted connections per tunnel kind.
	ConnectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tunnelproxy_connections_total",
		Help: "Total accepted connections by tunnel kind",
	}, []string{"tunnel"})

	// ActiveConnections tracks connections currently being relayed.
	ActiveConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tunnelproxy_active_connections",
		Help: "Current connections being relayed, by tunnel kind",
	}, []string{"tunnel"})

	// BytesTotal counts bytes relayed per tunnel kind and direction.
	BytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tunnelproxy_bytes_total",
		Help: "Total bytes relayed by tunnel kind and direction",
	}, []string{"tunnel", "direction"})

	// DecodeErrorsTotal counts C1/C2 handshake decode failures.
	DecodeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tunnelproxy_decode_errors_total",
		Help: "Total handshake decode failures by tunnel kind",
	}, []string{"tunnel"})

	// ConnectErrorsTotal counts C4 outbound connect failures by reason
	// (timeout, addr_not_available, resolve_failed,
	// refused_or_unreachable, other).
	ConnectErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tunnelproxy_connect_errors_total",
		Help: "Total outbound connect failures by reason",
	}, []string{"reason"})

	// ConnectionDuration observes how long a relay stayed open.
	ConnectionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tunnelproxy_connection_duration_seconds",
		Help:    "Connection duration in seconds by tunnel kind",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"tunnel"})
)

// Server wraps the HTTP server that exposes /metrics, mirroring the
// teacher's MetricsServer.
type Server struct {
	server *http.Server
}

// NewServer builds a metrics server bound to addr; it does not listen
// until Start is called.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{server: &http.Server{Addr: addr, Handler: mux}}
}

// Start begins serving metrics in the background. onError, if non-nil,
// is invoked with any error other than a graceful shutdown.
func (s *Server) Start(onError func(error)) {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Shutdown gracefully stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
