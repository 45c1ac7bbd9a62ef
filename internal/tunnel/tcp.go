package tunnel

import (
	"context"
	"fmt"
	"net"
	"time"

	"tunnelproxy/internal/config"
	"tunnelproxy/internal/connector"
	"tunnelproxy/internal/metrics"
	"tunnelproxy/internal/relay"
	"tunnelproxy/internal/ui"
)

// tcpHandler implements a statically-mapped TCP relay: every connection
// accepted on listenAddr is dialed straight through to remoteAddr with
// no protocol inspection at all (spec.md §4.6).
type tcpHandler struct {
	listenAddr string
	remoteAddr string
	connector  *connector.Connector
}

// NewTCP builds a static TCP relay handler (spec.md §4.6).
func NewTCP(listenAddr, remoteAddr string, c *connector.Connector) Handler {
	return &tcpHandler{listenAddr: listenAddr, remoteAddr: remoteAddr, connector: c}
}

func (h *tcpHandler) Name() string       { return "tcp" }
func (h *tcpHandler) ListenAddr() string { return h.listenAddr }

func (h *tcpHandler) HandleConn(conn net.Conn) {
	defer conn.Close()
	metrics.ConnectionsTotal.WithLabelValues(h.Name()).Inc()
	metrics.ActiveConnections.WithLabelValues(h.Name()).Inc()
	defer metrics.ActiveConnections.WithLabelValues(h.Name()).Dec()
	start := time.Now()

	host, port, err := config.SplitHostPort(h.remoteAddr)
	if err != nil {
		ui.LogStatus("error", fmt.Sprintf("tcp tunnel: invalid remote_addr %q: %v", h.remoteAddr, err))
		return
	}

	remote, err := h.connector.Connect(context.Background(), host, port)
	if err != nil {
		metrics.ConnectErrorsTotal.WithLabelValues(connectErrorReason(err)).Inc()
		ui.LogStatus("warning", fmt.Sprintf("tcp tunnel: connect to %s failed: %v", h.remoteAddr, err))
		return
	}
	defer remote.Close()

	stats, err := relay.Bidirectional(conn, remote)
	if err != nil {
		ui.LogStatus("warning", fmt.Sprintf("tcp tunnel: relay error for %s: %v", conn.RemoteAddr(), err))
	}
	metrics.BytesTotal.WithLabelValues(h.Name(), "up").Add(float64(stats.Up))
	metrics.BytesTotal.WithLabelValues(h.Name(), "down").Add(float64(stats.Down))
	metrics.ConnectionDuration.WithLabelValues(h.Name()).Observe(time.Since(start).Seconds())

	ui.LogRelay(h.remoteAddr, conn.RemoteAddr().String(), stats.Up, stats.Down)
}
