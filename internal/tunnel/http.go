package tunnel

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"tunnelproxy/internal/connector"
	"tunnelproxy/internal/handshake"
	"tunnelproxy/internal/metrics"
	"tunnelproxy/internal/relay"
	"tunnelproxy/internal/ui"
)

const framerReadSize = 4096

// httpHandler implements the forward-proxy tunnel: it reads one HTTP
// request head (CONNECT or absolute-form), dials the target it names,
// and either answers "200 Connection Established" (CONNECT) or forwards
// whatever body bytes already arrived (absolute-form), then relays.
type httpHandler struct {
	listenAddr string
	connector  *connector.Connector
}

// NewHTTP builds the HTTP forward-proxy tunnel handler (spec.md §4.6).
func NewHTTP(listenAddr string, c *connector.Connector) Handler {
	return &httpHandler{listenAddr: listenAddr, connector: c}
}

func (h *httpHandler) Name() string       { return "http" }
func (h *httpHandler) ListenAddr() string { return h.listenAddr }

func (h *httpHandler) HandleConn(conn net.Conn) {
	defer conn.Close()
	metrics.ConnectionsTotal.WithLabelValues(h.Name()).Inc()
	metrics.ActiveConnections.WithLabelValues(h.Name()).Inc()
	defer metrics.ActiveConnections.WithLabelValues(h.Name()).Dec()
	start := time.Now()

	var dec handshake.HTTPDecoder
	buf := new(bytes.Buffer)
	result, err := handshake.ReadFramed[*handshake.HandshakeResult](conn, dec, buf, framerReadSize)
	if err != nil {
		metrics.DecodeErrorsTotal.WithLabelValues(h.Name()).Inc()
		ui.LogStatus("warning", fmt.Sprintf("http tunnel: handshake decode failed from %s: %v", conn.RemoteAddr(), err))
		return
	}

	remote, err := h.connector.Connect(context.Background(), result.Host, result.Port)
	if err != nil {
		metrics.ConnectErrorsTotal.WithLabelValues(connectErrorReason(err)).Inc()
		ui.LogStatus("warning", fmt.Sprintf("http tunnel: connect to %s:%d failed: %v", result.Host, result.Port, err))
		return
	}
	defer remote.Close()

	if result.IsConnect {
		if _, err := conn.Write([]byte("HTTP/1.1 200 Connection Established\r\n\r\n")); err != nil {
			return
		}
	} else if len(result.ReqBodyBytes) > 0 {
		if _, err := remote.Write(result.ReqBodyBytes); err != nil {
			return
		}
	}

	stats, err := relay.Bidirectional(conn, remote)
	if err != nil {
		ui.LogStatus("warning", fmt.Sprintf("http tunnel: relay error for %s: %v", conn.RemoteAddr(), err))
	}
	metrics.BytesTotal.WithLabelValues(h.Name(), "up").Add(float64(stats.Up))
	metrics.BytesTotal.WithLabelValues(h.Name(), "down").Add(float64(stats.Down))
	metrics.ConnectionDuration.WithLabelValues(h.Name()).Observe(time.Since(start).Seconds())

	target := fmt.Sprintf("%s:%d", result.Host, result.Port)
	ui.LogRelay(target, conn.RemoteAddr().String(), stats.Up, stats.Down)
}
