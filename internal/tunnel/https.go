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

// httpsPort is always used as the target port for SNI-routed
// connections: spec.md §4.6 scopes this tunnel to plain TLS passthrough
// on the conventional HTTPS port, never re-deriving a port from the
// ClientHello (TLS carries none).
const httpsPort = 443

// httpsHandler implements the HTTPS/SNI-sniffing passthrough tunnel: it
// reads one TLS ClientHello record, dials the name it carries, forwards
// the record byte-for-byte, and relays everything after that untouched.
type httpsHandler struct {
	listenAddr string
	connector  *connector.Connector
	// targetPort defaults to httpsPort; tests override it to dial a
	// non-privileged mock target.
	targetPort uint16
}

// NewHTTPS builds the HTTPS/SNI tunnel handler (spec.md §4.6).
func NewHTTPS(listenAddr string, c *connector.Connector) Handler {
	return &httpsHandler{listenAddr: listenAddr, connector: c, targetPort: httpsPort}
}

func (h *httpsHandler) Name() string       { return "https" }
func (h *httpsHandler) ListenAddr() string { return h.listenAddr }

func (h *httpsHandler) HandleConn(conn net.Conn) {
	defer conn.Close()
	metrics.ConnectionsTotal.WithLabelValues(h.Name()).Inc()
	metrics.ActiveConnections.WithLabelValues(h.Name()).Inc()
	defer metrics.ActiveConnections.WithLabelValues(h.Name()).Dec()
	start := time.Now()

	var dec handshake.TLSDecoder
	buf := new(bytes.Buffer)
	hello, err := handshake.ReadFramed[*handshake.ClientHelloResult](conn, dec, buf, framerReadSize)
	if err != nil {
		metrics.DecodeErrorsTotal.WithLabelValues(h.Name()).Inc()
		ui.LogStatus("warning", fmt.Sprintf("https tunnel: client hello decode failed from %s: %v", conn.RemoteAddr(), err))
		return
	}

	remote, err := h.connector.Connect(context.Background(), hello.ServerName, h.targetPort)
	if err != nil {
		metrics.ConnectErrorsTotal.WithLabelValues(connectErrorReason(err)).Inc()
		ui.LogStatus("warning", fmt.Sprintf("https tunnel: connect to %s:%d failed: %v", hello.ServerName, h.targetPort, err))
		return
	}
	defer remote.Close()

	if _, err := remote.Write(hello.Record); err != nil {
		return
	}
	if buf.Len() > 0 {
		if _, err := remote.Write(buf.Bytes()); err != nil {
			return
		}
	}

	stats, err := relay.Bidirectional(conn, remote)
	if err != nil {
		ui.LogStatus("warning", fmt.Sprintf("https tunnel: relay error for %s: %v", conn.RemoteAddr(), err))
	}
	metrics.BytesTotal.WithLabelValues(h.Name(), "up").Add(float64(stats.Up))
	metrics.BytesTotal.WithLabelValues(h.Name(), "down").Add(float64(stats.Down))
	metrics.ConnectionDuration.WithLabelValues(h.Name()).Observe(time.Since(start).Seconds())

	ui.LogRelay(hello.ServerName, conn.RemoteAddr().String(), stats.Up, stats.Down)
}
