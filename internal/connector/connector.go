// Package connector implements spec.md's C4: a single-shot outbound TCP
// dialer bounded by a connect timeout, with no retry-on-failure.
package connector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"tunnelproxy/internal/resolver"
)

var (
	// ErrConnectTimeout is returned when the dial does not complete
	// within the configured connect_timeout.
	ErrConnectTimeout = errors.New("connect timeout")
	// ErrConnectFailed wraps any other dial failure (connection refused,
	// network unreachable, and so on); the underlying net.OpError is
	// preserved via %w for callers that want to inspect it further.
	ErrConnectFailed = errors.New("connect failed")
)

// Connector dials exactly once per call: it never retries a failed
// attempt, per spec.md §4.4 ("picks exactly once").
type Connector struct {
	resolver       *resolver.Resolver
	connectTimeout time.Duration
	dialer         net.Dialer
}

// New builds a Connector that resolves through r and bounds every dial
// attempt by connectTimeout.
func New(r *resolver.Resolver, connectTimeout time.Duration) *Connector {
	return &Connector{
		resolver:       r,
		connectTimeout: connectTimeout,
	}
}

// Connect resolves host, dials it on port under the configured
// connect_timeout, and enables TCP_NODELAY on the resulting socket so
// relayed bytes aren't held up by Nagle's algorithm.
func (c *Connector) Connect(ctx context.Context, host string, port uint16) (net.Conn, error) {
	ip, err := c.resolver.Resolve(ctx, host)
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	addr := net.JoinHostPort(ip.String(), fmt.Sprintf("%d", port))
	conn, err := c.dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		if dialCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %s: %v", ErrConnectTimeout, addr, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConnectFailed, addr, err)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	return conn, nil
}
