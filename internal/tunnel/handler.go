// Package tunnel implements spec.md's C6: the three tunnel strategies
// (HTTP forward-proxy, HTTPS/SNI passthrough, static TCP relay), all
// sharing one capability shape so C7's supervisor can drive any of them
// identically.
package tunnel

import "net"

// Handler is the capability every tunnel strategy implements: where to
// listen, and what to do with an accepted connection. Grounded in
// _examples/original_source/src/connection_handle.rs's TunnelHandler
// trait (Name/ListenAddr/HandleConn), translated to a plain Go
// interface rather than a trait object.
type Handler interface {
	// Name identifies the tunnel kind in logs and metrics labels.
	Name() string
	// ListenAddr is the address (host:port) this handler should be
	// bound to.
	ListenAddr() string
	// HandleConn takes ownership of conn: it must close it (directly or
	// via the relay) before returning.
	HandleConn(conn net.Conn)
}
