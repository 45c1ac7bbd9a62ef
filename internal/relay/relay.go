// Package relay implements spec.md's C5: the bidirectional byte pump
// that runs once a tunnel has picked its target and completed whatever
// preamble that tunnel kind requires.
package relay

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"syscall"
)

const bufferSize = 32 * 1024

// halfCloser is implemented by *net.TCPConn: it lets one direction of a
// relay signal EOF to its peer without tearing down the whole socket,
// so the other direction can keep draining whatever is still in flight.
type halfCloser interface {
	CloseWrite() error
}

// Stats reports how many bytes moved in each direction once a relay
// finishes.
type Stats struct {
	Up   int64
	Down int64
}

// Bidirectional pumps bytes between client and remote in both directions
// until both legs have drained, then returns. A connection reset or
// broken pipe on either leg is treated as a clean end of relay rather
// than a failure: that's simply what a hung-up peer looks like on the
// wire.
func Bidirectional(client, remote net.Conn) (Stats, error) {
	var stats Stats
	var upErr, downErr error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		stats.Up, upErr = relayHalf(remote, client)
	}()
	go func() {
		defer wg.Done()
		stats.Down, downErr = relayHalf(client, remote)
	}()

	wg.Wait()

	if err := firstRealError(upErr, downErr); err != nil {
		return stats, err
	}
	return stats, nil
}

// relayHalf copies from src to dst until src hits EOF or a read/write
// error, then half-closes dst's write side so the far end sees EOF
// instead of blocking on a connection that will never send more.
func relayHalf(dst, src net.Conn) (int64, error) {
	n, err := io.CopyBuffer(dst, src, make([]byte, bufferSize))
	if hc, ok := dst.(halfCloser); ok {
		_ = hc.CloseWrite()
	} else {
		_ = dst.Close()
	}
	return n, err
}

func firstRealError(errs ...error) error {
	for _, err := range errs {
		if err == nil || errors.Is(err, io.EOF) || isBenignClose(err) {
			continue
		}
		return err
	}
	return nil
}

// isBenignClose reports whether err is the kind of reset/broken-pipe
// error that just means a peer hung up, not a relay failure.
func isBenignClose(err error) bool {
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection reset by peer") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "use of closed network connection")
}
