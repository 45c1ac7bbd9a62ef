// Package handshake implements the zero-copy framed decoders spec.md
// calls C1 (HTTP forward-proxy request heads) and C2 (TLS ClientHello /
// SNI), plus the shared streaming-framer loop both run under.
package handshake

import (
	"bytes"
	"io"
)

// Decoder is a pure state machine over a growing buffer, mirroring
// spec.md §9's "decoder as streaming framer": it owns no transport of
// its own. Decode returns (zero, false, nil) to request more bytes,
// (zero, false, err) on a permanent framing failure, or (result, true,
// nil) once one complete frame has been recognized — in which case
// Decode has already drained every byte of buf it consumed.
type Decoder[T any] interface {
	Decode(buf *bytes.Buffer) (result T, complete bool, err error)
}

// ReadFramed repeatedly reads from r into buf and invokes dec.Decode
// until a complete frame is produced, a decode error occurs, or the
// underlying read fails (including io.EOF, surfaced to the caller
// unchanged). readSize bounds how much is read per underlying Read call;
// it has no bearing on correctness, only on syscall/allocation count.
func ReadFramed[T any](r io.Reader, dec Decoder[T], buf *bytes.Buffer, readSize int) (T, error) {
	var zero T
	chunk := make([]byte, readSize)
	for {
		result, complete, err := dec.Decode(buf)
		if err != nil {
			return zero, err
		}
		if complete {
			return result, nil
		}
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err != nil {
			return zero, err
		}
	}
}
