package handshake

import (
	"bytes"
	"crypto/tls"
	"errors"
	"io"
	"net"
)

const (
	recordHeaderLen     = 5
	recordTypeHandshake = 0x16
)

var (
	ErrNotHandshake = errors.New("not a TLS handshake record")
	ErrNoSNI        = errors.New("client hello carries no server name")
)

// ClientHelloResult is what the TLS decoder hands back once a whole
// ClientHello record has arrived: the SNI server name plus the exact
// record bytes, forwarded to the target byte-for-byte so the real TLS
// handshake between client and target is never touched (spec.md §4.2).
type ClientHelloResult struct {
	ServerName string
	Record     []byte
}

// TLSDecoder frames a single TLS record carrying a ClientHello and
// extracts its SNI extension. Rather than walking the ClientHello's
// extension list by hand, it leans on crypto/tls itself: the record
// bytes are replayed into a tls.Server whose GetConfigForClient callback
// receives the already-parsed *tls.ClientHelloInfo before the (aborted)
// handshake can go any further.
type TLSDecoder struct{}

// Decode waits for a complete 5-byte record header plus its declared
// payload, confirms the record is a handshake record, then recovers the
// SNI name via a throwaway in-process TLS server handshake.
func (TLSDecoder) Decode(buf *bytes.Buffer) (*ClientHelloResult, bool, error) {
	data := buf.Bytes()
	if len(data) < recordHeaderLen {
		return nil, false, nil
	}
	if data[0] != recordTypeHandshake {
		return nil, false, ErrNotHandshake
	}
	payloadLen := int(data[3])<<8 | int(data[4])
	recordLen := recordHeaderLen + payloadLen
	if len(data) < recordLen {
		return nil, false, nil
	}

	record := append([]byte(nil), data[:recordLen]...)
	serverName, err := sniffServerName(record)
	if err != nil {
		return nil, false, err
	}
	if serverName == "" {
		return nil, false, ErrNoSNI
	}

	buf.Next(recordLen)
	return &ClientHelloResult{ServerName: serverName, Record: record}, true, nil
}

// sniffServerName replays record through a tls.Server handshake that is
// guaranteed to abort (the fake conn refuses every write), capturing the
// ClientHelloInfo crypto/tls parses along the way.
func sniffServerName(record []byte) (string, error) {
	var hello *tls.ClientHelloInfo
	cfg := &tls.Config{
		GetConfigForClient: func(info *tls.ClientHelloInfo) (*tls.Config, error) {
			hello = info
			return nil, errAbortHandshake
		},
	}
	conn := tls.Server(sniSniffConn{r: bytes.NewReader(record)}, cfg)
	if err := conn.Handshake(); err != nil && hello == nil {
		return "", err
	}
	if hello == nil {
		return "", ErrNoSNI
	}
	return hello.ServerName, nil
}

var errAbortHandshake = errors.New("handshake aborted after client hello capture")

// sniSniffConn is a net.Conn that only ever reads from r; any write
// fails immediately so the handshake never progresses past ClientHello.
type sniSniffConn struct {
	r io.Reader
	net.Conn
}

func (c sniSniffConn) Read(p []byte) (int, error) { return c.r.Read(p) }
func (sniSniffConn) Write(p []byte) (int, error)  { return 0, io.EOF }
func (sniSniffConn) Close() error                 { return nil }
