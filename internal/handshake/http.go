package handshake

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// MaxHeaderSize bounds an HTTP request head: if the buffer grows this
// large while the terminating blank line still hasn't shown up, decode
// fails with ErrHeaderTooLarge (spec.md §4.1).
const MaxHeaderSize = 1048575

var (
	ErrHeaderTooLarge = errors.New("header too large")
	ErrMissingHost    = errors.New("missing host")
	ErrBadPort        = errors.New("bad port")
)

// HandshakeResult is what the HTTP decoder hands back once a full
// request head has arrived: the dial target, whether this was a CONNECT
// tunnel request, and whatever bytes were already buffered past the
// header terminator (the start of the request body, or a pipelined
// second request).
type HandshakeResult struct {
	IsConnect    bool
	Host         string
	Port         uint16
	Method       string
	HeaderLen    int
	ReqBodyBytes []byte
}

// HTTPDecoder frames HTTP/1.x forward-proxy request heads: CONNECT
// tunnels and absolute-form requests alike (spec.md §4.1). It holds no
// state between Decode calls; buf carries the only state.
type HTTPDecoder struct{}

// Decode scans buf for the request head's terminating blank line. It
// delegates actual request-line and header parsing to net/http, which
// already knows how to special-case the CONNECT authority-form target.
func (HTTPDecoder) Decode(buf *bytes.Buffer) (*HandshakeResult, bool, error) {
	data := buf.Bytes()
	idx := bytes.Index(data, []byte("\r\n\r\n"))
	if idx < 0 {
		if buf.Len() >= MaxHeaderSize {
			return nil, false, ErrHeaderTooLarge
		}
		return nil, false, nil
	}
	headerLen := idx + 4
	head := data[:headerLen]

	req, err := http.ReadRequest(bufio.NewReader(bytes.NewReader(head)))
	if err != nil {
		return nil, false, fmt.Errorf("parsing request head: %w", err)
	}

	hostPort := req.Host
	if hostPort == "" {
		return nil, false, ErrMissingHost
	}

	host, port, err := extractHostPort(hostPort)
	if err != nil {
		return nil, false, err
	}

	result := &HandshakeResult{
		IsConnect:    strings.EqualFold(req.Method, http.MethodConnect),
		Host:         host,
		Port:         port,
		Method:       req.Method,
		HeaderLen:    headerLen,
		ReqBodyBytes: append([]byte(nil), data[headerLen:]...),
	}
	buf.Next(buf.Len())
	return result, true, nil
}

// extractHostPort splits a Host header (or CONNECT authority target)
// into host and port. Per spec.md §4.1 the port default keys off a
// literal "https" prefix on the host string — almost never true for a
// real hostname, carried forward verbatim rather than "fixed" (see
// DESIGN.md). An explicit port that fails to parse as a uint16 is
// BadPort even if it's merely empty after a trailing colon.
func extractHostPort(hostPort string) (string, uint16, error) {
	parts := strings.SplitN(hostPort, ":", 2)
	host := parts[0]
	if len(parts) == 1 {
		if strings.HasPrefix(host, "https") {
			return host, 443, nil
		}
		return host, 80, nil
	}
	port, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return "", 0, ErrBadPort
	}
	return host, uint16(port), nil
}
