package handshake

import (
	"bytes"
	"strings"
	"testing"
)

func TestHTTPDecoderConnect(t *testing.T) {
	var dec HTTPDecoder
	buf := bytes.NewBufferString("CONNECT example.com:443 HTTP/1.1\r\nHost: example.com:443\r\n\r\n")

	result, complete, err := dec.Decode(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !complete {
		t.Fatalf("expected complete decode")
	}
	if !result.IsConnect {
		t.Fatalf("expected IsConnect")
	}
	if result.Host != "example.com" || result.Port != 443 {
		t.Fatalf("got host=%s port=%d", result.Host, result.Port)
	}
	if len(result.ReqBodyBytes) != 0 {
		t.Fatalf("expected no trailing bytes, got %q", result.ReqBodyBytes)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected buffer fully drained, got %d bytes left", buf.Len())
	}
}

func TestHTTPDecoderAbsoluteFormWithBody(t *testing.T) {
	var dec HTTPDecoder
	head := "GET http://example.com/ HTTP/1.1\r\nHost: example.com\r\n\r\n"
	buf := bytes.NewBufferString(head + "trailing-bytes")

	result, complete, err := dec.Decode(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !complete {
		t.Fatalf("expected complete decode")
	}
	if result.IsConnect {
		t.Fatalf("did not expect IsConnect")
	}
	if result.Host != "example.com" || result.Port != 80 {
		t.Fatalf("got host=%s port=%d", result.Host, result.Port)
	}
	if string(result.ReqBodyBytes) != "trailing-bytes" {
		t.Fatalf("got trailing bytes %q", result.ReqBodyBytes)
	}
}

func TestHTTPDecoderIncomplete(t *testing.T) {
	var dec HTTPDecoder
	buf := bytes.NewBufferString("GET / HTTP/1.1\r\nHost: example.com\r\n")

	result, complete, err := dec.Decode(buf)
	if err != nil || complete || result != nil {
		t.Fatalf("expected incomplete with no error, got result=%v complete=%v err=%v", result, complete, err)
	}
}

func TestHTTPDecoderMissingHost(t *testing.T) {
	var dec HTTPDecoder
	buf := bytes.NewBufferString("GET / HTTP/1.1\r\n\r\n")

	_, _, err := dec.Decode(buf)
	if err != ErrMissingHost {
		t.Fatalf("expected ErrMissingHost, got %v", err)
	}
}

func TestHTTPDecoderBadPortEmptyAfterColon(t *testing.T) {
	var dec HTTPDecoder
	buf := bytes.NewBufferString("GET / HTTP/1.1\r\nHost: https-foo.example:\r\n\r\n")

	_, _, err := dec.Decode(buf)
	if err != ErrBadPort {
		t.Fatalf("expected ErrBadPort, got %v", err)
	}
}

func TestHTTPDecoderHeaderTooLarge(t *testing.T) {
	var dec HTTPDecoder
	oversized := "GET / HTTP/1.1\r\nHost: x\r\n" + strings.Repeat("a", MaxHeaderSize)
	buf := bytes.NewBufferString(oversized)

	_, _, err := dec.Decode(buf)
	if err != ErrHeaderTooLarge {
		t.Fatalf("expected ErrHeaderTooLarge, got %v", err)
	}
}

func TestHTTPDecoderHeaderExactlyAtLimitButComplete(t *testing.T) {
	var dec HTTPDecoder
	// Pad an X-Pad header so the full head lands at exactly MaxHeaderSize
	// bytes, with the terminator present: this must still succeed.
	prefix := "GET / HTTP/1.1\r\nHost: example.com\r\nX-Pad: "
	suffix := "\r\n\r\n"
	padLen := MaxHeaderSize - len(prefix) - len(suffix)
	buf := bytes.NewBufferString(prefix + strings.Repeat("a", padLen) + suffix)
	if buf.Len() != MaxHeaderSize {
		t.Fatalf("test setup error: buffer is %d bytes, want %d", buf.Len(), MaxHeaderSize)
	}

	result, complete, err := dec.Decode(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !complete || result == nil {
		t.Fatalf("expected complete decode at exactly MaxHeaderSize")
	}
}
