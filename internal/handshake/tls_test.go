package handshake

import (
	"bytes"
	"crypto/tls"
	"io"
	"net"
	"testing"
)

// clientHelloRecord drives a real crypto/tls client handshake over a
// net.Pipe far enough to capture the wire bytes of its ClientHello
// record, then aborts the handshake by closing the pipe.
func clientHelloRecord(t *testing.T, sni string) []byte {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = tls.Client(clientConn, &tls.Config{ServerName: sni, InsecureSkipVerify: true}).Handshake()
	}()

	header := make([]byte, recordHeaderLen)
	if _, err := io.ReadFull(serverConn, header); err != nil {
		t.Fatalf("reading record header: %v", err)
	}
	payloadLen := int(header[3])<<8 | int(header[4])
	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(serverConn, payload); err != nil {
		t.Fatalf("reading record payload: %v", err)
	}
	serverConn.Close()
	clientConn.Close()
	<-done

	return append(header, payload...)
}

func TestTLSDecoderExtractsSNI(t *testing.T) {
	var dec TLSDecoder
	record := clientHelloRecord(t, "example.com")
	buf := bytes.NewBuffer(record)

	result, complete, err := dec.Decode(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !complete {
		t.Fatalf("expected complete decode")
	}
	if result.ServerName != "example.com" {
		t.Fatalf("got server name %q", result.ServerName)
	}
	if !bytes.Equal(result.Record, record) {
		t.Fatalf("record bytes not forwarded verbatim")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected buffer fully drained, got %d bytes left", buf.Len())
	}
}

func TestTLSDecoderIncompleteHeader(t *testing.T) {
	var dec TLSDecoder
	buf := bytes.NewBuffer([]byte{0x16, 0x03, 0x01})

	result, complete, err := dec.Decode(buf)
	if err != nil || complete || result != nil {
		t.Fatalf("expected incomplete with no error, got result=%v complete=%v err=%v", result, complete, err)
	}
}

func TestTLSDecoderIncompletePayload(t *testing.T) {
	var dec TLSDecoder
	record := clientHelloRecord(t, "example.com")
	buf := bytes.NewBuffer(record[:len(record)-1])

	result, complete, err := dec.Decode(buf)
	if err != nil || complete || result != nil {
		t.Fatalf("expected incomplete with no error, got result=%v complete=%v err=%v", result, complete, err)
	}
}

func TestTLSDecoderNotHandshake(t *testing.T) {
	var dec TLSDecoder
	buf := bytes.NewBuffer([]byte{0x17, 0x03, 0x03, 0x00, 0x05, 1, 2, 3, 4, 5})

	_, _, err := dec.Decode(buf)
	if err != ErrNotHandshake {
		t.Fatalf("expected ErrNotHandshake, got %v", err)
	}
}
