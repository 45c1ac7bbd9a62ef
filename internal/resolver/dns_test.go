package resolver

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestResolveIPv4LiteralBypassesLookup(t *testing.T) {
	r := New(nil)
	r.lookup = func(ctx context.Context, host string) ([]net.IP, error) {
		t.Fatalf("lookup should not be called for an IP literal")
		return nil, nil
	}

	ip, err := r.Resolve(context.Background(), "127.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ip.Equal(net.ParseIP("127.0.0.1")) {
		t.Fatalf("got %v", ip)
	}
}

func TestResolveCachesWithinTTL(t *testing.T) {
	ttl := 10 * time.Second
	r := New(&ttl)
	calls := 0
	r.lookup = func(ctx context.Context, host string) ([]net.IP, error) {
		calls++
		return []net.IP{net.ParseIP("10.0.0.1")}, nil
	}

	for i := 0; i < 3; i++ {
		ip, err := r.Resolve(context.Background(), "example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ip.Equal(net.ParseIP("10.0.0.1")) {
			t.Fatalf("got %v", ip)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 underlying lookup, got %d", calls)
	}
}

func TestResolveWithoutTTLNeverCaches(t *testing.T) {
	r := New(nil)
	calls := 0
	r.lookup = func(ctx context.Context, host string) ([]net.IP, error) {
		calls++
		return []net.IP{net.ParseIP("10.0.0.1")}, nil
	}

	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(context.Background(), "example.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 3 {
		t.Fatalf("expected 3 underlying lookups with no caching, got %d", calls)
	}
}

func TestResolveAddrNotAvailable(t *testing.T) {
	r := New(nil)
	r.lookup = func(ctx context.Context, host string) ([]net.IP, error) {
		return nil, nil
	}

	_, err := r.Resolve(context.Background(), "empty.example")
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestResolveFailurePropagates(t *testing.T) {
	r := New(nil)
	r.lookup = func(ctx context.Context, host string) ([]net.IP, error) {
		return nil, &net.DNSError{Err: "no such host", Name: host}
	}

	_, err := r.Resolve(context.Background(), "broken.example")
	if err == nil {
		t.Fatalf("expected an error")
	}
}
