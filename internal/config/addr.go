package config

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitHostPort splits addr at its final colon into (host, port), the
// way spec.md §4.6 requires for a static TCP tunnel's remote_addr: any
// string ending in ":<port>", where everything before the last colon is
// the host (IPv4 literal or DNS name). Unlike net.SplitHostPort it gives
// brackets no special meaning and accepts a host that itself contains
// colons, matching the spec's looser "rsplit on the final colon" contract.
func SplitHostPort(addr string) (host string, port uint16, err error) {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return "", 0, fmt.Errorf("invalid remote_addr %q: missing port", addr)
	}
	host = addr[:idx]
	portStr := addr[idx+1:]
	p, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, fmt.Errorf("invalid remote_addr %q: bad port: %w", addr, err)
	}
	return host, uint16(p), nil
}
