package tunnel

import (
	"errors"

	"tunnelproxy/internal/connector"
	"tunnelproxy/internal/resolver"
)

// connectErrorReason maps a connector error to a short metrics label
// (spec.md's ConnectTimeout/ConnectRefused/NetworkUnreachable taxonomy).
func connectErrorReason(err error) string {
	switch {
	case errors.Is(err, connector.ErrConnectTimeout):
		return "timeout"
	case errors.Is(err, resolver.ErrAddrNotAvailable):
		return "addr_not_available"
	case errors.Is(err, resolver.ErrResolveFailed):
		return "resolve_failed"
	case errors.Is(err, connector.ErrConnectFailed):
		return "refused_or_unreachable"
	default:
		return "other"
	}
}
