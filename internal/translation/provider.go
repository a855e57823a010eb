// Package translation talks to the external translation provider and
// implements the bounded-retry policy around it.
package translation

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// Provider is the external translation capability. Implementations
// translate a single text fragment for a fixed language pair.
type Provider interface {
	Translate(ctx context.Context, text string) (string, error)
}

// IsUnreachable reports whether an error belongs to the network-down
// class (DNS failure, dial failure, unreachable host). These suspend
// the retry loop into a connectivity wait instead of a fixed delay.
func IsUnreachable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
