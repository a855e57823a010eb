// Package connectivity gates retry resumption after network-unreachable
// translation failures.
package connectivity

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog/log"
)

// Probe checks reachability of a well-known endpoint by TCP dial.
type Probe struct {
	addr    string
	timeout time.Duration
}

// NewProbe creates a probe against addr (host:port).
func NewProbe(addr string, timeout time.Duration) *Probe {
	return &Probe{addr: addr, timeout: timeout}
}

// Online reports whether the probe endpoint is currently reachable.
func (p *Probe) Online() bool {
	conn, err := net.DialTimeout("tcp", p.addr, p.timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// WaitOnline blocks until the endpoint is reachable, polling at the
// given interval. Returns early only on context cancellation.
func (p *Probe) WaitOnline(ctx context.Context, interval time.Duration) error {
	if p.Online() {
		return nil
	}

	log.Warn().Str("addr", p.addr).Msg("Network unreachable, waiting for connection")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if p.Online() {
				log.Info().Msg("Network connection restored, resuming")
				return nil
			}
		}
	}
}
