package connectivity

import (
	"context"
	"net"
	"time"

	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/logger"
)

// DefaultProbeTimeout bounds a single dial.
const DefaultProbeTimeout = 5 * time.Second

// dialFunc matches net.Dialer.DialContext.
type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Prober derives connectivity from whether a TCP address can be dialled.
type Prober struct {
	*Monitor

	address  string
	interval time.Duration
	timeout  time.Duration
	dial     dialFunc
}

// NewProber creates a prober for address, checked every interval.
// The state is unknown until the first probe.
func NewProber(address string, interval time.Duration) *Prober {
	d := &net.Dialer{}
	return &Prober{
		Monitor:  NewMonitor(domain.ConnectivityUnknown),
		address:  address,
		interval: interval,
		timeout:  DefaultProbeTimeout,
		dial:     d.DialContext,
	}
}

// Probe dials once and returns the resulting state without recording it.
func (p *Prober) Probe(ctx context.Context) domain.ConnectivityState {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dial(ctx, "tcp", p.address)
	if err != nil {
		logger.Debug("connectivity: probe %s: %v", p.address, err)
		return domain.ConnectivityUnavailable
	}
	_ = conn.Close()
	return domain.ConnectivityAvailable
}

// Run probes immediately and then every interval until ctx is done.
func (p *Prober) Run(ctx context.Context) error {
	p.update(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.update(ctx)
		}
	}
}

func (p *Prober) update(ctx context.Context) {
	state := p.Probe(ctx)
	if ctx.Err() != nil {
		return
	}
	if p.Set(state) {
		logger.Info("connectivity: %s", state)
	}
}
