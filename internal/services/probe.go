package services

import (
	"context"
	"net"
	"sync"
	"time"
)

const defaultProbeTimeout = 2 * time.Second

// NetworkProbe reports whether the hymnal API host is reachable by dialing it over TCP.
//
// Results are reused for the configured interval so the check stays cheap enough to call before every lookup.
type NetworkProbe struct {
	address  string
	interval time.Duration
	timeout  time.Duration
	dial     func(ctx context.Context, network, address string) (net.Conn, error)
	now      func() time.Time

	mu        sync.Mutex
	checkedAt time.Time
	available bool
	checked   bool
	dialing   bool
}

// NewNetworkProbe creates a probe for address ("host:port"). An empty address is always reported as available.
func NewNetworkProbe(address string, interval time.Duration) *NetworkProbe {
	var d net.Dialer
	return &NetworkProbe{
		address:  address,
		interval: interval,
		timeout:  defaultProbeTimeout,
		dial:     d.DialContext,
		now:      time.Now,
	}
}

// IsNetworkAvailable reports the last probe result, dialing again once the interval has passed.
//
// The dial runs without holding the lock. While one caller is dialing, others get the previous result instead of waiting.
func (p *NetworkProbe) IsNetworkAvailable() bool {
	if p.address == "" {
		return true
	}

	p.mu.Lock()
	now := p.now()
	if p.checked && (p.dialing || now.Sub(p.checkedAt) < p.interval) {
		available := p.available
		p.mu.Unlock()
		return available
	}
	p.dialing = true
	p.mu.Unlock()

	available := p.reachable()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialing = false
	p.available = available
	p.checked = true
	p.checkedAt = now
	return available
}

func (p *NetworkProbe) reachable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	conn, err := p.dial(ctx, "tcp", p.address)
	if conn != nil {
		conn.Close()
	}
	return err == nil
}
