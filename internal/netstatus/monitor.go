// Package netstatus tells whether the sync service is reachable. Results are
// cached for a TTL and refreshed in the background so page renders never
// wait on the network.
package netstatus

import (
	"context"
	"sync"
	"time"
)

// Prober checks connectivity. A nil error means online.
type Prober interface {
	Ping(ctx context.Context) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) error

func (f ProberFunc) Ping(ctx context.Context) error { return f(ctx) }

// Status is the last known connectivity.
type Status struct {
	Online    bool
	CheckedAt time.Time
}

// Monitor caches the outcome of a Prober. Reads never wait on the network;
// an expired result is refreshed in the background.
type Monitor struct {
	prober  Prober
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	mu         sync.Mutex
	last       Status
	expiresAt  time.Time
	refreshing bool
	seq        uint64
}

// NewMonitor wraps prober. ttl is how long a result is reused before checking
// again. Until the first check completes the service is assumed reachable.
func NewMonitor(prober Prober, ttl time.Duration) *Monitor {
	return &Monitor{
		prober:  prober,
		ttl:     ttl,
		timeout: 3 * time.Second,
		now:     time.Now,
		last:    Status{Online: true},
	}
}

// Status returns the last known status. When it has expired, one background
// check is started and the stale value is returned meanwhile.
func (m *Monitor) Status(ctx context.Context) Status {
	m.mu.Lock()
	st := m.last
	if m.refreshing || m.now().Before(m.expiresAt) {
		m.mu.Unlock()
		return st
	}
	m.refreshing = true
	m.mu.Unlock()

	go m.Check(context.WithoutCancel(ctx))
	return st
}

// Online is shorthand for Status(ctx).Online.
func (m *Monitor) Online(ctx context.Context) bool {
	return m.Status(ctx).Online
}

// Check pings now and records the outcome, unless a Report arrived while the
// ping was in flight.
func (m *Monitor) Check(ctx context.Context) Status {
	m.mu.Lock()
	seq := m.seq
	m.mu.Unlock()

	pctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	err := m.prober.Ping(pctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshing = false
	if m.seq != seq {
		return m.last
	}
	return m.record(err)
}

// Report records the outcome of a request made elsewhere, such as a sync.
func (m *Monitor) Report(err error) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record(err)
}

func (m *Monitor) record(err error) Status {
	now := m.now()
	m.seq++
	m.last = Status{Online: err == nil, CheckedAt: now}
	m.expiresAt = now.Add(m.ttl)
	return m.last
}

// Invalidate makes the next Status call start a fresh check.
func (m *Monitor) Invalidate() {
	m.mu.Lock()
	m.expiresAt = time.Time{}
	m.mu.Unlock()
}
