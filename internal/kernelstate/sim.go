package kernelstate

import (
	"sync"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
)

// SimProbe is a deterministic, platform-independent Probe used by detection
// pipeline and sweeper tests that need to drive specific half-open counts
// (e.g. the worked scenarios in spec §8) without a real kernel socket table.
type SimProbe struct {
	mu      sync.Mutex
	total   uint32
	perAddr map[addr.Addr]uint32
	calls   int
}

// NewSimProbe creates a SimProbe reporting total as the unfiltered count.
// Per-address overrides can be set with SetFor.
func NewSimProbe(total uint32) *SimProbe {
	return &SimProbe{total: total, perAddr: make(map[addr.Addr]uint32)}
}

// SetTotal changes the unfiltered half-open count returned for filter == nil.
func (p *SimProbe) SetTotal(total uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

// SetFor overrides the count returned when filtered to a specific address.
// Addresses with no override fall back to 0, matching a real probe's
// behavior when a peer holds no half-open sockets.
func (p *SimProbe) SetFor(a addr.Addr, count uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.perAddr[a] = count
}

// CountHalfOpen implements Probe.
func (p *SimProbe) CountHalfOpen(filter *addr.Addr) (uint32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if filter == nil {
		return p.total, nil
	}
	return p.perAddr[*filter], nil
}

// Calls reports how many times CountHalfOpen has been invoked, useful for
// asserting the pipeline only confirms via the probe when it needs to.
func (p *SimProbe) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
