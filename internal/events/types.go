// Package events carries the detection pipeline's externally visible
// occurrences — a source crossing the SYN threshold, a block installed or
// lifted, a whitelist short-circuit — out to whatever is listening (today,
// structured logging; the Sink interface leaves room for more).
package events

import (
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
)

// Kind identifies the occurrence an Event describes.
type Kind string

const (
	KindSuspicious  Kind = "suspicious"
	KindBlocked     Kind = "blocked"
	KindUnblocked   Kind = "unblocked"
	KindWhitelisted Kind = "whitelisted"
)

// Event is a single occurrence raised by the detection pipeline or sweeper.
// SynCount and HalfOpen are only meaningful for Suspicious and Blocked.
type Event struct {
	Kind      Kind
	Addr      addr.Addr
	SynCount  uint32
	HalfOpen  uint32
	Timestamp uint64 // process-monotonic nanoseconds, see internal/clock
}

// Suspicious reports a source whose SYN count crossed the threshold but
// whose half-open confirmation did not justify a block.
func Suspicious(a addr.Addr, synCount, halfOpen uint32, ts uint64) Event {
	return Event{Kind: KindSuspicious, Addr: a, SynCount: synCount, HalfOpen: halfOpen, Timestamp: ts}
}

// Blocked reports a source for which a kernel block was installed.
func Blocked(a addr.Addr, synCount, halfOpen uint32, ts uint64) Event {
	return Event{Kind: KindBlocked, Addr: a, SynCount: synCount, HalfOpen: halfOpen, Timestamp: ts}
}

// Unblocked reports a source whose block expired and was removed.
func Unblocked(a addr.Addr, ts uint64) Event {
	return Event{Kind: KindUnblocked, Addr: a, Timestamp: ts}
}

// Whitelisted reports a source that short-circuited tracking via the
// whitelist.
func Whitelisted(a addr.Addr, ts uint64) Event {
	return Event{Kind: KindWhitelisted, Addr: a, Timestamp: ts}
}
