// Package kernelstate implements the confirmation check the detection
// pipeline runs before trusting a threshold breach: how many kernel TCP
// sockets for this host are currently half-open (received SYN, sent
// SYN-ACK, awaiting the final ACK). See spec §4.4.
package kernelstate

import "github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"

// Probe counts half-open TCP sockets, optionally filtered to a single peer
// address. Implementations must translate whatever byte order the
// underlying inspection surface uses into addr.Addr's canonical domain —
// spec §9 flags a prior implementation that used two different
// translations for the total-count and filter-by-address paths; this
// interface only has one code path, so that bug class can't recur.
type Probe interface {
	CountHalfOpen(filter *addr.Addr) (uint32, error)
}
