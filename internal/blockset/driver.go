// Package blockset manages a kernel-resident, TTL-capable set of blocked
// IPv4 addresses — the enforcement surface the detection pipeline and
// sweeper mutate. See spec §4.5.
package blockset

import "github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"

// Driver manages a named kernel address set. All operations serialize
// internally; callers may invoke from any goroutine. Init is idempotent:
// calling it against an already-present set is a no-op success. Shutdown
// releases driver resources but never deletes the set, so installed blocks
// survive a daemon restart.
type Driver interface {
	Init(name string, defaultTTLSeconds, maxElements uint32) error
	Add(a addr.Addr, ttlSeconds uint32) error
	Remove(a addr.Addr) error
	Test(a addr.Addr) (bool, error)
	Flush() error
	Count() (uint32, error)
	Shutdown() error
}
