// Package config holds the typed configuration snapshot the core consumes:
// its shape and validation rules, the Loader interface the supervisor
// reloads through, and FileLoader, a minimal `key = value` file parser.
package config

import (
	"time"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/xerrors"
)

// Snapshot is the immutable configuration the detection pipeline, tracker
// and sweeper read. A reload replaces the whole snapshot atomically.
type Snapshot struct {
	SynThreshold    uint32
	WindowMS        uint32
	BlockDurationS  uint32
	MaxTrackedIPs   uint32
	HashBuckets     uint32
	SweepIntervalS  uint32
	AddressSetName  string
	// WhitelistPath points at the CIDR list consulted before the tracker.
	// Empty means no whitelist: every address is tracked.
	WhitelistPath string
}

// WindowDuration returns WindowMS as a time.Duration.
func (s Snapshot) WindowDuration() time.Duration {
	return time.Duration(s.WindowMS) * time.Millisecond
}

// WindowNanos returns the window length in the monotonic-ns domain the
// tracker compares against.
func (s Snapshot) WindowNanos() uint64 {
	return uint64(s.WindowMS) * uint64(time.Millisecond)
}

// BlockDuration returns BlockDurationS as a time.Duration.
func (s Snapshot) BlockDuration() time.Duration {
	return time.Duration(s.BlockDurationS) * time.Second
}

// BlockDurationNanos returns the block TTL in the monotonic-ns domain.
func (s Snapshot) BlockDurationNanos() uint64 {
	return uint64(s.BlockDurationS) * uint64(time.Second)
}

// SweepInterval returns SweepIntervalS as a time.Duration.
func (s Snapshot) SweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalS) * time.Second
}

// Upper bounds on the tunables below a bare "strictly positive" check
// would still accept; §3 only states the lower bound, but an operator
// typo (an extra zero on syn_threshold, a window in milliseconds entered
// as seconds) should fail validation rather than silently run.
const (
	maxSynThreshold   = 1000000
	maxWindowMS       = 60000
	maxBlockDurationS = 86400
	maxSweepIntervalS = 3600
	maxTrackedIPsCap  = 10000000
)

// Validate enforces the invariants §3 places on the configuration
// snapshot, plus upper bounds on each tunable to catch operator typos.
// hash_buckets must additionally be a power of two.
func (s Snapshot) Validate() error {
	if s.SynThreshold == 0 || s.SynThreshold > maxSynThreshold {
		return xerrors.New(xerrors.KindValidation, "syn_threshold must be between 1 and 1000000")
	}
	if s.WindowMS == 0 || s.WindowMS > maxWindowMS {
		return xerrors.New(xerrors.KindValidation, "window_ms must be between 1 and 60000")
	}
	if s.BlockDurationS == 0 || s.BlockDurationS > maxBlockDurationS {
		return xerrors.New(xerrors.KindValidation, "block_duration_s must be between 1 and 86400")
	}
	if s.MaxTrackedIPs == 0 || s.MaxTrackedIPs > maxTrackedIPsCap {
		return xerrors.New(xerrors.KindValidation, "max_tracked_ips must be between 1 and 10000000")
	}
	if s.HashBuckets == 0 {
		return xerrors.New(xerrors.KindValidation, "hash_buckets must be strictly positive")
	}
	if s.HashBuckets&(s.HashBuckets-1) != 0 {
		return xerrors.New(xerrors.KindValidation, "hash_buckets must be a power of two")
	}
	if s.SweepIntervalS == 0 || s.SweepIntervalS > maxSweepIntervalS {
		return xerrors.New(xerrors.KindValidation, "sweep_interval_s must be between 1 and 3600")
	}
	if s.AddressSetName == "" {
		return xerrors.New(xerrors.KindValidation, "address_set_name must not be empty")
	}
	return nil
}

// Default returns a Snapshot matching the example scenarios in spec §8
// (T=100, W=1000ms, B=300s, max_tracked=10000, hash_buckets=1024).
func Default() Snapshot {
	return Snapshot{
		SynThreshold:   100,
		WindowMS:       1000,
		BlockDurationS: 300,
		MaxTrackedIPs:  10000,
		HashBuckets:    1024,
		SweepIntervalS: 5,
		AddressSetName: "synguard-blocked",
		WhitelistPath:  "",
	}
}
