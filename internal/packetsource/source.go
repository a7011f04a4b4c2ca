// Package packetsource produces the lazy (addr, arrival_time) stream the
// detection pipeline consumes, from one of two interchangeable ingestion
// paths: a kernel packet queue the operator has redirected SYNs into
// (primary), or a BPF-filtered raw link-layer read (fallback). See
// spec §4.8.
package packetsource

import (
	"context"
	"time"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
)

// serviceInterval is how often (in packets) the source pauses to let the
// caller service pending supervisor signal intents, per spec §4.8's "N
// around 1,000".
const serviceInterval = 1000

// Handler is invoked once per recognized bare-SYN frame, with the parsed
// source address and the arrival time stamped in the shared clock domain.
type Handler func(a addr.Addr, arrival uint64)

// Source is the common contract both ingestion paths satisfy. Run blocks
// until ctx is cancelled or an unrecoverable error occurs; it must return
// promptly once its underlying endpoint is closed. ServiceIntents is called
// periodically from within Run, on the same goroutine, so the supervisor
// sees signal-derived shutdown/reload requests without a dedicated poller.
type Source interface {
	Run(ctx context.Context, handle Handler, serviceIntents func()) error
	Close() error
}

// Config parametrizes either ingestion path; only the fields the selected
// path needs are consulted.
type Config struct {
	// QueueNum is the NFQUEUE number the primary path attaches to.
	QueueNum uint16
	// Interface is the link the fallback path binds to.
	Interface string
	// WriteTimeout bounds how long a verdict write may block before the
	// primary path gives up on a single packet (it does not retry).
	WriteTimeout time.Duration
}
