// Package detection implements the per-packet orchestration that decides
// whether a source address is merely chatty, suspicious, or confirmed under
// attack. See spec §4.6.
package detection

import (
	"sync/atomic"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/blockset"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/config"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/events"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/kernelstate"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/logging"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/metrics"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/tracker"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/whitelist"
)

// Pipeline wires the tracker, whitelist, kernel-state probe, block-set
// driver, metrics and event dispatcher into the single on_syn decision
// sequence. Whitelist and config are held behind atomic pointers so a
// supervisor reload can swap either without a lock the pipeline's hot path
// would contend on.
type Pipeline struct {
	tracker    *tracker.Table
	probe      kernelstate.Probe
	blocks     blockset.Driver
	metrics    *metrics.Metrics
	dispatcher *events.Dispatcher
	log        *logging.Logger

	whitelist atomic.Pointer[whitelist.Tree]
	config    atomic.Pointer[config.Snapshot]
}

// New creates a Pipeline. The initial whitelist and config must be set via
// SetWhitelist/SetConfig before the first OnSyn call.
func New(t *tracker.Table, probe kernelstate.Probe, blocks blockset.Driver, m *metrics.Metrics, d *events.Dispatcher, log *logging.Logger) *Pipeline {
	return &Pipeline{
		tracker:    t,
		probe:      probe,
		blocks:     blocks,
		metrics:    m,
		dispatcher: d,
		log:        log.WithComponent("detection"),
	}
}

// SetWhitelist atomically publishes a new whitelist tree. Safe to call
// concurrently with OnSyn.
func (p *Pipeline) SetWhitelist(t *whitelist.Tree) {
	p.whitelist.Store(t)
}

// SetConfig atomically publishes a new configuration snapshot. Safe to call
// concurrently with OnSyn.
func (p *Pipeline) SetConfig(cfg config.Snapshot) {
	p.config.Store(&cfg)
}

// OnSyn runs the full decision sequence for one SYN observed from a at
// monotonic time now. It never returns an error: every failure mode is
// absorbed, logged, and reflected in counters/events per spec §4.6/§7.
func (p *Pipeline) OnSyn(a addr.Addr, now uint64) {
	wl := p.whitelist.Load()
	if wl != nil && wl.Contains(a) {
		p.metrics.WhitelistHits.Inc()
		p.dispatcher.Raise(events.Whitelisted(a, now))
		return
	}

	cfg := p.config.Load()
	if cfg == nil {
		p.log.Error("pipeline invoked with no configuration published")
		return
	}

	// A blocked record keeps accumulating without a window reset until the
	// sweeper releases it.
	rec := p.tracker.Mutate(a, now, func(rec *tracker.Record) {
		if !rec.Blocked && now-rec.WindowStart > cfg.WindowNanos() {
			rec.SynCount = 1
			rec.WindowStart = now
		} else {
			rec.SynCount++
		}
	})

	p.metrics.TotalSynPackets.Inc()

	if rec.SynCount > cfg.SynThreshold && !rec.Blocked {
		p.evaluateThresholdBreach(a, now, *cfg, rec)
	}
}

// evaluateThresholdBreach runs the confirmation check and, on confirmation,
// installs the block. It is split out of OnSyn because the kernel-state
// probe and block-set add are comparatively slow operations that must not
// run while the tracker's exclusive lock is held (spec §5).
func (p *Pipeline) evaluateThresholdBreach(a addr.Addr, now uint64, cfg config.Snapshot, rec tracker.Record) {
	halfOpen, err := p.probe.CountHalfOpen(&a)
	if err != nil {
		p.log.Warn("kernel-state probe failed, treating as unconfirmed", "addr", a.String(), "error", err)
		halfOpen = 0
	}

	if halfOpen <= cfg.SynThreshold/2 {
		p.metrics.FalsePositives.Inc()
		p.dispatcher.Raise(events.Suspicious(a, rec.SynCount, halfOpen, now))
		return
	}

	if err := p.blocks.Add(a, cfg.BlockDurationS); err != nil {
		p.log.Warn("block-set add failed, will retry on next qualifying SYN", "addr", a.String(), "error", err)
		return
	}

	expiry := now + cfg.BlockDurationNanos()
	p.tracker.MutateExisting(a, func(r *tracker.Record) {
		r.Blocked = true
		r.BlockExpiry = expiry
	})
	p.metrics.Detections.Inc()
	p.dispatcher.Raise(events.Blocked(a, rec.SynCount, halfOpen, now))
}
