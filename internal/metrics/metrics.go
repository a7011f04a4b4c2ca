// Package metrics exposes the detection pipeline's counters to Prometheus.
// See spec §6 for the exact set: total_packets, total_syn_packets,
// detections, false_positives, whitelist_hits, currently_blocked,
// tracker_entries, tracker_blocked.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every counter and gauge the daemon exposes. Counters only
// increase; the three gauges (CurrentlyBlocked, TrackerEntries,
// TrackerBlocked) are refreshed from tracker/blockset snapshots on each
// sweep rather than incremented inline, since they reflect current state
// rather than accumulated events.
type Metrics struct {
	TotalPackets    prometheus.Counter
	TotalSynPackets prometheus.Counter
	Detections      prometheus.Counter
	FalsePositives  prometheus.Counter
	WhitelistHits   prometheus.Counter

	CurrentlyBlocked prometheus.Gauge
	TrackerEntries   prometheus.Gauge
	TrackerBlocked   prometheus.Gauge
}

// New creates the metric set, unregistered. Call Register to attach it to a
// prometheus.Registerer.
func New() *Metrics {
	return &Metrics{
		TotalPackets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "synguard_total_packets_total",
			Help: "Total number of packets observed on the ingestion path.",
		}),
		TotalSynPackets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "synguard_total_syn_packets_total",
			Help: "Total number of bare SYN packets (SYN set, ACK clear) observed from non-whitelisted sources.",
		}),
		Detections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "synguard_detections_total",
			Help: "Total number of confirmed-attack detections that resulted in a block.",
		}),
		FalsePositives: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "synguard_false_positives_total",
			Help: "Total number of threshold breaches that did not confirm via half-open count (suspicious events).",
		}),
		WhitelistHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "synguard_whitelist_hits_total",
			Help: "Total number of SYNs short-circuited by the whitelist.",
		}),
		CurrentlyBlocked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "synguard_currently_blocked",
			Help: "Number of source addresses currently blocked in the kernel address set.",
		}),
		TrackerEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "synguard_tracker_entries",
			Help: "Number of addresses currently tracked in the SYN counting table.",
		}),
		TrackerBlocked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "synguard_tracker_blocked",
			Help: "Number of tracked addresses currently marked blocked.",
		}),
	}
}

// Register attaches every collector to r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.TotalPackets, m.TotalSynPackets, m.Detections, m.FalsePositives,
		m.WhitelistHits, m.CurrentlyBlocked, m.TrackerEntries, m.TrackerBlocked,
	}
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RefreshFromCounts sets the three gauges from a point-in-time snapshot.
// Called after each sweep / periodically, not from the hot path.
func (m *Metrics) RefreshFromCounts(trackerEntries, trackerBlocked, currentlyBlocked int) {
	m.TrackerEntries.Set(float64(trackerEntries))
	m.TrackerBlocked.Set(float64(trackerBlocked))
	m.CurrentlyBlocked.Set(float64(currentlyBlocked))
}
