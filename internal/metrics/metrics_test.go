package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetGauge().GetValue()
}

func TestNewRegistersAllCollectors(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatal(err)
	}
}

func TestCountersIncrement(t *testing.T) {
	m := New()
	m.TotalPackets.Inc()
	m.TotalPackets.Inc()
	m.Detections.Inc()

	if v := counterValue(t, m.TotalPackets); v != 2 {
		t.Errorf("expected TotalPackets=2, got %v", v)
	}
	if v := counterValue(t, m.Detections); v != 1 {
		t.Errorf("expected Detections=1, got %v", v)
	}
}

func TestRefreshFromCounts(t *testing.T) {
	m := New()
	m.RefreshFromCounts(10, 3, 3)

	if v := gaugeValue(t, m.TrackerEntries); v != 10 {
		t.Errorf("expected TrackerEntries=10, got %v", v)
	}
	if v := gaugeValue(t, m.TrackerBlocked); v != 3 {
		t.Errorf("expected TrackerBlocked=3, got %v", v)
	}
	if v := gaugeValue(t, m.CurrentlyBlocked); v != 3 {
		t.Errorf("expected CurrentlyBlocked=3, got %v", v)
	}
}
