package kernelstate

import (
	"testing"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
)

func TestSimProbeTotal(t *testing.T) {
	p := NewSimProbe(75)
	count, err := p.CountHalfOpen(nil)
	if err != nil {
		t.Fatal(err)
	}
	if count != 75 {
		t.Errorf("expected 75, got %d", count)
	}
	if p.Calls() != 1 {
		t.Errorf("expected 1 call, got %d", p.Calls())
	}
}

func TestSimProbePerAddress(t *testing.T) {
	p := NewSimProbe(0)
	a, _ := addr.Parse("198.51.100.7")
	other, _ := addr.Parse("198.51.100.8")
	p.SetFor(a, 10)

	count, err := p.CountHalfOpen(&a)
	if err != nil {
		t.Fatal(err)
	}
	if count != 10 {
		t.Errorf("expected 10 for configured address, got %d", count)
	}

	count, err = p.CountHalfOpen(&other)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected 0 for unconfigured address, got %d", count)
	}
}

func TestSimProbeSetTotalOverride(t *testing.T) {
	p := NewSimProbe(5)
	p.SetTotal(20)
	count, _ := p.CountHalfOpen(nil)
	if count != 20 {
		t.Errorf("expected 20 after SetTotal, got %d", count)
	}
}
