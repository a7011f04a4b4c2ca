package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Handle(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestDispatcherDeliversToAllSinks(t *testing.T) {
	d := NewDispatcher(10, nil)
	s1 := &recordingSink{}
	s2 := &recordingSink{}
	d.AddSink(s1)
	d.AddSink(s2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	defer d.Stop()

	a, _ := addr.Parse("10.0.0.1")
	d.Raise(Suspicious(a, 150, 75, 1))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s1.count() == 1 && s2.count() == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if s1.count() != 1 || s2.count() != 1 {
		t.Fatalf("expected both sinks to receive 1 event, got %d and %d", s1.count(), s2.count())
	}
}

func TestDispatcherDropsOnFullQueue(t *testing.T) {
	d := NewDispatcher(1, nil)
	s := &recordingSink{}
	d.AddSink(s)
	// Do not Start the dispatcher, so the queue never drains.

	a, _ := addr.Parse("10.0.0.2")
	d.Raise(Suspicious(a, 1, 1, 1))
	d.Raise(Suspicious(a, 1, 1, 2))
	d.Raise(Suspicious(a, 1, 1, 3))

	if d.Dropped() == 0 {
		t.Error("expected at least one dropped event when queue is full and undrained")
	}
}
