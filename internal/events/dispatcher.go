package events

import (
	"context"
	"sync"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/logging"
)

// Dispatcher fans events out to a set of sinks on a dedicated goroutine, so
// that a slow or misbehaving sink never adds latency to the detection
// pipeline's hot path. Raising an event onto a full queue drops it rather
// than blocking the caller — a dropped notification is preferable to a
// stalled packet source.
type Dispatcher struct {
	mu       sync.RWMutex
	sinks    []Sink
	eventCh  chan Event
	stopCh   chan struct{}
	log      *logging.Logger
	dropped  uint64
	dropMu   sync.Mutex
}

// NewDispatcher creates a Dispatcher with the given outgoing queue depth.
func NewDispatcher(queueDepth int, log *logging.Logger) *Dispatcher {
	if queueDepth <= 0 {
		queueDepth = 256
	}
	return &Dispatcher{
		eventCh: make(chan Event, queueDepth),
		stopCh:  make(chan struct{}),
		log:     log,
	}
}

// AddSink registers a sink. It takes the dispatcher's write lock, so it may
// be called before or after Start; an event already being delivered goes
// only to the sinks registered when its delivery began.
func (d *Dispatcher) AddSink(s Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, s)
}

// Start begins the delivery loop on its own goroutine and returns at once.
// The loop exits once ctx is done or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Dispatcher) run(ctx context.Context) {
	for {
		select {
		case e := <-d.eventCh:
			d.deliver(e)
		case <-d.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) deliver(e Event) {
	d.mu.RLock()
	sinks := d.sinks
	d.mu.RUnlock()
	for _, s := range sinks {
		s.Handle(e)
	}
}

// Stop halts the delivery loop.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
}

// Raise enqueues an event for delivery. Non-blocking: if the queue is full
// the event is dropped and counted.
func (d *Dispatcher) Raise(e Event) {
	select {
	case d.eventCh <- e:
	default:
		d.dropMu.Lock()
		d.dropped++
		d.dropMu.Unlock()
		if d.log != nil {
			d.log.Warn("event queue full, dropping event", "kind", e.Kind, "addr", e.Addr.String())
		}
	}
}

// Dropped reports how many events have been dropped due to a full queue.
func (d *Dispatcher) Dropped() uint64 {
	d.dropMu.Lock()
	defer d.dropMu.Unlock()
	return d.dropped
}
