package blockset

import (
	"sync"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
)

// FakeDriver is an in-memory Driver used by pipeline and sweeper tests on
// any platform. Unlike the kernel set behind NFTDriver, whose elements carry
// a timeout, it has no TTL semantics: entries persist until explicitly
// removed or flushed, so tests see only the sweeper's explicit removals.
type FakeDriver struct {
	mu       sync.Mutex
	name     string
	elements map[addr.Addr]uint32 // addr -> last TTL passed to Add
	initErr  error
	addErr   error
}

// NewFakeDriver creates an empty fake driver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{elements: make(map[addr.Addr]uint32)}
}

func (d *FakeDriver) Init(name string, defaultTTLSeconds, maxElements uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.name = name
	return d.initErr
}

// SetAddError makes every subsequent Add fail, simulating a permission or
// resource-exhaustion error from the real driver.
func (d *FakeDriver) SetAddError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addErr = err
}

func (d *FakeDriver) Add(a addr.Addr, ttlSeconds uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.addErr != nil {
		return d.addErr
	}
	d.elements[a] = ttlSeconds
	return nil
}

func (d *FakeDriver) Remove(a addr.Addr) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, a) // idempotent: deleting an absent key is a no-op
	return nil
}

func (d *FakeDriver) Test(a addr.Addr) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.elements[a]
	return ok, nil
}

func (d *FakeDriver) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements = make(map[addr.Addr]uint32)
	return nil
}

func (d *FakeDriver) Count() (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return uint32(len(d.elements)), nil
}

func (d *FakeDriver) Shutdown() error { return nil }
