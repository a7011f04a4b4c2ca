// Package tracker implements the per-source-address sliding-window SYN
// counter: a fixed-bucket, capacity-bounded hash table with LRU eviction.
// See spec §4.3. Readers (Stats, ExpiredBlocks, Snapshot) may run
// concurrently with each other; any mutation excludes readers for its
// duration. Callers never hold a raw *Record outside the table's lock —
// Mutate/MutateExisting run a closure under exclusive access and hand back
// a value copy, so the "pointer valid only for the scope of the exclusive
// access" rule in §4.3 can't be violated by construction.
package tracker

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
)

// Record is one tracked source address's state.
type Record struct {
	Key         addr.Addr
	SynCount    uint32
	WindowStart uint64
	LastSeen    uint64
	Blocked     bool
	BlockExpiry uint64
}

type bucket struct {
	records map[addr.Addr]*Record
}

// Table is the bucketed, capacity-bounded tracker index.
type Table struct {
	mu         sync.RWMutex
	buckets    []bucket
	bucketMask uint64
	maxEntries int
	total      int
}

// New creates a Table with bucketCount buckets (rounded up to a power of
// two) and a cap of maxEntries records across all buckets.
func New(bucketCount, maxEntries int) *Table {
	if bucketCount <= 0 {
		bucketCount = 1
	}
	n := 1
	for n < bucketCount {
		n <<= 1
	}
	buckets := make([]bucket, n)
	for i := range buckets {
		buckets[i].records = make(map[addr.Addr]*Record)
	}
	return &Table{
		buckets:    buckets,
		bucketMask: uint64(n - 1),
		maxEntries: maxEntries,
	}
}

// hashAddr scrambles addr bits via xxhash so sequential or patterned
// addresses (common under a scan) still distribute across buckets instead
// of colliding on the low bits the way the identity function would.
func hashAddr(a addr.Addr) uint64 {
	b := a.Bytes()
	return xxhash.Sum64(b[:])
}

func (t *Table) bucketFor(a addr.Addr) *bucket {
	idx := hashAddr(a) & t.bucketMask
	return &t.buckets[idx]
}

// Mutate gets-or-creates the record for a and runs fn against it while
// holding the table's exclusive lock, then returns a copy of the
// post-mutation state. If the record is newly created (capacity permitting
// — an LRU eviction runs first if the table is full), it starts with
// SynCount=0, WindowStart=now, LastSeen=now, Blocked=false, as §4.3
// requires; fn then sees — and may override — that initial state.
func (t *Table) Mutate(a addr.Addr, now uint64, fn func(rec *Record)) Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	b := t.bucketFor(a)
	rec, ok := b.records[a]
	if !ok {
		if t.total >= t.maxEntries {
			t.evictLRULocked()
		}
		rec = &Record{Key: a, WindowStart: now, LastSeen: now}
		b.records[a] = rec
		t.total++
	}
	rec.LastSeen = now
	if fn != nil {
		fn(rec)
	}
	return *rec
}

// MutateExisting runs fn against the existing record for a, under the
// table's exclusive lock, and returns a copy of the post-mutation state.
// Unlike Mutate it never creates a record: if a is absent (e.g. evicted or
// cleared concurrently since the caller last observed it), ok is false and
// fn is not called — the expected-not-found case spec §7 calls out as a
// silent no-op.
func (t *Table) MutateExisting(a addr.Addr, fn func(rec *Record)) (Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b := t.bucketFor(a)
	rec, ok := b.records[a]
	if !ok {
		return Record{}, false
	}
	if fn != nil {
		fn(rec)
	}
	return *rec, true
}

// Snapshot returns a copy of the record for a, without creating one or
// updating LastSeen.
func (t *Table) Snapshot(a addr.Addr) (Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.bucketFor(a).records[a]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// evictLRULocked removes the record with the smallest LastSeen across all
// buckets. Ties are broken by bucket order then map iteration order, which
// is deterministic within a single run but not specified across runs —
// spec §4.3 only requires determinism within a run. Must be called with
// t.mu held for writing.
func (t *Table) evictLRULocked() {
	var (
		victimBucket *bucket
		victimKey    addr.Addr
		found        bool
		minLastSeen  uint64
	)
	for i := range t.buckets {
		for k, rec := range t.buckets[i].records {
			if !found || rec.LastSeen < minLastSeen {
				found = true
				minLastSeen = rec.LastSeen
				victimBucket = &t.buckets[i]
				victimKey = k
			}
		}
	}
	if found {
		delete(victimBucket.records, victimKey)
		t.total--
	}
}

// Remove deletes the record for a, if present. Returns true if a record
// was found and removed.
func (t *Table) Remove(a addr.Addr) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := t.bucketFor(a)
	if _, ok := b.records[a]; !ok {
		return false
	}
	delete(b.records, a)
	t.total--
	return true
}

// Clear destroys all records.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.buckets {
		t.buckets[i].records = make(map[addr.Addr]*Record)
	}
	t.total = 0
}

// ExpiredBlocks fills out (up to len(out)) with addresses whose records
// are currently blocked and whose block_expiry has elapsed, and returns
// the count written. It is a pure read: no record is mutated and no state
// transition happens here — the sweeper drives that via MutateExisting.
func (t *Table) ExpiredBlocks(now uint64, out []addr.Addr) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	limit := len(out)
	for i := range t.buckets {
		if n >= limit {
			break
		}
		for _, rec := range t.buckets[i].records {
			if n >= limit {
				break
			}
			if rec.Blocked && rec.BlockExpiry <= now {
				out[n] = rec.Key
				n++
			}
		}
	}
	return n
}

// RemoveMatching deletes every record whose address satisfies pred, under
// a single exclusive lock acquisition. Used on configuration reload to
// drop tracker state for addresses a newly published whitelist now covers
// (spec §4.9, §9 open question on reload/whitelist interaction), so a
// stale record can't keep counting toward a threshold the pipeline will
// never reach for that address again. Returns the number removed.
func (t *Table) RemoveMatching(pred func(addr.Addr) bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for i := range t.buckets {
		for k := range t.buckets[i].records {
			if pred(k) {
				delete(t.buckets[i].records, k)
				t.total--
				removed++
			}
		}
	}
	return removed
}

// Stats reports the current total record count and how many are blocked.
func (t *Table) Stats() (total int, blocked int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := range t.buckets {
		for _, rec := range t.buckets[i].records {
			if rec.Blocked {
				blocked++
			}
		}
	}
	return t.total, blocked
}
