package tracker

import (
	"testing"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
)

func a(t *testing.T, s string) addr.Addr {
	t.Helper()
	v, err := addr.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestGetOrCreateNewRecord(t *testing.T) {
	tbl := New(16, 100)
	rec := tbl.Mutate(a(t, "10.0.0.1"), 1000, nil)
	if rec.SynCount != 0 || rec.WindowStart != 1000 || rec.LastSeen != 1000 || rec.Blocked {
		t.Fatalf("unexpected fresh record: %+v", rec)
	}
}

func TestMutateUpdatesLastSeenOnHit(t *testing.T) {
	tbl := New(16, 100)
	addr1 := a(t, "10.0.0.1")
	tbl.Mutate(addr1, 1000, nil)
	rec := tbl.Mutate(addr1, 2000, func(r *Record) { r.SynCount++ })
	if rec.LastSeen != 2000 {
		t.Errorf("expected LastSeen updated to 2000, got %d", rec.LastSeen)
	}
	if rec.SynCount != 1 {
		t.Errorf("expected SynCount 1, got %d", rec.SynCount)
	}
}

func TestGetNeverCreates(t *testing.T) {
	tbl := New(16, 100)
	if _, ok := tbl.Snapshot(a(t, "10.0.0.1")); ok {
		t.Fatal("Snapshot should not find a non-existent record")
	}
	total, _ := tbl.Stats()
	if total != 0 {
		t.Fatalf("expected 0 entries, got %d", total)
	}
}

func TestRemove(t *testing.T) {
	tbl := New(16, 100)
	addr1 := a(t, "10.0.0.1")
	tbl.Mutate(addr1, 1, nil)
	if !tbl.Remove(addr1) {
		t.Fatal("expected Remove to find the record")
	}
	if tbl.Remove(addr1) {
		t.Fatal("second Remove should report not found")
	}
}

func TestClear(t *testing.T) {
	tbl := New(16, 100)
	tbl.Mutate(a(t, "10.0.0.1"), 1, nil)
	tbl.Mutate(a(t, "10.0.0.2"), 1, nil)
	tbl.Clear()
	total, _ := tbl.Stats()
	if total != 0 {
		t.Fatalf("expected 0 after clear, got %d", total)
	}
}

func TestBucketCountOneIsLegal(t *testing.T) {
	tbl := New(1, 100)
	addr1 := a(t, "10.0.0.1")
	addr2 := a(t, "10.0.0.2")
	tbl.Mutate(addr1, 1, nil)
	tbl.Mutate(addr2, 1, nil)
	if _, ok := tbl.Snapshot(addr1); !ok {
		t.Error("expected addr1 findable even with 1 bucket")
	}
	if _, ok := tbl.Snapshot(addr2); !ok {
		t.Error("expected addr2 findable even with 1 bucket")
	}
}

// TestLRUEviction matches spec §8 S6: max_tracked=3, insert A,B,C at
// t=1,2,3, then D at t=4 (ns here; only the ordering matters); A (oldest
// LastSeen) must be evicted.
func TestLRUEviction(t *testing.T) {
	tbl := New(16, 3)
	addrA := a(t, "10.0.0.1")
	addrB := a(t, "10.0.0.2")
	addrC := a(t, "10.0.0.3")
	addrD := a(t, "10.0.0.4")

	tbl.Mutate(addrA, 1, nil)
	tbl.Mutate(addrB, 2, nil)
	tbl.Mutate(addrC, 3, nil)
	tbl.Mutate(addrD, 4, nil)

	if _, ok := tbl.Snapshot(addrA); ok {
		t.Error("expected A to be evicted (oldest LastSeen)")
	}
	if _, ok := tbl.Snapshot(addrB); !ok {
		t.Error("expected B to survive")
	}
	if _, ok := tbl.Snapshot(addrC); !ok {
		t.Error("expected C to survive")
	}
	if _, ok := tbl.Snapshot(addrD); !ok {
		t.Error("expected D to survive")
	}
	total, _ := tbl.Stats()
	if total != 3 {
		t.Errorf("expected total=3, got %d", total)
	}
}

func TestMaxTrackedOneEvictsPrevious(t *testing.T) {
	tbl := New(16, 1)
	addr1 := a(t, "10.0.0.1")
	addr2 := a(t, "10.0.0.2")
	tbl.Mutate(addr1, 1, nil)
	tbl.Mutate(addr2, 2, nil)

	if _, ok := tbl.Snapshot(addr1); ok {
		t.Error("expected addr1 to be evicted")
	}
	total, _ := tbl.Stats()
	if total != 1 {
		t.Errorf("expected total=1, got %d", total)
	}
}

func TestExpiredBlocksIsPureRead(t *testing.T) {
	tbl := New(16, 100)
	addr1 := a(t, "10.0.0.1")
	tbl.Mutate(addr1, 1, func(r *Record) {
		r.Blocked = true
		r.BlockExpiry = 100
	})

	out := make([]addr.Addr, 4)
	n := tbl.ExpiredBlocks(200, out)
	if n != 1 || out[0] != addr1 {
		t.Fatalf("expected addr1 expired, got n=%d out=%v", n, out[:n])
	}

	rec, _ := tbl.Snapshot(addr1)
	if !rec.Blocked {
		t.Error("ExpiredBlocks must not mutate Blocked")
	}
}

func TestExpiredBlocksRespectsCapacity(t *testing.T) {
	tbl := New(16, 100)
	for i := 1; i <= 5; i++ {
		ip := addr.Addr(uint32(10)<<24 | uint32(i))
		tbl.Mutate(ip, 1, func(r *Record) {
			r.Blocked = true
			r.BlockExpiry = 1
		})
	}
	out := make([]addr.Addr, 2)
	n := tbl.ExpiredBlocks(100, out)
	if n != 2 {
		t.Fatalf("expected capped at 2, got %d", n)
	}
}

func TestStatsNeverExceedsMaxTrackedIPs(t *testing.T) {
	tbl := New(16, 10)
	for i := 0; i < 50; i++ {
		ip := addr.Addr(uint32(172)<<24 | uint32(16)<<16 | uint32(i))
		tbl.Mutate(ip, uint64(i), nil)
	}
	total, _ := tbl.Stats()
	if total > 10 {
		t.Fatalf("expected total <= 10, got %d", total)
	}
}

func TestMutateExistingNoOpWhenAbsent(t *testing.T) {
	tbl := New(16, 100)
	_, ok := tbl.MutateExisting(a(t, "10.0.0.1"), func(r *Record) { r.Blocked = false })
	if ok {
		t.Fatal("expected not found for absent record")
	}
}

func TestMutateExistingTransitionsBlockState(t *testing.T) {
	tbl := New(16, 100)
	addr1 := a(t, "10.0.0.1")
	tbl.Mutate(addr1, 1, func(r *Record) {
		r.Blocked = true
		r.BlockExpiry = 100
	})

	rec, ok := tbl.MutateExisting(addr1, func(r *Record) {
		r.Blocked = false
		r.BlockExpiry = 0
	})
	if !ok {
		t.Fatal("expected record found")
	}
	if rec.Blocked {
		t.Error("expected Blocked=false after unblock transition")
	}
}

func TestRemoveMatchingDeletesOnlyMatches(t *testing.T) {
	tbl := New(16, 100)
	kept := a(t, "10.0.0.1")
	dropped := a(t, "192.168.1.1")
	tbl.Mutate(kept, 1, nil)
	tbl.Mutate(dropped, 1, nil)

	removed := tbl.RemoveMatching(func(x addr.Addr) bool { return x == dropped })
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, ok := tbl.Snapshot(dropped); ok {
		t.Error("expected dropped address to be gone")
	}
	if _, ok := tbl.Snapshot(kept); !ok {
		t.Error("expected kept address to remain")
	}
}

func TestRemoveMatchingNoneMatch(t *testing.T) {
	tbl := New(16, 100)
	tbl.Mutate(a(t, "10.0.0.1"), 1, nil)
	if removed := tbl.RemoveMatching(func(addr.Addr) bool { return false }); removed != 0 {
		t.Errorf("expected 0 removals, got %d", removed)
	}
}
