//go:build linux

package blockset

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/nftables"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/logging"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/xerrors"
)

// conn is the subset of *nftables.Conn this driver exercises, so tests can
// substitute a fake without opening a real netlink socket.
type conn interface {
	AddTable(*nftables.Table) *nftables.Table
	AddSet(*nftables.Set, []nftables.SetElement) error
	SetAddElements(*nftables.Set, []nftables.SetElement) error
	SetDeleteElements(*nftables.Set, []nftables.SetElement) error
	GetSetElements(*nftables.Set) ([]nftables.SetElement, error)
	FlushSet(*nftables.Set) error
	Flush() error
}

// NFTDriver manages a named inet-family nftables set of IPv4 addresses with
// a per-element timeout, via direct netlink manipulation (the approach
// spec §9 recommends over shelling out to an nft binary per mutation).
type NFTDriver struct {
	mu         sync.Mutex
	conn       conn
	table      *nftables.Table
	set        *nftables.Set
	defaultTTL time.Duration
	logger     *logging.Logger
}

// NewNFTDriver creates a driver bound to a real netlink connection.
func NewNFTDriver(logger *logging.Logger) (*NFTDriver, error) {
	c, err := nftables.New()
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.KindUnavailable, "open nftables netlink connection")
	}
	return &NFTDriver{conn: c, logger: logger}, nil
}

// Init implements Driver. Idempotent: re-initializing with the same name
// against an already-present set succeeds without duplicating it.
func (d *NFTDriver) Init(name string, defaultTTLSeconds, maxElements uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.table = d.conn.AddTable(&nftables.Table{
		Name:   "synguard",
		Family: nftables.TableFamilyINet,
	})
	d.defaultTTL = time.Duration(defaultTTLSeconds) * time.Second

	d.set = &nftables.Set{
		Table:      d.table,
		Name:       name,
		KeyType:    nftables.TypeIPAddr,
		HasTimeout: true,
	}
	if err := d.conn.AddSet(d.set, nil); err != nil {
		return xerrors.Attr(xerrors.Wrap(err, xerrors.KindUnavailable, "create address set"), "name", name)
	}
	if err := d.conn.Flush(); err != nil {
		return xerrors.Attr(xerrors.Wrap(err, xerrors.KindUnavailable, "flush set creation"), "name", name)
	}
	return nil
}

// Add implements Driver. Re-adding an address updates its TTL, matching the
// underlying set's element-replace-on-add netlink semantics.
func (d *NFTDriver) Add(a addr.Addr, ttlSeconds uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		ttl = d.defaultTTL
	}
	elems := []nftables.SetElement{{Key: a.Bytes()[:], Timeout: ttl}}
	if err := d.conn.SetAddElements(d.set, elems); err != nil {
		return xerrors.Attr(xerrors.Wrap(err, xerrors.KindUnavailable, "add element"), "addr", a.String())
	}
	if err := d.conn.Flush(); err != nil {
		return xerrors.Attr(xerrors.Wrap(err, xerrors.KindUnavailable, "flush add"), "addr", a.String())
	}
	return nil
}

// Remove implements Driver. Idempotent with respect to absence: removing an
// address already gone from the set is a success, not an error.
func (d *NFTDriver) Remove(a addr.Addr) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	elems := []nftables.SetElement{{Key: a.Bytes()[:]}}
	if err := d.conn.SetDeleteElements(d.set, elems); err != nil {
		// Deleting a missing element is expected-not-found, not fatal.
		return nil
	}
	if err := d.conn.Flush(); err != nil {
		return xerrors.Attr(xerrors.Wrap(err, xerrors.KindUnavailable, "flush remove"), "addr", a.String())
	}
	return nil
}

// Test implements Driver.
func (d *NFTDriver) Test(a addr.Addr) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	elems, err := d.conn.GetSetElements(d.set)
	if err != nil {
		return false, xerrors.Wrap(err, xerrors.KindUnavailable, "read set elements")
	}
	want := a.Bytes()
	for _, e := range elems {
		if len(e.Key) == 4 && [4]byte{e.Key[0], e.Key[1], e.Key[2], e.Key[3]} == want {
			return true, nil
		}
	}
	return false, nil
}

// Flush implements Driver, clearing all elements without destroying the
// set itself.
func (d *NFTDriver) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.conn.FlushSet(d.set); err != nil {
		return xerrors.Wrap(err, xerrors.KindUnavailable, "flush set")
	}
	return d.conn.Flush()
}

// Count implements Driver.
func (d *NFTDriver) Count() (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	elems, err := d.conn.GetSetElements(d.set)
	if err != nil {
		return 0, xerrors.Wrap(err, xerrors.KindUnavailable, "read set elements")
	}
	return uint32(len(elems)), nil
}

// Shutdown implements Driver. Releases no persistent resources of its own —
// the netlink connection is closed per-call by the underlying library — and
// deliberately does not delete the table or set, so blocks survive restart.
func (d *NFTDriver) Shutdown() error {
	if d.logger != nil {
		d.logger.Info("blockset driver shutting down", "set", fmt.Sprintf("%v", d.set))
	}
	return nil
}
