//go:build !linux

package blockset

import (
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/logging"
)

// NFTDriver is a non-Linux stub — there is no netlink/nftables surface to
// manage. All mutations are no-ops; Count always reports 0.
type NFTDriver struct{}

func NewNFTDriver(logger *logging.Logger) (*NFTDriver, error) {
	return &NFTDriver{}, nil
}

func (d *NFTDriver) Init(name string, defaultTTLSeconds, maxElements uint32) error { return nil }
func (d *NFTDriver) Add(a addr.Addr, ttlSeconds uint32) error                      { return nil }
func (d *NFTDriver) Remove(a addr.Addr) error                                      { return nil }
func (d *NFTDriver) Test(a addr.Addr) (bool, error)                                { return false, nil }
func (d *NFTDriver) Flush() error                                                  { return nil }
func (d *NFTDriver) Count() (uint32, error)                                        { return 0, nil }
func (d *NFTDriver) Shutdown() error                                               { return nil }
