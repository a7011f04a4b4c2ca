//go:build linux

package kernelstate

import (
	"os"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/logging"
)

// ProcNetTCPProbe reads /proc/net/tcp, the kernel's read-only inspection
// surface for the TCP socket table. No library in this codebase's
// dependency stack parses this format (it is a kernel-specific text table,
// not a netlink or nftables concern — see DESIGN.md), so this leaf reads
// it directly with bufio/os, the minimal correct tool for the job.
type ProcNetTCPProbe struct {
	Path   string // defaults to /proc/net/tcp
	logger *logging.Logger
}

// NewProcNetTCPProbe creates a probe reading the standard /proc/net/tcp
// location.
func NewProcNetTCPProbe(logger *logging.Logger) *ProcNetTCPProbe {
	return &ProcNetTCPProbe{Path: "/proc/net/tcp", logger: logger}
}

// CountHalfOpen implements Probe. Errors opening the surface are logged
// and surfaced as a zero count, per spec §4.4 — a confirmation failure
// must never abort the pipeline.
func (p *ProcNetTCPProbe) CountHalfOpen(filter *addr.Addr) (uint32, error) {
	path := p.Path
	if path == "" {
		path = "/proc/net/tcp"
	}

	f, err := os.Open(path)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("failed to open TCP inspection surface", "path", path, "error", err)
		}
		return 0, nil
	}
	defer f.Close()

	return countHalfOpen(f, filter), nil
}
