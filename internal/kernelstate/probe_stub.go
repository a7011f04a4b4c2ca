//go:build !linux

package kernelstate

import (
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/logging"
)

// ProcNetTCPProbe is a stub on non-Linux systems — there is no
// /proc/net/tcp to read. Always reports zero half-open sockets, matching
// the "errors opening the inspection surface as 0" policy in spec §4.4.
type ProcNetTCPProbe struct {
	Path string
}

func NewProcNetTCPProbe(logger *logging.Logger) *ProcNetTCPProbe {
	return &ProcNetTCPProbe{}
}

func (p *ProcNetTCPProbe) CountHalfOpen(filter *addr.Addr) (uint32, error) {
	return 0, nil
}
