//go:build !linux

package packetsource

import (
	"context"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/clock"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/logging"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/metrics"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/xerrors"
)

// NFQueueSource is a non-Linux stub — NFQUEUE is a Linux netfilter facility.
// Run returns immediately with an unavailable error.
type NFQueueSource struct{}

func NewNFQueueSource(cfg Config, m *metrics.Metrics, clk clock.Source, log *logging.Logger) *NFQueueSource {
	return &NFQueueSource{}
}

func (s *NFQueueSource) Run(ctx context.Context, handle Handler, serviceIntents func()) error {
	return xerrors.New(xerrors.KindUnavailable, "nfqueue ingestion is only available on linux")
}

func (s *NFQueueSource) Close() error { return nil }

// RawSource is a non-Linux stub — AF_PACKET is a Linux socket family.
type RawSource struct{}

func NewRawSource(cfg Config, m *metrics.Metrics, clk clock.Source, log *logging.Logger) *RawSource {
	return &RawSource{}
}

func (s *RawSource) Run(ctx context.Context, handle Handler, serviceIntents func()) error {
	return xerrors.New(xerrors.KindUnavailable, "raw-socket ingestion is only available on linux")
}

func (s *RawSource) Close() error { return nil }
