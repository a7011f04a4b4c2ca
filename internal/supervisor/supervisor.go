// Package supervisor drives the daemon's top-level lifecycle: startup
// wiring order, signal-driven shutdown and configuration reload, and the
// shutdown teardown sequence. See spec §4.9/§5.
package supervisor

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/blockset"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/config"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/detection"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/logging"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/packetsource"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/sweeper"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/tracker"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/whitelist"
)

// Supervisor owns the pipeline, sweeper and packet source, installs
// sig-atomic-safe signal intent flags, and carries out reload and shutdown
// per spec §4.9. Signal handlers themselves only set an atomic.Bool; every
// state transition they trigger runs later, on the packet source's own
// goroutine, via ServiceIntents.
type Supervisor struct {
	pipeline *detection.Pipeline
	sweeper  *sweeper.Sweeper
	source   packetsource.Source
	blocks   blockset.Driver
	tracker  *tracker.Table
	loader   config.Loader
	log      *logging.Logger

	shutdownIntent atomic.Bool
	reloadIntent   atomic.Bool
	shutdownOnce   sync.Once

	sweeperCancel context.CancelFunc
	sourceCancel  context.CancelFunc
}

// New creates a Supervisor. cfg and the whitelist built from
// cfg.WhitelistPath (if set) are published to pipeline before Run starts
// the packet loop.
func New(
	pipeline *detection.Pipeline,
	sw *sweeper.Sweeper,
	source packetsource.Source,
	blocks blockset.Driver,
	tbl *tracker.Table,
	loader config.Loader,
	log *logging.Logger,
	cfg config.Snapshot,
) *Supervisor {
	s := &Supervisor{
		pipeline: pipeline,
		sweeper:  sw,
		source:   source,
		blocks:   blocks,
		tracker:  tbl,
		loader:   loader,
		log:      log.WithComponent("supervisor"),
	}
	pipeline.SetConfig(cfg)
	pipeline.SetWhitelist(loadWhitelistOrEmpty(cfg.WhitelistPath, s.log))
	return s
}

func loadWhitelistOrEmpty(path string, log *logging.Logger) *whitelist.Tree {
	if path == "" {
		return whitelist.Empty()
	}
	f, err := os.Open(path)
	if err != nil {
		log.Warn("could not open whitelist file, starting with an empty whitelist", "path", path, "error", err)
		return whitelist.Empty()
	}
	defer f.Close()

	tree, result := whitelist.BuildFromEntries(f)
	for _, skipped := range result.Skipped {
		log.Warn("skipped malformed whitelist line", "line", skipped.Line, "text", skipped.Text, "reason", skipped.Reason)
	}
	return tree
}

// Run installs signal handlers, starts the sweeper, then runs the packet
// source's main loop on the calling goroutine until a shutdown intent
// drives it to exit. It returns after the full teardown sequence
// completes.
func (s *Supervisor) Run(parent context.Context) error {
	s.installSignalHandlers()

	sweeperCtx, sweeperCancel := context.WithCancel(parent)
	s.sweeperCancel = sweeperCancel
	s.sweeper.Start(sweeperCtx)

	sourceCtx, sourceCancel := context.WithCancel(parent)
	s.sourceCancel = sourceCancel

	err := s.source.Run(sourceCtx, s.pipeline.OnSyn, s.serviceIntents)

	// Reverse-of-init teardown per spec §4.9: sweeper, then packet source
	// (both already stopped by the time Run returns, in that order, via
	// serviceIntents), then the block-set driver (never deletes the set),
	// then tracker, then whitelist. The logger has no teardown step.
	sweeperCancel()
	s.sweeper.Wait()
	sourceCancel()
	if closeErr := s.source.Close(); closeErr != nil {
		s.log.Warn("packet source cleanup failed", "error", closeErr)
	}
	if shutErr := s.blocks.Shutdown(); shutErr != nil {
		s.log.Warn("block-set driver shutdown failed", "error", shutErr)
	}
	s.tracker.Clear()
	s.pipeline.SetWhitelist(whitelist.Empty())
	s.log.Info("shutdown complete")

	return err
}

func (s *Supervisor) installSignalHandlers() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range ch {
			if sig == syscall.SIGHUP {
				s.reloadIntent.Store(true)
			} else {
				s.shutdownIntent.Store(true)
			}
		}
	}()
}

// serviceIntents is passed to the packet source and invoked on its own
// goroutine every ~1,000 packets (spec §4.8), never from the signal
// handler itself.
func (s *Supervisor) serviceIntents() {
	if s.reloadIntent.CompareAndSwap(true, false) {
		s.reload()
	}
	if s.shutdownIntent.Load() {
		s.beginShutdown()
	}
}

// beginShutdown stops the sweeper and cancels the packet source's context,
// exactly once. Run performs the remaining teardown steps after the
// source's blocking Run call returns.
func (s *Supervisor) beginShutdown() {
	s.shutdownOnce.Do(func() {
		s.log.Info("shutdown intent received")
		s.sweeperCancel()
		s.sweeper.Wait()
		s.sourceCancel()
	})
}

// reload parses the configuration file and, on success, rebuilds the
// whitelist and publishes both atomically-per-pointer (spec §5's discipline
// for the whitelist and configuration pointers individually). A parse
// failure keeps the current configuration in force; nothing is partially
// applied. Tracker entries for addresses the new whitelist now covers are
// dropped so they stop counting toward a threshold the pipeline will never
// re-evaluate for that address (spec §9 open question on reload behavior).
func (s *Supervisor) reload() {
	snap, err := s.loader.Load()
	if err != nil {
		s.log.Warn("configuration reload failed, keeping current configuration", "error", err)
		return
	}

	tree := loadWhitelistOrEmpty(snap.WhitelistPath, s.log)

	s.pipeline.SetConfig(snap)
	s.pipeline.SetWhitelist(tree)

	if removed := s.tracker.RemoveMatching(tree.Contains); removed > 0 {
		s.log.Info("cleared tracker state for newly whitelisted addresses", "count", removed)
	}
	s.log.Info("configuration reloaded")
}
