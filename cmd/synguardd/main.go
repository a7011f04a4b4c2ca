// Command synguardd is a privileged userspace daemon that detects TCP
// SYN-flood attacks against this host and installs kernel-level blocks
// against offending source addresses.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/blockset"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/config"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/detection"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/events"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/kernelstate"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/logging"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/metrics"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/packetsource"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/supervisor"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/sweeper"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/tracker"
)

func main() {
	configPath := flag.String("config", "/etc/synguard/synguard.conf", "path to the configuration file")
	queueNum := flag.Uint("queue-num", 0, "NFQUEUE number to attach to; 0 selects the raw-socket fallback")
	iface := flag.String("interface", "eth0", "link to bind for the raw-socket fallback ingestion path")
	metricsAddr := flag.String("metrics-addr", ":9090", "listen address for the Prometheus /metrics endpoint")
	logLevel := flag.String("log-level", "info", "debug, info, warn, or error")
	flag.Parse()

	log := logging.New(logging.Config{
		Output:             os.Stderr,
		Level:              parseLevel(*logLevel),
		RateLimitPerMinute: 100,
	})

	loader := config.FileLoader{Path: *configPath}
	cfg, err := loader.Load()
	if err != nil {
		log.Warn("could not load configuration file, starting from defaults", "path", *configPath, "error", err)
		cfg = config.Default()
	}

	m := metrics.New()
	if err := m.Register(prometheus.DefaultRegisterer); err != nil {
		log.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	tbl := tracker.New(int(cfg.HashBuckets), int(cfg.MaxTrackedIPs))
	probe := kernelstate.NewProcNetTCPProbe(log)

	blocks, err := blockset.NewNFTDriver(log)
	if err != nil {
		log.Error("failed to initialize block-set driver", "error", err)
		os.Exit(1)
	}
	if err := blocks.Init(cfg.AddressSetName, cfg.BlockDurationS, cfg.MaxTrackedIPs); err != nil {
		log.Error("failed to initialize kernel address set", "error", err)
		os.Exit(1)
	}

	dispatcher := events.NewDispatcher(4096, log)
	dispatcher.AddSink(events.NewLoggingSink(log))
	dispatcher.Start(context.Background())

	pipeline := detection.New(tbl, probe, blocks, m, dispatcher, log)
	sw := sweeper.New(tbl, blocks, m, dispatcher, cfg.SweepInterval(), nil, log)

	var source packetsource.Source
	if *queueNum > 0 {
		source = packetsource.NewNFQueueSource(packetsource.Config{QueueNum: uint16(*queueNum)}, m, nil, log)
	} else {
		source = packetsource.NewRawSource(packetsource.Config{Interface: *iface}, m, nil, log)
	}

	go serveMetrics(*metricsAddr, log)

	sup := supervisor.New(pipeline, sw, source, blocks, tbl, loader, log, cfg)
	if err := sup.Run(context.Background()); err != nil {
		log.Error("packet source exited with error", "error", err)
		os.Exit(1)
	}
}

func serveMetrics(addr string, log *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn("metrics server exited", "error", err)
	}
}

func parseLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
