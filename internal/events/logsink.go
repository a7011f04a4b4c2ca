package events

import "github.com/Hetti219/TCP-SYN-Flood-Detector/internal/logging"

// LoggingSink writes every event as a structured log line. It is the
// default sink wired by the daemon's main; other sinks (metrics, a future
// webhook notifier) can be added alongside it.
type LoggingSink struct {
	log *logging.Logger
}

// NewLoggingSink creates a sink writing through the given logger, tagged
// with the "events" component.
func NewLoggingSink(log *logging.Logger) *LoggingSink {
	return &LoggingSink{log: log.WithComponent("events")}
}

func (s *LoggingSink) Handle(e Event) {
	switch e.Kind {
	case KindSuspicious:
		s.log.Info("suspicious source", "addr", e.Addr.String(), "syn_count", e.SynCount, "half_open", e.HalfOpen)
	case KindBlocked:
		s.log.Warn("source blocked", "addr", e.Addr.String(), "syn_count", e.SynCount, "half_open", e.HalfOpen)
	case KindUnblocked:
		s.log.Info("source unblocked", "addr", e.Addr.String())
	case KindWhitelisted:
		s.log.Debug("whitelisted source short-circuited", "addr", e.Addr.String())
	default:
		s.log.Debug("unrecognized event kind", "kind", e.Kind, "addr", e.Addr.String())
	}
}
