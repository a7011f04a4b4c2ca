// Package logging wraps github.com/charmbracelet/log with the
// rate-limiting behavior the daemon needs at warning level and above:
// events/core/component can arrive in the thousands per second under an
// active flood, and the console/syslog sink must not become the bottleneck.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Level mirrors charmbracelet/log's levels so callers never import that
// package directly.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) charm() charmlog.Level {
	switch l {
	case LevelDebug:
		return charmlog.DebugLevel
	case LevelWarn:
		return charmlog.WarnLevel
	case LevelError:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// Config configures a Logger.
type Config struct {
	Output io.Writer
	Level  Level
	// RateLimitPerMinute caps Warn/Error emissions per level; 0 disables
	// rate limiting. Defaults to 100 (spec-mandated) via DefaultConfig.
	RateLimitPerMinute int
}

// DefaultConfig returns the daemon's standard logging configuration:
// stderr output at info level with the spec-mandated 100/min/level cap.
func DefaultConfig() Config {
	return Config{
		Output:             os.Stderr,
		Level:              LevelInfo,
		RateLimitPerMinute: 100,
	}
}

// Logger is a leveled, component-tagged, rate-limited logger.
type Logger struct {
	inner     *charmlog.Logger
	component string
	limiter   *rateLimiter
}

// New builds a Logger from cfg.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	inner := charmlog.NewWithOptions(out, charmlog.Options{
		Level:           cfg.Level.charm(),
		ReportTimestamp: true,
	})
	var lim *rateLimiter
	if cfg.RateLimitPerMinute > 0 {
		lim = newRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	}
	return &Logger{inner: inner, limiter: lim}
}

// WithComponent returns a child Logger that tags every message with the
// given component name, sharing the rate limiter with its parent.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		inner:     l.inner.With("component", name),
		component: name,
		limiter:   l.limiter,
	}
}

func (l *Logger) Debug(msg string, kv ...any) { l.inner.Debug(msg, kv...) }

func (l *Logger) Info(msg string, kv ...any) { l.inner.Info(msg, kv...) }

// Warn logs at warning level, subject to the per-level rate limit.
func (l *Logger) Warn(msg string, kv ...any) {
	if l.allow(levelWarn) {
		l.inner.Warn(msg, kv...)
	}
}

// Error logs at error level, subject to the per-level rate limit.
func (l *Logger) Error(msg string, kv ...any) {
	if l.allow(levelError) {
		l.inner.Error(msg, kv...)
	}
}

func (l *Logger) allow(lv rateLevel) bool {
	if l.limiter == nil {
		return true
	}
	allowed, suppressed := l.limiter.check(lv)
	if suppressed > 0 {
		l.inner.Warn("suppressed log events in prior window", "level", lv.String(), "suppressed", suppressed)
	}
	return allowed
}

var (
	defaultMu  sync.RWMutex
	defaultLog = New(DefaultConfig())
)

// SetDefault installs l as the package-level default logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLog = l
	defaultMu.Unlock()
}

func getDefault() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLog
}

func Debug(msg string, kv ...any) { getDefault().Debug(msg, kv...) }
func Info(msg string, kv ...any)  { getDefault().Info(msg, kv...) }
func Warn(msg string, kv ...any)  { getDefault().Warn(msg, kv...) }
func Error(msg string, kv ...any) { getDefault().Error(msg, kv...) }
