// Package vmlog provides structured logging for the RaptorScript core. It
// wraps zerolog with the four severities the engine's diagnostics need
// (debug, info, warn, error) and per-component child loggers, the same
// shape the evaluator, constant-pool decoder and CLI all expect.
package vmlog

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is a leveled, structured logger scoped to one engine component.
type Logger struct {
	inner zerolog.Logger
}

var defaultLogger = New(zerolog.InfoLevel)

// New builds a Logger writing to stderr at the given minimum level.
func New(level zerolog.Level) *Logger {
	return &Logger{inner: zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()}
}

// FromEnv honors RAPTOR_LOG (debug|info|warn|error), mirroring the
// RUST_LOG-style override named in the engine's external interfaces.
// An unrecognized or empty value falls back to info.
func FromEnv() *Logger {
	level := zerolog.InfoLevel
	if raw := os.Getenv("RAPTOR_LOG"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	return New(level)
}

// SetDefault replaces the package-level default logger that Component
// derives its child loggers from. Child loggers created before the call
// keep the logger they were derived from.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Component returns a child logger tagged with the originating engine
// component (loader, constpool, frame, evaluator, cli, asm, ...).
func Component(name string) *Logger {
	return &Logger{inner: defaultLogger.inner.With().Str("component", name).Logger()}
}

func (l *Logger) Debug(msg string, args ...any) { l.log(l.inner.Debug(), msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(l.inner.Info(), msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(l.inner.Warn(), msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(l.inner.Error(), msg, args...) }

// log applies printf-style args when present; zerolog's event API takes
// structured fields, but the core's call sites are mostly one-line
// messages so we fold args in via fmt semantics for readability.
func (l *Logger) log(ev *zerolog.Event, msg string, args ...any) {
	if len(args) == 0 {
		ev.Msg(msg)
		return
	}
	ev.Msgf(msg, args...)
}
