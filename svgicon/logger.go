package svgicon

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used when parsing documents.
// By default, nothing is logged. Pass nil to restore the silent default.
// It is safe for concurrent use.
//
// Levels used:
//   - [slog.LevelDebug]: ignored attributes and elements
//   - [slog.LevelWarn]: unsupported content in [WarnErrorMode]
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger, shared by the packages
// of this module.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
