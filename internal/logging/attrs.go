package logging

import (
	"context"
	"log/slog"
	"slices"
)

type Attr = slog.Attr

// Attribute constructors, re-exported so call sites only import this package.
var (
	String   = slog.String
	Int      = slog.Int
	Int64    = slog.Int64
	Float64  = slog.Float64
	Duration = slog.Duration
)

// Error wraps err under the "error" key.
func Error(err error) Attr {
	return slog.Any("error", err)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with a component name. A nil logger yields a
// no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

var warningDefaults = []Attr{
	String(FieldErrorHint, "rerun with --log-level debug for details"),
	String(FieldImpact, "results may be incomplete"),
}

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact. Callers override the defaults by passing those keys.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefault(attrs, String(FieldEventType, eventType))
	for _, def := range warningDefaults {
		attrs = withDefault(attrs, def)
	}
	logger.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
}

func withDefault(attrs []Attr, def Attr) []Attr {
	if slices.ContainsFunc(attrs, func(a Attr) bool { return a.Key == def.Key }) {
		return attrs
	}
	return append(attrs, def)
}
