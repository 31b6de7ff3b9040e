// Package logging defines the structured-logging interface used by the
// study planner client and its slog and zap backends.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "task created", "id", task.ID, "priority", task.Priority)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)

	// Warn is for failures the caller recovers from, such as a credential
	// write that does not abort a login.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// New builds the logger selected by backend ("slog" or "zap") at the given
// level. Unknown backends fall back to slog.
func New(backend, level string) (Logger, error) {
	switch backend {
	case "zap":
		return NewZapLogger(level)
	default:
		return Setup(level), nil
	}
}
