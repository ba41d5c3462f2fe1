// Package logging is the structured logger every client component takes.
// Components depend on Logger; SlogLogger adapts log/slog to it.
package logging

import "context"

// Logger logs a message with alternating key/value attributes:
//
//	log.Warn(ctx, "session load failed, logging out", "error", err)
//
// ctx is passed through to the handler.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With binds attributes to every record of the returned logger.
	With(args ...any) Logger
}
