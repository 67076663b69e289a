package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger stores a request-scoped logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from the context.
// Returns zap.NewNop() if no logger is found.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := Lookup(ctx); ok {
		return l
	}
	return zap.NewNop()
}

// Lookup reports whether the context carries a logger.
func Lookup(ctx context.Context) (*zap.Logger, bool) {
	l, ok := ctx.Value(ctxKey{}).(*zap.Logger)
	return l, ok && l != nil
}
