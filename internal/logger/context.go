package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type (
	ctxKey   struct{}
	eventKey struct{}
)

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from the context.
// Returns zap.NewNop() if no logger is found.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// event collects fields for one request's canonical log line. Batch
// searches add to it from several goroutines.
type event struct {
	mu     sync.Mutex
	fields []zap.Field
}

// WithEvent starts collecting canonical-line fields in ctx. The returned
// func yields what handlers added so far.
func WithEvent(ctx context.Context) (context.Context, func() []zap.Field) {
	ev := &event{}
	return context.WithValue(ctx, eventKey{}, ev), func() []zap.Field {
		ev.mu.Lock()
		defer ev.mu.Unlock()
		return append([]zap.Field(nil), ev.fields...)
	}
}

// AddEventFields attaches fields to the canonical line of the request in
// ctx. Without WithEvent it does nothing.
func AddEventFields(ctx context.Context, fields ...zap.Field) {
	ev, ok := ctx.Value(eventKey{}).(*event)
	if !ok {
		return
	}
	ev.mu.Lock()
	ev.fields = append(ev.fields, fields...)
	ev.mu.Unlock()
}
