// Package requestcontext carries request-scoped values through a context so
// services and record sources can log them without importing net/http.
package requestcontext

import (
	"context"
	"time"
)

type scopeKey struct{}

type scope struct {
	requestID string
	start     time.Time
}

func from(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

// RequestID returns the request ID, or "" outside a request.
func RequestID(ctx context.Context) string {
	return from(ctx).requestID
}

// WithRequestID returns a child context tagged with id.
func WithRequestID(ctx context.Context, id string) context.Context {
	s := from(ctx)
	s.requestID = id
	return context.WithValue(ctx, scopeKey{}, s)
}

// Start returns the time the request was accepted. ok is false when no
// middleware recorded one, e.g. in CLI commands.
func Start(ctx context.Context) (t time.Time, ok bool) {
	s := from(ctx)
	return s.start, !s.start.IsZero()
}

// Since is the time elapsed between Start and now, or 0 when no start was recorded.
func Since(ctx context.Context, now time.Time) time.Duration {
	start, ok := Start(ctx)
	if !ok {
		return 0
	}
	return now.Sub(start)
}

// WithStart returns a child context recording t as the request start.
func WithStart(ctx context.Context, t time.Time) context.Context {
	s := from(ctx)
	s.start = t
	return context.WithValue(ctx, scopeKey{}, s)
}
