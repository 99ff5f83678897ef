package http

import "context"

type contextKey string

const callerKey contextKey = "caller"

// WithCaller returns a context carrying the verified token subject (the calling form or site).
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFromContext returns the verified caller from the context, if present.
func CallerFromContext(ctx context.Context) (string, bool) {
	caller, ok := ctx.Value(callerKey).(string)
	return caller, ok
}
