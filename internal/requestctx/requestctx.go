// Package requestctx carries the request id through context. It lives
// outside the transport tree so domain services and background workers can
// read the id without importing HTTP packages.
package requestctx

import "context"

// An unexported struct key cannot collide with context values set by other
// packages, string-typed or otherwise.
type ctxKey struct{}

var requestIDKey ctxKey

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request id, or "" when none was attached.
func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}
