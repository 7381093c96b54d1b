// Package ctxkeys holds typed context keys shared by the transports and the
// dispatcher. It is a leaf package to avoid import cycles.
package ctxkeys

import "context"

// Key is the named type for all request context keys. Using a named type
// keeps them from colliding with plain string keys.
type Key string

const (
	// Subject names the caller: the bearer token subject over HTTP, or the
	// CLI. The dispatcher copies it into every completion event.
	Subject Key = "subject"
)

func WithValue(ctx context.Context, key Key, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

// Value returns the string stored under key, or "".
func Value(ctx context.Context, key Key) string {
	v, _ := ctx.Value(key).(string)
	return v
}
