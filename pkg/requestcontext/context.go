// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them, services read them, tests
// inject them — without services importing net/http.
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	identityIDKey  struct{}
	nicknameKey    struct{}
	adminKey       struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// IdentityID retrieves the resolved durable identity from the context.
// Empty if the request carries no session.
func IdentityID(ctx context.Context) string {
	if id, ok := ctx.Value(identityIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithIdentityID injects a durable identity into the context.
func WithIdentityID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, identityIDKey{}, id)
}

// Nickname retrieves the display nickname claimed at sign-in.
func Nickname(ctx context.Context) string {
	if n, ok := ctx.Value(nicknameKey{}).(string); ok {
		return n
	}
	return ""
}

// WithNickname injects a display nickname into the context.
func WithNickname(ctx context.Context, nickname string) context.Context {
	return context.WithValue(ctx, nicknameKey{}, nickname)
}

// Admin reports whether the session was resolved as an administrator.
// The flag is decided once, when the session is resolved, and carried
// here rather than re-derived at call sites.
func Admin(ctx context.Context) bool {
	if a, ok := ctx.Value(adminKey{}).(bool); ok {
		return a
	}
	return false
}

// WithAdmin marks the context as belonging to an administrator session.
func WithAdmin(ctx context.Context, admin bool) context.Context {
	return context.WithValue(ctx, adminKey{}, admin)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Now retrieves the request-scoped time, falling back to time.Now for
// non-HTTP contexts (workers, CLI, tests that don't care).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a fixed time into a context. Used by tests that assert
// on timestamps and by the middleware that pins one time per request.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
