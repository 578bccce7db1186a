// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services read them. Keeping the package free
// of net/http dependencies means services never import transport code just to
// know who is acting or when the request started.
//
// Usage in services (read values):
//
//	actor := requestcontext.Actor(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithActor(ctx, testActor)
package requestcontext

import (
	"context"
	"time"

	id "hireflow/pkg/domain"
)

// Role is the coarse authorization role resolved for the acting identity.
type Role string

const (
	// RoleMember is a regular tenant user; all reads and writes are scoped
	// to the member's own tenant.
	RoleMember Role = "member"

	// RolePlatformAdmin and RoleSupport are the two privileged identities
	// allowed to act across tenant boundaries.
	RolePlatformAdmin Role = "platform_admin"
	RoleSupport       Role = "support"
)

// ActingIdentity describes who is performing the current request.
type ActingIdentity struct {
	UserID   id.UserID
	TenantID id.TenantID
	Name     string
	Role     Role
}

// CrossTenant reports whether the identity may read and mutate records
// outside its own tenant.
func (a ActingIdentity) CrossTenant() bool {
	return a.Role == RolePlatformAdmin || a.Role == RoleSupport
}

type (
	actorKey       struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	deviceKey      struct{}
)

// Actor retrieves the acting identity from the context. Returns the zero
// value if not set.
func Actor(ctx context.Context) ActingIdentity {
	if actor, ok := ctx.Value(actorKey{}).(ActingIdentity); ok {
		return actor
	}
	return ActingIdentity{}
}

// WithActor injects an acting identity into the context.
func WithActor(ctx context.Context, actor ActingIdentity) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Device retrieves the client device summary (browser/OS, from the parsed
// User-Agent) recorded by middleware. Empty outside HTTP requests.
func Device(ctx context.Context) string {
	if device, ok := ctx.Value(deviceKey{}).(string); ok {
		return device
	}
	return ""
}

// WithDevice injects a device summary into the context.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, deviceKey{}, device)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts like workers and tests.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests and for workers that need a consistent time within one batch.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
