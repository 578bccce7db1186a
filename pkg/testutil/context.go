package testutil

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	id "hireflow/pkg/domain"
	"hireflow/pkg/requestcontext"
)

// NewActor builds a tenant-scoped acting identity for tests.
func NewActor(tenantID id.TenantID, name string) requestcontext.ActingIdentity {
	return requestcontext.ActingIdentity{
		UserID:   id.UserID(uuid.New()),
		TenantID: tenantID,
		Name:     name,
		Role:     requestcontext.RoleMember,
	}
}

// WithActor adds an acting identity to the request context, simulating what
// the auth middleware would do for authenticated requests.
func WithActor(req *http.Request, actor requestcontext.ActingIdentity) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}

// WithTime pins the request-scoped clock, simulating the request-time
// middleware.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
