// Package tenant enforces the tenant boundary. Identity and tenant are
// resolved upstream (auth middleware); this package owns the single rule for
// who may touch whose records.
package tenant

import (
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	"hireflow/pkg/requestcontext"
)

// CanAccess reports whether the actor may read or mutate a record owned by
// the given tenant. Only the two privileged roles cross tenant boundaries.
func CanAccess(actor requestcontext.ActingIdentity, owner id.TenantID) bool {
	if actor.CrossTenant() {
		return true
	}
	return !actor.TenantID.IsNil() && actor.TenantID == owner
}

// Authorize returns a not-found error when access is denied. Out-of-tenant
// records must be indistinguishable from absent ones so callers cannot probe
// for existence.
func Authorize(actor requestcontext.ActingIdentity, owner id.TenantID) error {
	if !CanAccess(actor, owner) {
		return dErrors.New(dErrors.CodeNotFound, "applicant not found")
	}
	return nil
}
