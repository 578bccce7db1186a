// Package domain holds identifier types shared across verticals.
//
// IDs are distinct types over uuid.UUID so the compiler rejects cross-type
// assignment: an ApplicantID can never be passed where a TenantID is
// expected. Tenant scoping bugs become compile errors instead of data leaks.
package domain

import (
	"github.com/google/uuid"

	dErrors "hireflow/pkg/domain-errors"
)

type (
	// TenantID identifies an isolated company/organization.
	TenantID uuid.UUID

	// UserID identifies an authenticated user inside a tenant.
	UserID uuid.UUID

	// ApplicantID identifies one applicant aggregate.
	ApplicantID uuid.UUID
)

func (id TenantID) String() string    { return uuid.UUID(id).String() }
func (id UserID) String() string      { return uuid.UUID(id).String() }
func (id ApplicantID) String() string { return uuid.UUID(id).String() }

func (id TenantID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id ApplicantID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// parseUUID rejects empty strings, malformed values, and the nil UUID so a
// zero identifier can never masquerade as a real one.
func parseUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "identifier is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "identifier is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "identifier must not be the nil UUID")
	}
	return parsed, nil
}

func ParseTenantID(raw string) (TenantID, error) {
	parsed, err := parseUUID(raw)
	return TenantID(parsed), err
}

func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw)
	return UserID(parsed), err
}

func ParseApplicantID(raw string) (ApplicantID, error) {
	parsed, err := parseUUID(raw)
	return ApplicantID(parsed), err
}
