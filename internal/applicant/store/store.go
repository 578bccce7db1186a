// Package store persists applicant aggregates and their history ledger.
//
// History lives in its own append-only store, physically separate from the
// mutable aggregate, so concurrency conflicts on current-state fields can
// never corrupt or truncate the audit trail.
package store

import (
	"context"
	"time"

	"hireflow/internal/applicant/models"
	id "hireflow/pkg/domain"
)

// Store is the applicant record contract. Implementations return
// sentinel.ErrNotFound for absent records and sentinel.ErrAlreadyUsed for
// national ID collisions.
type Store interface {
	Create(ctx context.Context, applicant *models.Applicant) error
	FindByID(ctx context.Context, applicantID id.ApplicantID) (*models.Applicant, error)
	Update(ctx context.Context, applicant *models.Applicant) error

	// Execute runs validate and mutate while holding the record lock
	// (mutex or FOR UPDATE), so the check and the write observe the same
	// state. A validate error aborts without mutating. Ledger entries
	// returned by mutate are appended atomically with the aggregate
	// write: an accepted mutation can never commit without its history.
	Execute(ctx context.Context, applicantID id.ApplicantID,
		validate func(*models.Applicant) error,
		mutate func(*models.Applicant) []models.HistoryEntry) (*models.Applicant, error)

	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.Applicant, error)

	// ListExpiredGrants returns applicants holding an approval grant whose
	// expiry is at or before now. Used by the stale-grant sweeper.
	ListExpiredGrants(ctx context.Context, now time.Time) ([]*models.Applicant, error)
}

// HistoryStore is the append-only ledger contract. Append never overwrites;
// List returns entries in append order.
type HistoryStore interface {
	Append(ctx context.Context, entry models.HistoryEntry) error
	List(ctx context.Context, applicantID id.ApplicantID) ([]models.HistoryEntry, error)
}
