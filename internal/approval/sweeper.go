package approval

import (
	"context"
	"fmt"
	"time"

	"hireflow/internal/applicant/models"
	"hireflow/internal/notification"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	audit "hireflow/pkg/platform/audit"
)

// DefaultSweepInterval is how often the sweeper looks for stale grants.
const DefaultSweepInterval = 15 * time.Minute

// RunSweeper revokes expired approval grants until the context is done.
// Lazy expiry checks on verify remain the authoritative control; the
// sweeper exists so an abandoned applicant does not hold a dead token
// forever and the tenant hears about the lapse. Blocks; run in a goroutine.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one revocation pass. Exported so tests and operators can force
// a pass without waiting out the ticker.
func (s *Service) Sweep(ctx context.Context) {
	now := time.Now().UTC()
	stale, err := s.applicants.ListExpiredGrants(ctx, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "stale grant listing failed", "error", err)
		return
	}

	for _, candidate := range stale {
		if err := s.revokeExpired(ctx, candidate.ID, now); err != nil {
			s.logger.ErrorContext(ctx, "stale grant revocation failed",
				"error", err,
				"applicant_id", candidate.ID.String(),
			)
		}
	}
}

// revokeExpired clears one grant, re-checking expiry under the record lock
// so a grant re-issued between the listing and the revocation survives.
func (s *Service) revokeExpired(ctx context.Context, applicantID id.ApplicantID, now time.Time) error {
	applicant, err := s.applicants.Execute(ctx, applicantID,
		func(a *models.Applicant) error {
			if a.Hiring.Grant == nil || a.Hiring.Grant.Active(now) {
				return dErrors.New(dErrors.CodeConflict, "grant is no longer stale")
			}
			return nil
		},
		func(a *models.Applicant) []models.HistoryEntry {
			a.Hiring.Grant = nil
			a.UpdatedAt = now
			return []models.HistoryEntry{{
				ApplicantID: a.ID,
				Status:      a.Status,
				ChangedBy:   "system",
				Comment:     "approval grant expired without a decision",
				Timestamp:   now,
			}}
		},
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return nil
		}
		return wrapStoreErr(err)
	}

	s.metrics.IncrementSwept()
	s.emitAudit(ctx, applicant, audit.EventApprovalTokenExpired, "", "system")

	notice := notification.Notice{
		TenantID:    applicant.TenantID,
		ApplicantID: applicant.ID,
		Title:       "Approval request expired",
		Body:        fmt.Sprintf("The approval request for %s expired without a decision. Re-submit for approval to send new requests.", applicant.FullName),
		EmittedAt:   now,
	}
	if err := s.notifier.Notify(ctx, notice); err != nil {
		s.logger.ErrorContext(ctx, "expiry notification failed",
			"error", err,
			"applicant_id", applicant.ID.String(),
		)
	}
	return nil
}
