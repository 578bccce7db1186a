package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"hireflow/internal/applicant/models"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	audit "hireflow/pkg/platform/audit"
	"hireflow/pkg/requestcontext"
)

// CreateInput carries the intake fields for a new applicant.
type CreateInput struct {
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

// Create registers an applicant at intake for the acting identity's tenant.
// Privileged actors have no home tenant and cannot create applicants.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Applicant, error) {
	actor := requestcontext.Actor(ctx)
	if actor.TenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only tenant members can register applicants")
	}

	applicantID := id.ApplicantID(uuid.New())
	ctx, span := s.startSpan(ctx, "applicant.Create", applicantID)
	defer span.End()

	applicant, err := models.New(applicantID, actor.TenantID, input.FullName, input.NationalID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	applicant.Email = input.Email
	applicant.Phone = input.Phone
	applicant.Position = input.Position
	applicant.Department = input.Department

	if err := s.applicants.Create(ctx, applicant); err != nil {
		return nil, wrapApplicantErr(err)
	}
	if err := s.appendHistory(ctx, applicant, "applicant registered"); err != nil {
		return nil, err
	}

	s.logAudit(ctx, applicant, audit.EventApplicantCreated,
		"tenant_id", applicant.TenantID.String())
	return applicant, nil
}

// Get returns one applicant. A record outside the actor's tenant reads as
// absent.
func (s *Service) Get(ctx context.Context, applicantID id.ApplicantID) (*models.Applicant, error) {
	applicant, err := s.applicants.FindByID(ctx, applicantID)
	if err != nil {
		return nil, wrapApplicantErr(err)
	}
	if err := scope(ctx, nil)(applicant); err != nil {
		return nil, err
	}
	return applicant, nil
}

// List returns the applicants of one tenant. Members may only list their own
// tenant; an out-of-scope tenant reads as empty-handed not-found.
func (s *Service) List(ctx context.Context, tenantID id.TenantID) ([]*models.Applicant, error) {
	actor := requestcontext.Actor(ctx)
	if !actor.CrossTenant() && actor.TenantID != tenantID {
		return nil, dErrors.New(dErrors.CodeNotFound, "applicant not found")
	}
	applicants, err := s.applicants.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, wrapApplicantErr(err)
	}
	return applicants, nil
}

// History returns the applicant's ledger in append order.
func (s *Service) History(ctx context.Context, applicantID id.ApplicantID) ([]models.HistoryEntry, error) {
	if _, err := s.Get(ctx, applicantID); err != nil {
		return nil, err
	}
	entries, err := s.history.List(ctx, applicantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read history")
	}
	return entries, nil
}

// UpdateStatus performs the generic guarded transition: table check, guard
// check, mutation, exactly one ledger entry, notification. Entering
// management approval additionally mints an approval grant and fans out
// request messages to the configured approvers.
func (s *Service) UpdateStatus(ctx context.Context, applicantID id.ApplicantID, target models.Status, comment string) (*models.Applicant, error) {
	ctx, span := s.startSpan(ctx, "applicant.UpdateStatus", applicantID)
	defer span.End()

	var from models.Status
	applicant, err := s.execute(ctx, applicantID,
		func(a *models.Applicant) error {
			from = a.Status
			return a.CanChangeStatus(target)
		},
		func(a *models.Applicant) []models.HistoryEntry {
			a.ApplyStatus(target, requestcontext.Now(ctx))
			if comment == "" {
				comment = models.DefaultComment(from, target)
			}
			return historyEntry(ctx, a, comment)
		},
	)
	if err != nil {
		s.countGuardViolation(err)
		return nil, err
	}
	s.metrics.IncrementTransition(string(target))

	s.logAudit(ctx, applicant, audit.EventStatusChanged,
		"from", string(from),
		"to", string(target),
		"reason", comment,
	)
	s.notify(ctx, applicant, "Applicant status changed",
		fmt.Sprintf("%s moved from %s to %s", applicant.FullName, from, target))

	if target == models.StatusPendingManagementApproval {
		if err := s.requestApproval(ctx, applicant); err != nil {
			return nil, err
		}
		// Reload so callers see the grant bookkeeping.
		return s.Get(ctx, applicantID)
	}
	return applicant, nil
}

// requestApproval mints a fresh grant and dispatches the approver fan-out.
// An empty approver list is a deployment misconfiguration and surfaces as an
// error so the operator notices before an applicant strands.
func (s *Service) requestApproval(ctx context.Context, applicant *models.Applicant) error {
	if s.approvals == nil {
		return dErrors.New(dErrors.CodeInternal, "approval dispatch is not configured")
	}
	sent, err := s.approvals.Request(ctx, applicant.ID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to dispatch approval requests")
	}
	if err := s.appendHistory(ctx, applicant, fmt.Sprintf("approval requested, %d messages dispatched", sent)); err != nil {
		return err
	}
	s.emitAudit(ctx, applicant, audit.EventApprovalRequested, "")
	return nil
}

func (s *Service) countGuardViolation(err error) {
	if dErrors.HasCode(err, dErrors.CodeGuardViolation) {
		s.metrics.IncrementGuardViolation()
	}
}
