package service

import (
	"context"

	"hireflow/internal/applicant/models"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	"hireflow/pkg/requestcontext"
)

// WorkerInput updates the applicant's administrative worker record.
type WorkerInput struct {
	Salary     string                  `json:"salary"`
	Validation models.WorkerValidation `json:"validation"`
}

// UpdateWorker sets the worker financial record fields. Submitting the
// record for approval is what arms the management-approval guard; nothing
// here moves the top-level status.
func (s *Service) UpdateWorker(ctx context.Context, applicantID id.ApplicantID, input WorkerInput) (*models.Applicant, error) {
	ctx, span := s.startSpan(ctx, "applicant.UpdateWorker", applicantID)
	defer span.End()

	switch input.Validation {
	case models.WorkerValidationDraft, models.WorkerValidationSubmitted,
		models.WorkerValidationApproved, models.WorkerValidationRejected:
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "unknown worker validation state: "+string(input.Validation))
	}

	applicant, err := s.execute(ctx, applicantID,
		func(a *models.Applicant) error {
			if a.Status.Terminal() {
				return dErrors.New(dErrors.CodeGuardViolation,
					"worker record cannot change once the applicant is "+string(a.Status))
			}
			return nil
		},
		func(a *models.Applicant) []models.HistoryEntry {
			a.Worker.Salary = input.Salary
			a.Worker.Validation = input.Validation
			a.UpdatedAt = requestcontext.Now(ctx)
			return historyEntry(ctx, a, "worker record updated, validation "+string(input.Validation))
		},
	)
	if err != nil {
		s.countGuardViolation(err)
		return nil, err
	}
	return applicant, nil
}

// DocumentsInput reports contract document collection progress.
type DocumentsInput struct {
	Received  []string `json:"received"`
	Completed bool     `json:"completed"`
}

// RecordDocuments tracks which contract documents have come in. Advancing
// out of document collection stays an explicit status change.
func (s *Service) RecordDocuments(ctx context.Context, applicantID id.ApplicantID, input DocumentsInput) (*models.Applicant, error) {
	ctx, span := s.startSpan(ctx, "applicant.RecordDocuments", applicantID)
	defer span.End()

	now := requestcontext.Now(ctx)
	comment := "contract documents updated"
	if input.Completed {
		comment = "contract document collection completed"
	}

	applicant, err := s.execute(ctx, applicantID,
		func(a *models.Applicant) error {
			return requireStatus(a, models.StatusDocumentCollection)
		},
		func(a *models.Applicant) []models.HistoryEntry {
			a.Documents.Received = input.Received
			a.Documents.Completed = input.Completed
			a.Documents.UpdatedAt = &now
			a.UpdatedAt = now
			return historyEntry(ctx, a, comment)
		},
	)
	if err != nil {
		s.countGuardViolation(err)
		return nil, err
	}
	return applicant, nil
}
