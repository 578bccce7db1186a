package service

import (
	"context"
	"fmt"

	"hireflow/internal/applicant/models"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	audit "hireflow/pkg/platform/audit"
	"hireflow/pkg/requestcontext"
)

// ChecklistInput marks one accreditation checklist item.
type ChecklistInput struct {
	Category    string                 `json:"category"`
	Name        string                 `json:"name"`
	Status      models.ChecklistStatus `json:"status"`
	Observation string                 `json:"observation"`
}

// MarkChecklistItem records the status of one checklist item, creating the
// item on first reference. Marking an item not approved rejects the
// applicant; the history entry names the item and its observation.
func (s *Service) MarkChecklistItem(ctx context.Context, applicantID id.ApplicantID, input ChecklistInput) (*models.Applicant, error) {
	ctx, span := s.startSpan(ctx, "applicant.MarkChecklistItem", applicantID)
	defer span.End()

	switch input.Status {
	case models.ChecklistPending, models.ChecklistApproved, models.ChecklistNotApproved:
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "unknown checklist status: "+string(input.Status))
	}
	if input.Category == "" || input.Name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "checklist item needs a category and a name")
	}

	now := requestcontext.Now(ctx)
	rejected := input.Status == models.ChecklistNotApproved

	comment := fmt.Sprintf("accreditation item %s/%s marked %s", input.Category, input.Name, input.Status)
	if rejected {
		comment = fmt.Sprintf("%s: %s", comment, input.Observation)
	}

	applicant, err := s.execute(ctx, applicantID,
		func(a *models.Applicant) error {
			return requireStatus(a, models.StatusAccreditation)
		},
		func(a *models.Applicant) []models.HistoryEntry {
			item := a.Accreditation.Upsert(input.Category, input.Name)
			item.Status = input.Status
			item.Observation = input.Observation
			item.UpdatedAt = now
			if rejected {
				a.ApplyStatus(models.StatusRejected, now)
			} else {
				a.UpdatedAt = now
			}
			return historyEntry(ctx, a, comment)
		},
	)
	if err != nil {
		s.countGuardViolation(err)
		return nil, err
	}

	if rejected {
		s.metrics.IncrementTransition(string(models.StatusRejected))
	}
	s.emitAudit(ctx, applicant, audit.EventAccreditationMarked, comment)
	if rejected {
		s.notify(ctx, applicant, "Applicant rejected",
			fmt.Sprintf("%s: %s", applicant.FullName, comment))
	}
	return applicant, nil
}
