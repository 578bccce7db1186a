package service

import (
	"context"
	"fmt"
	"time"

	"hireflow/internal/applicant/models"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	audit "hireflow/pkg/platform/audit"
	"hireflow/pkg/requestcontext"
)

// Interview sub-workflow. The interview methods on the model validate and
// mutate in one step, so they run in the validate phase of Execute: a
// precondition failure aborts before anything persists.

func requireStatus(a *models.Applicant, want models.Status) error {
	if a.Status != want {
		return dErrors.New(dErrors.CodeGuardViolation,
			"operation requires applicant status "+string(want)+", current is "+string(a.Status))
	}
	return nil
}

// ScheduleInterview sets or replaces the interview date while the interview
// is still unconfirmed.
func (s *Service) ScheduleInterview(ctx context.Context, applicantID id.ApplicantID, at time.Time, location string) (*models.Applicant, error) {
	ctx, span := s.startSpan(ctx, "applicant.ScheduleInterview", applicantID)
	defer span.End()

	comment := fmt.Sprintf("interview scheduled for %s", at.Format(time.RFC3339))
	applicant, err := s.execute(ctx, applicantID,
		func(a *models.Applicant) error {
			if err := requireStatus(a, models.StatusInterviewing); err != nil {
				return err
			}
			a.Interview.Schedule(at, location)
			return nil
		},
		func(a *models.Applicant) []models.HistoryEntry {
			a.UpdatedAt = requestcontext.Now(ctx)
			return historyEntry(ctx, a, comment)
		},
	)
	if err != nil {
		s.countGuardViolation(err)
		return nil, err
	}

	s.emitAudit(ctx, applicant, audit.EventInterviewUpdated, comment)
	s.notify(ctx, applicant, "Interview scheduled",
		fmt.Sprintf("%s: interview scheduled for %s", applicant.FullName, at.Format(time.RFC3339)))
	return applicant, nil
}

// ConfirmInterview marks the scheduled date confirmed by the acting user.
func (s *Service) ConfirmInterview(ctx context.Context, applicantID id.ApplicantID) (*models.Applicant, error) {
	ctx, span := s.startSpan(ctx, "applicant.ConfirmInterview", applicantID)
	defer span.End()

	actor := requestcontext.Actor(ctx)
	applicant, err := s.execute(ctx, applicantID,
		func(a *models.Applicant) error {
			if err := requireStatus(a, models.StatusInterviewing); err != nil {
				return err
			}
			return a.Interview.Confirm(actor.Name, requestcontext.Now(ctx))
		},
		func(a *models.Applicant) []models.HistoryEntry {
			a.UpdatedAt = requestcontext.Now(ctx)
			return historyEntry(ctx, a, "interview confirmed")
		},
	)
	if err != nil {
		s.countGuardViolation(err)
		return nil, err
	}

	s.emitAudit(ctx, applicant, audit.EventInterviewUpdated, "interview confirmed")
	return applicant, nil
}

// RescheduleInterview replaces the interview date, archiving the previous
// one with the stated reason.
func (s *Service) RescheduleInterview(ctx context.Context, applicantID id.ApplicantID, newDate time.Time, reason string) (*models.Applicant, error) {
	ctx, span := s.startSpan(ctx, "applicant.RescheduleInterview", applicantID)
	defer span.End()

	comment := fmt.Sprintf("interview rescheduled to %s: %s", newDate.Format(time.RFC3339), reason)
	applicant, err := s.execute(ctx, applicantID,
		func(a *models.Applicant) error {
			if err := requireStatus(a, models.StatusInterviewing); err != nil {
				return err
			}
			return a.Interview.RescheduleTo(newDate, reason, requestcontext.Now(ctx))
		},
		func(a *models.Applicant) []models.HistoryEntry {
			a.UpdatedAt = requestcontext.Now(ctx)
			return historyEntry(ctx, a, comment)
		},
	)
	if err != nil {
		s.countGuardViolation(err)
		return nil, err
	}

	s.emitAudit(ctx, applicant, audit.EventInterviewUpdated, comment)
	s.notify(ctx, applicant, "Interview rescheduled",
		fmt.Sprintf("%s: interview moved to %s", applicant.FullName, newDate.Format(time.RFC3339)))
	return applicant, nil
}

// CancelInterview cancels the interview and rejects the applicant.
func (s *Service) CancelInterview(ctx context.Context, applicantID id.ApplicantID, reason string) (*models.Applicant, error) {
	return s.closeInterview(ctx, applicantID, "interview cancelled", reason,
		func(i *models.Interview) error { return i.Cancel(reason) })
}

// SuspendInterview suspends the interview and rejects the applicant.
func (s *Service) SuspendInterview(ctx context.Context, applicantID id.ApplicantID, reason string) (*models.Applicant, error) {
	return s.closeInterview(ctx, applicantID, "interview suspended", reason,
		func(i *models.Interview) error { return i.Suspend(reason) })
}

// closeInterview ends the interview on a failure path. The status moves to
// rejected in the same locked mutation, and the one history entry records
// both the interview outcome and the transition.
func (s *Service) closeInterview(ctx context.Context, applicantID id.ApplicantID, what, reason string,
	close func(*models.Interview) error) (*models.Applicant, error) {

	ctx, span := s.startSpan(ctx, "applicant.CloseInterview", applicantID)
	defer span.End()

	comment := fmt.Sprintf("%s: %s", what, reason)
	applicant, err := s.execute(ctx, applicantID,
		func(a *models.Applicant) error {
			if err := requireStatus(a, models.StatusInterviewing); err != nil {
				return err
			}
			return close(&a.Interview)
		},
		func(a *models.Applicant) []models.HistoryEntry {
			a.ApplyStatus(models.StatusRejected, requestcontext.Now(ctx))
			return historyEntry(ctx, a, comment)
		},
	)
	if err != nil {
		s.countGuardViolation(err)
		return nil, err
	}

	s.metrics.IncrementTransition(string(models.StatusRejected))
	s.emitAudit(ctx, applicant, audit.EventInterviewUpdated, comment)
	s.notify(ctx, applicant, "Applicant rejected", fmt.Sprintf("%s: %s", applicant.FullName, comment))
	return applicant, nil
}

// CompleteInterview records the outcome. A positive result advances the
// applicant to testing; a negative one rejects.
func (s *Service) CompleteInterview(ctx context.Context, applicantID id.ApplicantID, result models.InterviewResult) (*models.Applicant, error) {
	ctx, span := s.startSpan(ctx, "applicant.CompleteInterview", applicantID)
	defer span.End()

	target := models.StatusTesting
	if result == models.InterviewResultNOK {
		target = models.StatusRejected
	}

	comment := fmt.Sprintf("interview completed with result %s", result)
	applicant, err := s.execute(ctx, applicantID,
		func(a *models.Applicant) error {
			if err := requireStatus(a, models.StatusInterviewing); err != nil {
				return err
			}
			return a.Interview.Complete(result)
		},
		func(a *models.Applicant) []models.HistoryEntry {
			a.ApplyStatus(target, requestcontext.Now(ctx))
			return historyEntry(ctx, a, comment)
		},
	)
	if err != nil {
		s.countGuardViolation(err)
		return nil, err
	}

	s.metrics.IncrementTransition(string(target))
	s.emitAudit(ctx, applicant, audit.EventInterviewUpdated, comment)
	s.notify(ctx, applicant, "Interview completed",
		fmt.Sprintf("%s: %s, status is now %s", applicant.FullName, comment, target))
	return applicant, nil
}
