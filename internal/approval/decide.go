package approval

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"hireflow/internal/applicant/models"
	"hireflow/internal/mailer"
	"hireflow/internal/notification"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	audit "hireflow/pkg/platform/audit"
	"hireflow/pkg/platform/sentinel"
	"hireflow/pkg/requestcontext"
)

// Decision is a manager's verdict on an applicant.
type Decision string

const (
	DecisionApprove Decision = "approved"
	DecisionReject  Decision = "rejected"
)

// ParseDecision validates a wire value. The bare verb forms are accepted
// as aliases.
func ParseDecision(raw string) (Decision, error) {
	switch raw {
	case "approved", "approve":
		return DecisionApprove, nil
	case "rejected", "reject":
		return DecisionReject, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "decision must be approved or rejected")
	}
}

// Details is the limited applicant view shown on the unauthenticated
// approval page. No national ID, no contact data, no tenant internals.
type Details struct {
	FullName     string        `json:"full_name"`
	Position     string        `json:"position"`
	Department   string        `json:"department"`
	Compensation string        `json:"compensation"`
	Status       models.Status `json:"status"`
}

// Verify checks the presented token against the applicant's outstanding
// grant. It does not consume: a manager may open the page repeatedly until
// they decide. Every failure, including an unknown applicant ID, yields the
// same generic authorization error.
func (s *Service) Verify(ctx context.Context, applicantID id.ApplicantID, token string) error {
	applicant, err := s.applicants.FindByID(ctx, applicantID)
	if err != nil {
		s.metrics.IncrementVerifyFailure()
		if errors.Is(err, sentinel.ErrNotFound) {
			return errAuthorization()
		}
		return wrapStoreErr(err)
	}
	if err := checkGrant(applicant, token, requestcontext.Now(ctx)); err != nil {
		s.metrics.IncrementVerifyFailure()
		s.emitAudit(ctx, applicant, audit.EventApprovalTokenRejected, "", "")
		s.logger.WarnContext(ctx, "approval token rejected",
			"applicant_id", applicantID.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		return err
	}
	return nil
}

// ViewDetails returns the approval-page view after a successful verify.
func (s *Service) ViewDetails(ctx context.Context, applicantID id.ApplicantID, token string) (*Details, error) {
	if err := s.Verify(ctx, applicantID, token); err != nil {
		return nil, err
	}
	applicant, err := s.applicants.FindByID(ctx, applicantID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &Details{
		FullName:     applicant.FullName,
		Position:     applicant.Position,
		Department:   applicant.Department,
		Compensation: applicant.Worker.Salary,
		Status:       applicant.Status,
	}, nil
}

// Consume verifies the token and applies the verdict in one locked
// mutation: status moves to hired or rejected, the decision mirrors into the
// worker validation sub-status, the decider and note are recorded, and the
// grant is cleared so the token can never be spent twice. Exactly one
// history entry records the decision. Post-commit messaging is best effort.
func (s *Service) Consume(ctx context.Context, applicantID id.ApplicantID, token string, decision Decision, deciderName, note string) (*models.Applicant, error) {
	ctx, span := s.tracer.Start(ctx, "approval.Consume", trace.WithAttributes(
		attribute.String("applicant.id", applicantID.String()),
		attribute.String("decision", string(decision))))
	defer span.End()

	target := models.StatusHired
	validation := models.WorkerValidationApproved
	if decision == DecisionReject {
		target = models.StatusRejected
		validation = models.WorkerValidationRejected
	}

	comment := fmt.Sprintf("management decision %s by %s", decision, deciderName)
	if note != "" {
		comment = fmt.Sprintf("%s: %s", comment, note)
	}

	now := requestcontext.Now(ctx)
	applicant, err := s.applicants.Execute(ctx, applicantID,
		func(a *models.Applicant) error {
			if err := checkGrant(a, token, now); err != nil {
				return err
			}
			return requireManagementApproval(a)
		},
		func(a *models.Applicant) []models.HistoryEntry {
			a.ApplyStatus(target, now)
			a.Worker.Validation = validation
			a.Hiring.Grant = nil
			a.Hiring.DecidedBy = deciderName
			a.Hiring.DecisionNote = note
			a.Hiring.DecidedAt = &now
			return []models.HistoryEntry{{
				ApplicantID: a.ID,
				Status:      a.Status,
				ChangedBy:   deciderName,
				Comment:     comment,
				Timestamp:   now,
			}}
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			err = errAuthorization()
		}
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.metrics.IncrementVerifyFailure()
			s.logger.WarnContext(ctx, "approval consumption rejected",
				"applicant_id", applicantID.String(),
				"request_id", requestcontext.RequestID(ctx),
			)
			return nil, err
		}
		return nil, wrapStoreErr(err)
	}

	s.metrics.IncrementConsumed(string(decision))
	s.emitAudit(ctx, applicant, audit.EventApprovalConsumed, string(decision), deciderName)
	s.announceVerdict(ctx, applicant, decision, deciderName, note)

	s.logger.InfoContext(ctx, "approval consumed",
		"applicant_id", applicant.ID.String(),
		"decision", string(decision),
		"request_id", requestcontext.RequestID(ctx),
	)
	return applicant, nil
}

// announceVerdict fans the decision out to the tenant and the administrative
// recipients. The decision has already committed; failures log and move on.
func (s *Service) announceVerdict(ctx context.Context, applicant *models.Applicant, decision Decision, deciderName, note string) {
	body := fmt.Sprintf("%s was %s by %s", applicant.FullName, verdictWord(decision), deciderName)
	if note != "" {
		body = fmt.Sprintf("%s: %s", body, note)
	}

	notice := notification.Notice{
		TenantID:    applicant.TenantID,
		ApplicantID: applicant.ID,
		Title:       "Hiring decision received",
		Body:        body,
		EmittedAt:   requestcontext.Now(ctx),
	}
	if err := s.notifier.Notify(ctx, notice); err != nil {
		s.logger.ErrorContext(ctx, "verdict notification failed",
			"error", err,
			"applicant_id", applicant.ID.String(),
		)
	}

	for _, recipient := range s.adminRecipients {
		msg := mailer.Message{
			To:       recipient,
			Subject:  fmt.Sprintf("Hiring decision: %s", applicant.FullName),
			HTMLBody: "<p>" + body + "</p>",
			QueuedAt: requestcontext.Now(ctx),
		}
		if err := s.mailer.Enqueue(ctx, msg); err != nil {
			s.logger.ErrorContext(ctx, "verdict message enqueue failed",
				"error", err,
				"recipient", recipient,
				"applicant_id", applicant.ID.String(),
			)
		}
	}
}

func verdictWord(decision Decision) string {
	if decision == DecisionApprove {
		return "approved for hire"
	}
	return "rejected"
}
