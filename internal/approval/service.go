// Package approval implements the remote management-approval protocol: a
// single-use time-limited bearer token lets a manager decide hire or reject
// over an unauthenticated channel, without an account in the system.
package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"hireflow/internal/applicant/models"
	"hireflow/internal/applicant/store"
	approvalmetrics "hireflow/internal/approval/metrics"
	"hireflow/internal/mailer"
	"hireflow/internal/notification"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	audit "hireflow/pkg/platform/audit"
	"hireflow/pkg/platform/sentinel"
	"hireflow/pkg/requestcontext"
	"hireflow/pkg/secrets"
)

// GrantTTL is how long an approval token stays consumable after issuance.
const GrantTTL = 48 * time.Hour

// errAuthorization is the one message every token failure maps to. The
// caller never learns whether the token was wrong, stale, or never issued.
func errAuthorization() error {
	return dErrors.New(dErrors.CodeUnauthorized, "approval link is invalid or has expired")
}

// AuditPublisher is the audit sink contract.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service issues, verifies, and consumes approval grants. It shares the
// applicant store with the workflow engine so consumption rides the same
// locked validate-then-mutate as every other transition.
type Service struct {
	applicants store.Store
	mailer     mailer.Mailer
	notifier   notification.Notifier

	ttl             time.Duration
	approvers       []string
	adminRecipients []string
	publicBaseURL   string

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *approvalmetrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithMetrics(m *approvalmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithAdminRecipients sets who receives verdict messages after consumption.
func WithAdminRecipients(recipients []string) Option {
	return func(s *Service) { s.adminRecipients = recipients }
}

// New constructs the approval service. approvers receive one request message
// each when a grant is issued; publicBaseURL is the externally reachable
// root the approval links point at.
func New(applicants store.Store, m mailer.Mailer, notifier notification.Notifier,
	approvers []string, publicBaseURL string, opts ...Option) *Service {

	s := &Service{
		applicants:    applicants,
		mailer:        m,
		notifier:      notifier,
		ttl:           GrantTTL,
		approvers:     approvers,
		publicBaseURL: publicBaseURL,
		logger:        slog.Default(),
		tracer:        otel.Tracer("hireflow/approval"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request mints a fresh grant for an applicant in management approval and
// dispatches one approval-request message per configured approver. Issuing
// replaces any outstanding grant, so re-requesting invalidates earlier
// links. Returns the number of messages enqueued; an enqueue failure fails
// the whole request so the operator never believes a dead link was sent.
func (s *Service) Request(ctx context.Context, applicantID id.ApplicantID) (int, error) {
	ctx, span := s.tracer.Start(ctx, "approval.Request", trace.WithAttributes(
		attribute.String("applicant.id", applicantID.String())))
	defer span.End()

	if len(s.approvers) == 0 {
		return 0, dErrors.New(dErrors.CodeInternal, "no approvers configured")
	}

	token, err := secrets.Generate()
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate approval token")
	}

	now := requestcontext.Now(ctx)
	requestedAt := now
	applicant, err := s.applicants.Execute(ctx, applicantID,
		func(a *models.Applicant) error {
			return requireManagementApproval(a)
		},
		func(a *models.Applicant) []models.HistoryEntry {
			a.Hiring.Grant = &models.ApprovalGrant{
				Token:     token,
				IssuedAt:  now,
				ExpiresAt: now.Add(s.ttl),
			}
			a.Hiring.RequestsSent = len(s.approvers)
			a.Hiring.RequestedAt = &requestedAt
			a.UpdatedAt = now
			return nil
		},
	)
	if err != nil {
		return 0, wrapStoreErr(err)
	}

	for _, approver := range s.approvers {
		msg := mailer.Message{
			To:       approver,
			Subject:  fmt.Sprintf("Hiring approval requested: %s", applicant.FullName),
			HTMLBody: s.requestBody(applicant, token),
			QueuedAt: now,
		}
		if err := s.mailer.Enqueue(ctx, msg); err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to enqueue approval request")
		}
	}

	s.metrics.IncrementIssued()
	s.emitAudit(ctx, applicant, audit.EventApprovalTokenIssued, "", "")
	s.logger.InfoContext(ctx, "approval requested",
		"applicant_id", applicant.ID.String(),
		"approvers", len(s.approvers),
		"expires_at", applicant.Hiring.Grant.ExpiresAt,
		"request_id", requestcontext.RequestID(ctx),
	)
	return len(s.approvers), nil
}

func (s *Service) requestBody(applicant *models.Applicant, token string) string {
	link := fmt.Sprintf("%s/approvals/%s?token=%s", s.publicBaseURL, applicant.ID.String(), token)
	return fmt.Sprintf(
		"<p>%s is awaiting your hiring decision for the position of %s (%s).</p>"+
			"<p><a href=%q>Review and decide</a>. The link is valid for %d hours.</p>",
		applicant.FullName, applicant.Position, applicant.Department, link, int(s.ttl.Hours()))
}

func requireManagementApproval(a *models.Applicant) error {
	if a.Status != models.StatusPendingManagementApproval {
		return dErrors.New(dErrors.CodeGuardViolation,
			"applicant is not pending management approval")
	}
	return nil
}

// checkGrant applies the full token check against one loaded applicant.
// Constant-time comparison runs even when no grant exists, keeping the
// timing profile flat across failure modes.
func checkGrant(a *models.Applicant, token string, now time.Time) error {
	stored := ""
	var expiresAt time.Time
	if a.Hiring.Grant != nil {
		stored = a.Hiring.Grant.Token
		expiresAt = a.Hiring.Grant.ExpiresAt
	}
	ok := secrets.Equal(stored, token)
	if stored == "" || !ok || !now.Before(expiresAt) {
		return errAuthorization()
	}
	return nil
}

func wrapStoreErr(err error) error {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "applicant not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "applicant store failed")
}

func (s *Service) emitAudit(ctx context.Context, applicant *models.Applicant, action audit.AuditEvent, decision, actor string) {
	if s.auditPublisher == nil {
		return
	}
	event := audit.Event{
		Timestamp:   requestcontext.Now(ctx),
		TenantID:    applicant.TenantID,
		ApplicantID: applicant.ID,
		Action:      string(action),
		Decision:    decision,
		Actor:       actor,
		RequestID:   requestcontext.RequestID(ctx),
		Device:      requestcontext.Device(ctx),
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"error", err,
			"action", string(action),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
