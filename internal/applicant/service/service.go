// Package service is the applicant workflow engine: it owns the status state
// machine, the sub-workflows, the append-only history ledger, and the rule
// gating entry into management approval.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	workflowmetrics "hireflow/internal/applicant/metrics"
	"hireflow/internal/applicant/models"
	"hireflow/internal/applicant/store"
	"hireflow/internal/notification"
	"hireflow/internal/tenant"
	"hireflow/pkg/attrs"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	audit "hireflow/pkg/platform/audit"
	"hireflow/pkg/platform/sentinel"
	"hireflow/pkg/requestcontext"
)

// ApprovalRequester mints a remote-approval grant for an applicant already
// in management approval and dispatches one request message per configured
// approver. Returns the number of messages enqueued.
type ApprovalRequester interface {
	Request(ctx context.Context, applicantID id.ApplicantID) (int, error)
}

// AuditPublisher is the audit sink contract the engine emits to.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates the applicant workflow. All operations are short-lived
// request/response units; the applicant record is the only durable state.
type Service struct {
	applicants store.Store
	history    store.HistoryStore
	notifier   notification.Notifier
	approvals  ApprovalRequester

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *workflowmetrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithMetrics(m *workflowmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithApprovalRequester(requester ApprovalRequester) Option {
	return func(s *Service) { s.approvals = requester }
}

// New constructs the workflow engine.
func New(applicants store.Store, history store.HistoryStore, notifier notification.Notifier, opts ...Option) *Service {
	s := &Service{
		applicants: applicants,
		history:    history,
		notifier:   notifier,
		logger:     slog.Default(),
		tracer:     otel.Tracer("hireflow/applicant"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// wrapApplicantErr translates store sentinels into domain errors. Everything
// the store cannot name passes through wrapped as internal.
func wrapApplicantErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "applicant not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "national ID is already registered")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "applicant store failed")
	}
}

// scope returns a validate callback enforcing the tenant boundary before any
// domain validation runs. Out-of-tenant reads report not found.
func scope(ctx context.Context, validate func(*models.Applicant) error) func(*models.Applicant) error {
	actor := requestcontext.Actor(ctx)
	return func(a *models.Applicant) error {
		if err := tenant.Authorize(actor, a.TenantID); err != nil {
			return err
		}
		if validate == nil {
			return nil
		}
		return validate(a)
	}
}

// execute runs a scoped validate-then-mutate against the store and maps
// store sentinels. The mutation is at-most-once: no retries, ever, since a
// retry after a partial failure could double-append history.
func (s *Service) execute(ctx context.Context, applicantID id.ApplicantID,
	validate func(*models.Applicant) error,
	mutate func(*models.Applicant) []models.HistoryEntry) (*models.Applicant, error) {

	applicant, err := s.applicants.Execute(ctx, applicantID, scope(ctx, validate), mutate)
	if err != nil {
		var domainErr *dErrors.Error
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, wrapApplicantErr(err)
	}
	return applicant, nil
}

// historyEntry builds one ledger entry for the applicant's current state.
// Mutations return it from the Execute mutate callback so the store commits
// it atomically with the aggregate write.
func historyEntry(ctx context.Context, applicant *models.Applicant, comment string) []models.HistoryEntry {
	return []models.HistoryEntry{{
		ApplicantID: applicant.ID,
		Status:      applicant.Status,
		ChangedBy:   requestcontext.Actor(ctx).Name,
		Comment:     comment,
		Timestamp:   requestcontext.Now(ctx),
	}}
}

// appendHistory writes one ledger entry outside a locked mutation (applicant
// registration, approval dispatch records). A failed append is surfaced: the
// ledger is part of the aggregate's contract, not optional telemetry.
func (s *Service) appendHistory(ctx context.Context, applicant *models.Applicant, comment string) error {
	entries := historyEntry(ctx, applicant, comment)
	if err := s.history.Append(ctx, entries[0]); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append history")
	}
	return nil
}

// notify emits a fire-and-forget notice. Failures are logged, never
// surfaced: the state mutation has already committed.
func (s *Service) notify(ctx context.Context, applicant *models.Applicant, title, body string) {
	notice := notification.Notice{
		TenantID:    applicant.TenantID,
		ApplicantID: applicant.ID,
		Title:       title,
		Body:        body,
		EmittedAt:   requestcontext.Now(ctx),
	}
	if err := s.notifier.Notify(ctx, notice); err != nil {
		s.logger.ErrorContext(ctx, "notification failed",
			"error", err,
			"applicant_id", applicant.ID.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

// logAudit writes one structured log line and mirrors it into the audit
// stream. Attributes are flat key-value pairs in slog style; a "reason"
// attribute, when present, becomes the audit event reason.
func (s *Service) logAudit(ctx context.Context, applicant *models.Applicant, action audit.AuditEvent, attributes ...any) {
	attributes = append(attributes,
		"applicant_id", applicant.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.logger.InfoContext(ctx, string(action), attributes...)
	s.emitAudit(ctx, applicant, action, attrs.ExtractString(attributes, "reason"))
}

// emitAudit publishes an audit event enriched with request context. Audit is
// best effort; failures are logged.
func (s *Service) emitAudit(ctx context.Context, applicant *models.Applicant, action audit.AuditEvent, reason string) {
	if s.auditPublisher == nil {
		return
	}
	event := audit.Event{
		Timestamp:   requestcontext.Now(ctx),
		TenantID:    applicant.TenantID,
		ApplicantID: applicant.ID,
		Action:      string(action),
		Reason:      reason,
		Actor:       requestcontext.Actor(ctx).Name,
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

func (s *Service) startSpan(ctx context.Context, name string, applicantID id.ApplicantID) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("applicant.id", applicantID.String()),
	))
}
