package audit

import (
	"time"

	id "hireflow/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// Hiring decisions fall here: they require tamper-proof storage and
	// long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring.
	// Examples: approval token issuance, failed token verification.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and
	// operational visibility. These can be sampled with short retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
//
// Audit events complement, never replace, the applicant history ledger: the
// ledger is part of the aggregate's contract, audit is operational exhaust.
type Event struct {
	Category    EventCategory
	Timestamp   time.Time
	TenantID    id.TenantID
	ApplicantID id.ApplicantID
	Action      string
	Decision    string
	Reason      string
	// Actor is who performed the action: a user name for authenticated
	// operations, the decider name for remote approval decisions.
	Actor string
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string
	// Device is the parsed User-Agent summary recorded by middleware.
	Device string
}

type AuditEvent string

const (
	// Workflow events
	EventApplicantCreated    AuditEvent = "applicant_created"
	EventStatusChanged       AuditEvent = "status_changed"
	EventInterviewUpdated    AuditEvent = "interview_updated"
	EventTestsScored         AuditEvent = "tests_scored"
	EventAccreditationMarked AuditEvent = "accreditation_marked"

	// Remote approval events
	EventApprovalRequested     AuditEvent = "approval_requested"
	EventApprovalTokenIssued   AuditEvent = "approval_token_issued"
	EventApprovalTokenRejected AuditEvent = "approval_token_rejected"
	EventApprovalTokenExpired  AuditEvent = "approval_token_expired"
	EventApprovalConsumed      AuditEvent = "approval_consumed"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	// Compliance events - require tamper-proof storage
	EventApplicantCreated: CategoryCompliance,
	EventStatusChanged:    CategoryCompliance,
	EventApprovalConsumed: CategoryCompliance,

	// Security events - feed into monitoring and alerting
	EventApprovalTokenIssued:   CategorySecurity,
	EventApprovalTokenRejected: CategorySecurity,
	EventApprovalTokenExpired:  CategorySecurity,

	// Operations events - routine activity, can be sampled
	EventInterviewUpdated:    CategoryOperations,
	EventTestsScored:         CategoryOperations,
	EventAccreditationMarked: CategoryOperations,
	EventApprovalRequested:   CategoryOperations,
}

// Category returns the category for an audit event, defaulting to operations
// for unknown actions.
func (e AuditEvent) Category() EventCategory {
	if category, ok := eventCategories[e]; ok {
		return category
	}
	return CategoryOperations
}
