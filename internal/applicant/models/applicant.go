package models

import (
	"time"

	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
)

// Applicant is the aggregate root for one candidate in the hiring pipeline.
//
// Invariants:
//   - NationalID is unique across the whole system, not per tenant
//   - TenantID is immutable after creation; no operation moves an applicant
//     between tenants
//   - Status only changes along the transition table in status.go
//   - History is kept in a separate append-only store (see store.HistoryStore)
//     so concurrent writes to current-state fields can never truncate it
//
// Concurrency: the store performs read-modify-write per operation and
// last-writer-wins is the accepted semantics on Status and sub-records.
type Applicant struct {
	ID       id.ApplicantID `json:"id"`
	TenantID id.TenantID    `json:"tenant_id"`

	FullName   string `json:"full_name"`
	NationalID string `json:"national_id"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Department string `json:"department"`

	Status Status `json:"status"`

	Interview     Interview     `json:"interview"`
	Tests         Tests         `json:"tests"`
	Documents     Documents     `json:"contract_documents"`
	Accreditation Accreditation `json:"accreditation"`
	Hiring        Hiring        `json:"hiring"`
	Worker        WorkerRecord  `json:"worker"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkerValidation is the administrative sub-status of the worker financial
// record. The management-approval guard reads it; remote approval decisions
// mirror into it.
type WorkerValidation string

const (
	WorkerValidationDraft     WorkerValidation = "draft"
	WorkerValidationSubmitted WorkerValidation = "submitted_for_approval"
	WorkerValidationApproved  WorkerValidation = "approved"
	WorkerValidationRejected  WorkerValidation = "rejected"
)

// WorkerRecord is the applicant's administrative worker record. Payroll
// computation lives elsewhere; the workflow only reads completeness.
type WorkerRecord struct {
	Salary     string           `json:"salary"`
	Validation WorkerValidation `json:"validation"`
}

// ReadyForApproval is the completeness predicate gating entry into
// management approval. Checked at the transition boundary only, never
// enforced as a standing invariant on the stored record.
func (w WorkerRecord) ReadyForApproval() bool {
	return w.Salary != "" && w.Validation == WorkerValidationSubmitted
}

// ApprovalGrant is the single outstanding remote-approval capability for an
// applicant: an opaque bearer token plus its lifetime. Issuance replaces the
// whole value; consumption clears it. Modeling it as one optional value
// keeps token and expiry from drifting apart.
type ApprovalGrant struct {
	Token     string    `json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the grant could still be consumed at the given time.
func (g *ApprovalGrant) Active(now time.Time) bool {
	return g != nil && g.Token != "" && now.Before(g.ExpiresAt)
}

// Hiring tracks the management-approval stage of one applicant.
type Hiring struct {
	Grant *ApprovalGrant `json:"approval_grant,omitempty"`

	// RequestsSent and RequestedAt record the last approval-request
	// dispatch fan-out.
	RequestsSent int        `json:"requests_sent"`
	RequestedAt  *time.Time `json:"requested_at,omitempty"`

	DecidedBy    string     `json:"decided_by,omitempty"`
	DecisionNote string     `json:"decision_note,omitempty"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
}

// Documents tracks contract document collection. Storage of the files
// themselves is an external concern; the workflow only tracks completion.
type Documents struct {
	Received  []string   `json:"received"`
	Completed bool       `json:"completed"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// New validates the identity fields and constructs an applicant at intake.
func New(applicantID id.ApplicantID, tenantID id.TenantID, fullName, nationalID string, now time.Time) (*Applicant, error) {
	if fullName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "applicant full name cannot be empty")
	}
	if nationalID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "applicant national ID cannot be empty")
	}
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "applicant must belong to a tenant")
	}
	return &Applicant{
		ID:         applicantID,
		TenantID:   tenantID,
		FullName:   fullName,
		NationalID: nationalID,
		Status:     StatusIntake,
		Interview:  Interview{Status: InterviewPendingSchedule},
		Worker:     WorkerRecord{Validation: WorkerValidationDraft},
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// CanChangeStatus checks the transition table and, for management approval,
// the worker completeness guard. Returns a guard violation; callers surface
// the message unchanged to authenticated users.
func (a *Applicant) CanChangeStatus(target Status) error {
	if !a.Status.CanTransitionTo(target) {
		return dErrors.New(dErrors.CodeGuardViolation,
			"cannot change status from "+string(a.Status)+" to "+string(target))
	}
	if target == StatusPendingManagementApproval && !a.Worker.ReadyForApproval() {
		return dErrors.New(dErrors.CodeGuardViolation,
			"worker record must have a salary figure and be submitted for approval")
	}
	return nil
}

// ApplyStatus sets the status. Call CanChangeStatus first; this method does
// not re-validate.
func (a *Applicant) ApplyStatus(target Status, now time.Time) {
	a.Status = target
	a.UpdatedAt = now
}
