package models

import (
	dErrors "hireflow/pkg/domain-errors"
)

// Status is the single source of truth for an applicant's pipeline stage.
type Status string

const (
	StatusIntake                    Status = "intake"
	StatusInterviewing              Status = "interviewing"
	StatusTesting                   Status = "testing"
	StatusDocumentCollection        Status = "document_collection"
	StatusAccreditation             Status = "accreditation"
	StatusPendingManagementApproval Status = "pending_management_approval"
	StatusHireApproved              Status = "hire_approved"
	StatusHired                     Status = "hired"
	StatusRejected                  Status = "rejected"
)

// legalTransitions enumerates every allowed status change in one place so
// illegal transitions are rejected uniformly instead of by omission in
// individual handlers.
//
// Any non-terminal status may move to Rejected. PendingManagementApproval
// allows a self-transition: re-entering the stage re-issues the approval
// grant and invalidates the previous one.
var legalTransitions = map[Status][]Status{
	StatusIntake:                    {StatusInterviewing, StatusRejected},
	StatusInterviewing:              {StatusTesting, StatusRejected},
	StatusTesting:                   {StatusDocumentCollection, StatusRejected},
	StatusDocumentCollection:        {StatusAccreditation, StatusRejected},
	StatusAccreditation:             {StatusPendingManagementApproval, StatusRejected},
	StatusPendingManagementApproval: {StatusPendingManagementApproval, StatusHireApproved, StatusHired, StatusRejected},
	StatusHireApproved:              {StatusHired, StatusRejected},
	StatusHired:                     nil,
	StatusRejected:                  nil,
}

// ParseStatus validates a wire value against the closed enumeration.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := legalTransitions[s]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "unknown status: "+raw)
	}
	return s, nil
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusHired || s == StatusRejected
}

// CanTransitionTo reports whether the transition table allows moving from s
// to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
