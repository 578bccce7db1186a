package models

import (
	"time"

	dErrors "hireflow/pkg/domain-errors"
)

// InterviewStatus is the nested status machine layered on the interview
// sub-record.
type InterviewStatus string

const (
	InterviewPendingSchedule InterviewStatus = "pending_schedule"
	InterviewScheduled       InterviewStatus = "scheduled"
	InterviewConfirmed       InterviewStatus = "confirmed"
	InterviewRescheduled     InterviewStatus = "rescheduled"
	InterviewCancelled       InterviewStatus = "cancelled"
	InterviewSuspended       InterviewStatus = "suspended"
	InterviewCompleted       InterviewStatus = "completed"
)

// InterviewResult records the outcome of a completed interview.
type InterviewResult string

const (
	InterviewResultOK  InterviewResult = "ok"
	InterviewResultNOK InterviewResult = "nok"
)

// Reschedule archives one date change. The previous date is never
// overwritten silently.
type Reschedule struct {
	PreviousDate time.Time `json:"previous_date"`
	NewDate      time.Time `json:"new_date"`
	Reason       string    `json:"reason"`
	ChangedAt    time.Time `json:"changed_at"`
}

// Interview is the interview sub-record of one applicant.
type Interview struct {
	Status      InterviewStatus `json:"status"`
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty"`
	Location    string          `json:"location,omitempty"`

	ConfirmedBy string     `json:"confirmed_by,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`

	Reschedules []Reschedule    `json:"reschedules,omitempty"`
	Result      InterviewResult `json:"result,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}

// Schedule sets the interview date.
func (i *Interview) Schedule(at time.Time, location string) {
	i.ScheduledAt = &at
	i.Location = location
	i.Status = InterviewScheduled
}

// Confirm requires a scheduled date already present and stamps the confirmer.
func (i *Interview) Confirm(confirmedBy string, now time.Time) error {
	if i.ScheduledAt == nil {
		return dErrors.New(dErrors.CodeGuardViolation, "interview has no scheduled date to confirm")
	}
	i.Status = InterviewConfirmed
	i.ConfirmedBy = confirmedBy
	i.ConfirmedAt = &now
	return nil
}

// RescheduleTo archives the previous date into the reschedule log before
// overwriting it.
func (i *Interview) RescheduleTo(newDate time.Time, reason string, now time.Time) error {
	if i.ScheduledAt == nil {
		return dErrors.New(dErrors.CodeGuardViolation, "interview has no scheduled date to reschedule")
	}
	if reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reschedule reason is required")
	}
	i.Reschedules = append(i.Reschedules, Reschedule{
		PreviousDate: *i.ScheduledAt,
		NewDate:      newDate,
		Reason:       reason,
		ChangedAt:    now,
	})
	i.ScheduledAt = &newDate
	i.Status = InterviewRescheduled
	return nil
}

// Cancel marks the interview cancelled. The caller is responsible for
// rejecting the applicant: cancellation is a terminal outcome, not a
// reversible sub-state.
func (i *Interview) Cancel(reason string) error {
	if reason == "" {
		return dErrors.New(dErrors.CodeValidation, "cancellation reason is required")
	}
	i.Status = InterviewCancelled
	i.Reason = reason
	return nil
}

// Suspend marks the interview suspended; like Cancel, the applicant is
// rejected by the caller.
func (i *Interview) Suspend(reason string) error {
	if reason == "" {
		return dErrors.New(dErrors.CodeValidation, "suspension reason is required")
	}
	i.Status = InterviewSuspended
	i.Reason = reason
	return nil
}

// Complete records the result.
func (i *Interview) Complete(result InterviewResult) error {
	if result != InterviewResultOK && result != InterviewResultNOK {
		return dErrors.New(dErrors.CodeValidation, "interview result must be ok or nok")
	}
	i.Status = InterviewCompleted
	i.Result = result
	return nil
}
