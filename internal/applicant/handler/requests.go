package handler

import (
	"strings"
	"time"

	"hireflow/internal/applicant/models"
	"hireflow/internal/applicant/service"
	dErrors "hireflow/pkg/domain-errors"
)

// CreateRequest is the HTTP request body for POST /applicants.
type CreateRequest struct {
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

// Validate validates and normalizes the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.FullName = strings.TrimSpace(r.FullName)
	r.NationalID = strings.TrimSpace(r.NationalID)
	if r.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	if r.NationalID == "" {
		return dErrors.New(dErrors.CodeValidation, "national_id is required")
	}
	if len(r.NationalID) > 20 {
		return dErrors.New(dErrors.CodeValidation, "national_id must be at most 20 characters")
	}
	return nil
}

// Input returns the service-layer input.
func (r *CreateRequest) Input() service.CreateInput {
	return service.CreateInput{
		FullName:   r.FullName,
		NationalID: r.NationalID,
		Email:      strings.TrimSpace(r.Email),
		Phone:      strings.TrimSpace(r.Phone),
		Position:   strings.TrimSpace(r.Position),
		Department: strings.TrimSpace(r.Department),
	}
}

// UpdateStatusRequest is the body for POST /applicants/{id}/status.
type UpdateStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`

	parsedStatus models.Status
}

func (r *UpdateStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	status, err := models.ParseStatus(strings.TrimSpace(r.Status))
	if err != nil {
		return err
	}
	r.parsedStatus = status
	return nil
}

// ParsedStatus returns the validated target status.
func (r *UpdateStatusRequest) ParsedStatus() models.Status { return r.parsedStatus }

// dateField parses an RFC 3339 timestamp request field.
func dateField(raw, name string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, name+" must be an RFC 3339 timestamp")
	}
	return t.UTC(), nil
}

// ScheduleInterviewRequest is the body for POST .../interview/schedule.
type ScheduleInterviewRequest struct {
	Date     string `json:"date"`
	Location string `json:"location"`

	parsedDate time.Time
}

func (r *ScheduleInterviewRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	date, err := dateField(r.Date, "date")
	if err != nil {
		return err
	}
	r.parsedDate = date
	r.Location = strings.TrimSpace(r.Location)
	return nil
}

func (r *ScheduleInterviewRequest) ParsedDate() time.Time { return r.parsedDate }

// RescheduleInterviewRequest is the body for POST .../interview/reschedule.
type RescheduleInterviewRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`

	parsedDate time.Time
}

func (r *RescheduleInterviewRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	date, err := dateField(r.Date, "date")
	if err != nil {
		return err
	}
	r.parsedDate = date
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	return nil
}

func (r *RescheduleInterviewRequest) ParsedDate() time.Time { return r.parsedDate }

// ReasonRequest is the body for interview cancel and suspend.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

func (r *ReasonRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	return nil
}

// CompleteInterviewRequest is the body for POST .../interview/complete.
type CompleteInterviewRequest struct {
	Result string `json:"result"`

	parsedResult models.InterviewResult
}

func (r *CompleteInterviewRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	switch models.InterviewResult(strings.TrimSpace(r.Result)) {
	case models.InterviewResultOK:
		r.parsedResult = models.InterviewResultOK
	case models.InterviewResultNOK:
		r.parsedResult = models.InterviewResultNOK
	default:
		return dErrors.New(dErrors.CodeValidation, "result must be ok or nok")
	}
	return nil
}

func (r *CompleteInterviewRequest) ParsedResult() models.InterviewResult { return r.parsedResult }

// ScoreTestRequest is the body for POST .../tests/score.
type ScoreTestRequest struct {
	Track  string  `json:"track"`
	Score  float64 `json:"score"`
	Result string  `json:"result"`

	parsedTrack service.TestTrack
}

func (r *ScoreTestRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	track, err := service.ParseTestTrack(strings.TrimSpace(r.Track))
	if err != nil {
		return err
	}
	r.parsedTrack = track
	return nil
}

func (r *ScoreTestRequest) Input() service.ScoreInput {
	return service.ScoreInput{
		Track:  r.parsedTrack,
		Score:  r.Score,
		Result: models.TestResult(strings.TrimSpace(r.Result)),
	}
}

// ChecklistRequest is the body for POST .../accreditation.
type ChecklistRequest struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	Observation string `json:"observation"`
}

func (r *ChecklistRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Category = strings.TrimSpace(r.Category)
	r.Name = strings.TrimSpace(r.Name)
	if r.Category == "" || r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "category and name are required")
	}
	return nil
}

func (r *ChecklistRequest) Input() service.ChecklistInput {
	return service.ChecklistInput{
		Category:    r.Category,
		Name:        r.Name,
		Status:      models.ChecklistStatus(strings.TrimSpace(r.Status)),
		Observation: strings.TrimSpace(r.Observation),
	}
}

// WorkerRequest is the body for PUT .../worker.
type WorkerRequest struct {
	Salary     string `json:"salary"`
	Validation string `json:"validation"`
}

func (r *WorkerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Salary = strings.TrimSpace(r.Salary)
	r.Validation = strings.TrimSpace(r.Validation)
	if r.Validation == "" {
		return dErrors.New(dErrors.CodeValidation, "validation is required")
	}
	return nil
}

func (r *WorkerRequest) Input() service.WorkerInput {
	return service.WorkerInput{
		Salary:     r.Salary,
		Validation: models.WorkerValidation(r.Validation),
	}
}

// DocumentsRequest is the body for PUT .../documents.
type DocumentsRequest struct {
	Received  []string `json:"received"`
	Completed bool     `json:"completed"`
}

func (r *DocumentsRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	for i, doc := range r.Received {
		r.Received[i] = strings.TrimSpace(doc)
		if r.Received[i] == "" {
			return dErrors.New(dErrors.CodeValidation, "received document names cannot be empty")
		}
	}
	return nil
}

func (r *DocumentsRequest) Input() service.DocumentsInput {
	return service.DocumentsInput{Received: r.Received, Completed: r.Completed}
}
