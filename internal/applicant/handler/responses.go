package handler

import (
	"time"

	"hireflow/internal/applicant/models"
)

// ApplicantResponse is the HTTP view of one applicant. Sub-records marshal
// with their model JSON shapes; the approval token is never serialized.
type ApplicantResponse struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenant_id"`
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Position   string `json:"position,omitempty"`
	Department string `json:"department,omitempty"`
	Status     string `json:"status"`

	Interview     models.Interview     `json:"interview"`
	Tests         models.Tests         `json:"tests"`
	Documents     models.Documents     `json:"contract_documents"`
	Accreditation models.Accreditation `json:"accreditation"`
	Hiring        models.Hiring        `json:"hiring"`
	Worker        models.WorkerRecord  `json:"worker"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromApplicant converts a domain applicant to an HTTP response.
func FromApplicant(a *models.Applicant) *ApplicantResponse {
	return &ApplicantResponse{
		ID:            a.ID.String(),
		TenantID:      a.TenantID.String(),
		FullName:      a.FullName,
		NationalID:    a.NationalID,
		Email:         a.Email,
		Phone:         a.Phone,
		Position:      a.Position,
		Department:    a.Department,
		Status:        string(a.Status),
		Interview:     a.Interview,
		Tests:         a.Tests,
		Documents:     a.Documents,
		Accreditation: a.Accreditation,
		Hiring:        a.Hiring,
		Worker:        a.Worker,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// FromApplicants converts a list. Always returns a non-nil slice so empty
// lists marshal as [] rather than null.
func FromApplicants(applicants []*models.Applicant) []*ApplicantResponse {
	result := make([]*ApplicantResponse, 0, len(applicants))
	for _, a := range applicants {
		result = append(result, FromApplicant(a))
	}
	return result
}

// HistoryEntryResponse is one ledger entry.
type HistoryEntryResponse struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// FromHistory converts ledger entries in append order.
func FromHistory(entries []models.HistoryEntry) []HistoryEntryResponse {
	result := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, HistoryEntryResponse{
			Status:    string(entry.Status),
			ChangedBy: entry.ChangedBy,
			Comment:   entry.Comment,
			Timestamp: entry.Timestamp,
		})
	}
	return result
}
