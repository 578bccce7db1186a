package models

import "time"

// ChecklistStatus is the state of one accreditation checklist item.
type ChecklistStatus string

const (
	ChecklistPending     ChecklistStatus = "pending"
	ChecklistApproved    ChecklistStatus = "approved"
	ChecklistNotApproved ChecklistStatus = "not_approved"
)

// Checklist item categories known at intake. Items under other categories
// can still be created on first reference.
const (
	AccreditationPhysicalExams = "physical_exams"
	AccreditationOnlineExams   = "online_exams"
)

// ChecklistItem is one independently statused accreditation check.
type ChecklistItem struct {
	Category    string          `json:"category"`
	Name        string          `json:"name"`
	Status      ChecklistStatus `json:"status"`
	Observation string          `json:"observation,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Accreditation is the safety-accreditation checklist of one applicant.
type Accreditation struct {
	Items []ChecklistItem `json:"items,omitempty"`
}

// Upsert returns the item for (category, name), creating it on first
// reference so dynamically-added checklist entries need no registration step.
func (a *Accreditation) Upsert(category, name string) *ChecklistItem {
	for i := range a.Items {
		if a.Items[i].Category == category && a.Items[i].Name == name {
			return &a.Items[i]
		}
	}
	a.Items = append(a.Items, ChecklistItem{
		Category: category,
		Name:     name,
		Status:   ChecklistPending,
	})
	return &a.Items[len(a.Items)-1]
}
