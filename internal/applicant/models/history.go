package models

import (
	"time"

	id "hireflow/pkg/domain"
)

// HistoryEntry is one record in the append-only audit trail of an applicant.
// Entries are never mutated or deleted once appended; ordering always
// reflects the order transitions actually occurred.
type HistoryEntry struct {
	ApplicantID id.ApplicantID `json:"applicant_id"`
	Status      Status         `json:"status"`
	ChangedBy   string         `json:"changed_by"`
	Comment     string         `json:"comment"`
	Timestamp   time.Time      `json:"timestamp"`
}

// DefaultComment synthesizes the comment used when a status change carries
// none.
func DefaultComment(from, to Status) string {
	return "changed from " + string(from) + " to " + string(to)
}
