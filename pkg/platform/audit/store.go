package audit

import (
	"context"

	id "hireflow/pkg/domain"
)

// Store is the audit sink contract. Implementations must be append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByApplicant(ctx context.Context, applicantID id.ApplicantID) ([]Event, error)
}
