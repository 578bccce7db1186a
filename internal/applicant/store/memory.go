package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"hireflow/internal/applicant/models"
	id "hireflow/pkg/domain"
	"hireflow/pkg/platform/sentinel"
)

// InMemory implements Store and HistoryStore for development and tests.
type InMemory struct {
	mu          sync.RWMutex
	applicants  map[id.ApplicantID]*models.Applicant
	nationalIDs map[string]id.ApplicantID
	history     map[id.ApplicantID][]models.HistoryEntry
}

func NewInMemory() *InMemory {
	return &InMemory{
		applicants:  make(map[id.ApplicantID]*models.Applicant),
		nationalIDs: make(map[string]id.ApplicantID),
		history:     make(map[id.ApplicantID][]models.HistoryEntry),
	}
}

// clone deep-copies an aggregate so callers never alias stored state. The
// aggregate is plain data, so a JSON round trip is the simplest faithful
// copy; the grant token is carried manually because it is excluded from JSON.
func clone(a *models.Applicant) *models.Applicant {
	raw, err := json.Marshal(a)
	if err != nil {
		panic("applicant must be JSON serializable: " + err.Error())
	}
	var copied models.Applicant
	if err := json.Unmarshal(raw, &copied); err != nil {
		panic("applicant must be JSON deserializable: " + err.Error())
	}
	if a.Hiring.Grant != nil && copied.Hiring.Grant != nil {
		copied.Hiring.Grant.Token = a.Hiring.Grant.Token
	}
	return &copied
}

func (s *InMemory) Create(_ context.Context, applicant *models.Applicant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.applicants[applicant.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, taken := s.nationalIDs[applicant.NationalID]; taken {
		return sentinel.ErrAlreadyUsed
	}
	s.applicants[applicant.ID] = clone(applicant)
	s.nationalIDs[applicant.NationalID] = applicant.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, applicantID id.ApplicantID) (*models.Applicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	applicant, ok := s.applicants[applicantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(applicant), nil
}

func (s *InMemory) Update(_ context.Context, applicant *models.Applicant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applicants[applicant.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.applicants[applicant.ID] = clone(applicant)
	return nil
}

func (s *InMemory) Execute(_ context.Context, applicantID id.ApplicantID,
	validate func(*models.Applicant) error,
	mutate func(*models.Applicant) []models.HistoryEntry) (*models.Applicant, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	applicant, ok := s.applicants[applicantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	working := clone(applicant)
	if err := validate(working); err != nil {
		return nil, err
	}
	entries := mutate(working)
	s.applicants[applicantID] = clone(working)
	s.history[applicantID] = append(s.history[applicantID], entries...)
	return working, nil
}

func (s *InMemory) ListByTenant(_ context.Context, tenantID id.TenantID) ([]*models.Applicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*models.Applicant
	for _, applicant := range s.applicants {
		if applicant.TenantID == tenantID {
			result = append(result, clone(applicant))
		}
	}
	return result, nil
}

func (s *InMemory) ListExpiredGrants(_ context.Context, now time.Time) ([]*models.Applicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*models.Applicant
	for _, applicant := range s.applicants {
		grant := applicant.Hiring.Grant
		if grant != nil && grant.Token != "" && !now.Before(grant.ExpiresAt) {
			result = append(result, clone(applicant))
		}
	}
	return result, nil
}

func (s *InMemory) Append(_ context.Context, entry models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[entry.ApplicantID] = append(s.history[entry.ApplicantID], entry)
	return nil
}

func (s *InMemory) List(_ context.Context, applicantID id.ApplicantID) ([]models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.HistoryEntry{}, s.history[applicantID]...), nil
}
