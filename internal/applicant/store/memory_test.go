package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hireflow/internal/applicant/models"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	"hireflow/pkg/platform/sentinel"
)

type ApplicantStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *ApplicantStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestApplicantStoreSuite(t *testing.T) {
	suite.Run(t, new(ApplicantStoreSuite))
}

func (s *ApplicantStoreSuite) newApplicant(nationalID string) *models.Applicant {
	applicant, err := models.New(
		id.ApplicantID(uuid.New()),
		id.TenantID(uuid.New()),
		"Jordan Reyes",
		nationalID,
		time.Now(),
	)
	s.Require().NoError(err)
	return applicant
}

// TestCreationAndLookups verifies the store correctly creates and retrieves applicants.
func (s *ApplicantStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds applicant by ID", func() {
		applicant := s.newApplicant("11111111-1")
		s.Require().NoError(s.store.Create(s.ctx, applicant))

		found, err := s.store.FindByID(s.ctx, applicant.ID)
		s.Require().NoError(err)
		s.Equal(applicant.FullName, found.FullName)
		s.Equal(models.StatusIntake, found.Status)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.ApplicantID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned aggregate does not alias stored state", func() {
		applicant := s.newApplicant("22222222-2")
		s.Require().NoError(s.store.Create(s.ctx, applicant))

		found, err := s.store.FindByID(s.ctx, applicant.ID)
		s.Require().NoError(err)
		found.Status = models.StatusRejected

		again, err := s.store.FindByID(s.ctx, applicant.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusIntake, again.Status)
	})
}

// TestNationalIDUniqueness verifies that national IDs are unique system-wide.
func (s *ApplicantStoreSuite) TestNationalIDUniqueness() {
	first := s.newApplicant("33333333-3")
	s.Require().NoError(s.store.Create(s.ctx, first))

	// Different tenant, same national ID: still rejected.
	second := s.newApplicant("33333333-3")
	err := s.store.Create(s.ctx, second)
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
}

// TestExecute verifies the validate-then-mutate callback pattern.
func (s *ApplicantStoreSuite) TestExecute() {
	s.Run("applies mutation when validation passes", func() {
		applicant := s.newApplicant("44444444-4")
		s.Require().NoError(s.store.Create(s.ctx, applicant))

		updated, err := s.store.Execute(s.ctx, applicant.ID,
			func(a *models.Applicant) error { return a.CanChangeStatus(models.StatusInterviewing) },
			func(a *models.Applicant) []models.HistoryEntry {
				a.ApplyStatus(models.StatusInterviewing, time.Now())
				return []models.HistoryEntry{{
					ApplicantID: a.ID,
					Status:      a.Status,
					ChangedBy:   "rh.analyst",
					Comment:     "changed from intake to interviewing",
					Timestamp:   time.Now(),
				}}
			},
		)
		s.Require().NoError(err)
		s.Equal(models.StatusInterviewing, updated.Status)

		found, err := s.store.FindByID(s.ctx, applicant.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusInterviewing, found.Status)

		entries, err := s.store.List(s.ctx, applicant.ID)
		s.Require().NoError(err)
		s.Require().Len(entries, 1)
		s.Equal("changed from intake to interviewing", entries[0].Comment)
	})

	s.Run("aborts without mutating when validation fails", func() {
		applicant := s.newApplicant("55555555-5")
		s.Require().NoError(s.store.Create(s.ctx, applicant))

		_, err := s.store.Execute(s.ctx, applicant.ID,
			func(a *models.Applicant) error { return a.CanChangeStatus(models.StatusHired) },
			func(a *models.Applicant) []models.HistoryEntry {
				a.ApplyStatus(models.StatusHired, time.Now())
				return []models.HistoryEntry{{ApplicantID: a.ID, Status: a.Status}}
			},
		)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeGuardViolation))

		found, err := s.store.FindByID(s.ctx, applicant.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusIntake, found.Status)

		entries, err := s.store.List(s.ctx, applicant.ID)
		s.Require().NoError(err)
		s.Empty(entries)
	})

	s.Run("returns ErrNotFound for unknown applicant", func() {
		_, err := s.store.Execute(s.ctx, id.ApplicantID(uuid.New()),
			func(*models.Applicant) error { return nil },
			func(*models.Applicant) []models.HistoryEntry { return nil },
		)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestGrantRoundTrip verifies the approval grant token survives storage even
// though it is excluded from JSON serialization.
func (s *ApplicantStoreSuite) TestGrantRoundTrip() {
	applicant := s.newApplicant("66666666-6")
	now := time.Now()
	applicant.Hiring.Grant = &models.ApprovalGrant{
		Token:     "opaque-token-value",
		IssuedAt:  now,
		ExpiresAt: now.Add(48 * time.Hour),
	}
	s.Require().NoError(s.store.Create(s.ctx, applicant))

	found, err := s.store.FindByID(s.ctx, applicant.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.Hiring.Grant)
	s.Equal("opaque-token-value", found.Hiring.Grant.Token)
}

// TestExpiredGrantListing verifies the sweeper query.
func (s *ApplicantStoreSuite) TestExpiredGrantListing() {
	now := time.Now()

	expired := s.newApplicant("77777777-7")
	expired.Hiring.Grant = &models.ApprovalGrant{Token: "t1", IssuedAt: now.Add(-49 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	s.Require().NoError(s.store.Create(s.ctx, expired))

	live := s.newApplicant("88888888-8")
	live.Hiring.Grant = &models.ApprovalGrant{Token: "t2", IssuedAt: now, ExpiresAt: now.Add(48 * time.Hour)}
	s.Require().NoError(s.store.Create(s.ctx, live))

	none := s.newApplicant("99999999-9")
	s.Require().NoError(s.store.Create(s.ctx, none))

	stale, err := s.store.ListExpiredGrants(s.ctx, now)
	s.Require().NoError(err)
	s.Require().Len(stale, 1)
	s.Equal(expired.ID, stale[0].ID)
}

// TestHistoryLedger verifies append-only ordering.
func (s *ApplicantStoreSuite) TestHistoryLedger() {
	applicantID := id.ApplicantID(uuid.New())
	for _, status := range []models.Status{models.StatusIntake, models.StatusInterviewing, models.StatusTesting} {
		s.Require().NoError(s.store.Append(s.ctx, models.HistoryEntry{
			ApplicantID: applicantID,
			Status:      status,
			ChangedBy:   "recruiter",
			Timestamp:   time.Now(),
		}))
	}

	entries, err := s.store.List(s.ctx, applicantID)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(models.StatusIntake, entries[0].Status)
	s.Equal(models.StatusInterviewing, entries[1].Status)
	s.Equal(models.StatusTesting, entries[2].Status)
}
