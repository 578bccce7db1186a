//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hireflow/internal/applicant/models"
	"hireflow/internal/applicant/store"
	id "hireflow/pkg/domain"
	"hireflow/pkg/platform/sentinel"
	"hireflow/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.Pool)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "applicant_history", "applicants")
	s.Require().NoError(err)
}

func newApplicant(s *suite.Suite, nationalID string) *models.Applicant {
	applicant, err := models.New(
		id.ApplicantID(uuid.New()),
		id.TenantID(uuid.New()),
		"Marina Duarte",
		nationalID,
		time.Now().UTC().Round(time.Microsecond),
	)
	s.Require().NoError(err)
	return applicant
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	applicant := newApplicant(&s.Suite, "111")
	applicant.Position = "Field Engineer"

	s.Require().NoError(s.store.Create(ctx, applicant))

	found, err := s.store.FindByID(ctx, applicant.ID)
	s.Require().NoError(err)
	s.Equal(applicant.FullName, found.FullName)
	s.Equal(applicant.Position, found.Position)
	s.Equal(models.StatusIntake, found.Status)

	_, err = s.store.FindByID(ctx, id.ApplicantID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestNationalIDUnique() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newApplicant(&s.Suite, "222")))

	// Same national ID, different tenant: still a collision.
	err := s.store.Create(ctx, newApplicant(&s.Suite, "222"))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestGrantColumnsRoundTrip() {
	ctx := context.Background()
	applicant := newApplicant(&s.Suite, "333")
	issued := time.Now().UTC().Round(time.Microsecond)
	applicant.Hiring.Grant = &models.ApprovalGrant{
		Token:     "secret-token-value",
		IssuedAt:  issued,
		ExpiresAt: issued.Add(48 * time.Hour),
	}
	s.Require().NoError(s.store.Create(ctx, applicant))

	found, err := s.store.FindByID(ctx, applicant.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.Hiring.Grant)
	s.Equal("secret-token-value", found.Hiring.Grant.Token)
	s.Equal(issued.Add(48*time.Hour), found.Hiring.Grant.ExpiresAt.UTC())
}

func (s *PostgresStoreSuite) TestExecuteLocksTheRow() {
	ctx := context.Background()
	applicant := newApplicant(&s.Suite, "444")
	s.Require().NoError(s.store.Create(ctx, applicant))

	// Concurrent guarded mutations: the FOR UPDATE lock serializes them, so
	// exactly one observes intake and wins the transition.
	const goroutines = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(ctx, applicant.ID,
				func(a *models.Applicant) error {
					return a.CanChangeStatus(models.StatusInterviewing)
				},
				func(a *models.Applicant) []models.HistoryEntry {
					a.ApplyStatus(models.StatusInterviewing, time.Now().UTC())
					return []models.HistoryEntry{{
						ApplicantID: a.ID,
						Status:      a.Status,
						ChangedBy:   "rh.analyst",
						Comment:     "changed from intake to interviewing",
						Timestamp:   time.Now().UTC().Round(time.Microsecond),
					}}
				},
			)
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, winners)
	found, err := s.store.FindByID(ctx, applicant.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInterviewing, found.Status)

	// One winner, one committed ledger entry.
	entries, err := s.store.List(ctx, applicant.ID)
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *PostgresStoreSuite) TestExecuteValidateFailureMutatesNothing() {
	ctx := context.Background()
	applicant := newApplicant(&s.Suite, "555")
	s.Require().NoError(s.store.Create(ctx, applicant))

	boom := errors.New("boom")
	_, err := s.store.Execute(ctx, applicant.ID,
		func(*models.Applicant) error { return boom },
		func(a *models.Applicant) []models.HistoryEntry {
			a.FullName = "changed"
			return []models.HistoryEntry{{ApplicantID: a.ID, Status: a.Status}}
		},
	)
	s.ErrorIs(err, boom)

	found, err := s.store.FindByID(ctx, applicant.ID)
	s.Require().NoError(err)
	s.Equal("Marina Duarte", found.FullName)

	entries, err := s.store.List(ctx, applicant.ID)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *PostgresStoreSuite) TestListExpiredGrants() {
	ctx := context.Background()
	now := time.Now().UTC().Round(time.Microsecond)

	expired := newApplicant(&s.Suite, "666")
	expired.Hiring.Grant = &models.ApprovalGrant{
		Token: "old", IssuedAt: now.Add(-49 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}
	live := newApplicant(&s.Suite, "777")
	live.Hiring.Grant = &models.ApprovalGrant{
		Token: "fresh", IssuedAt: now, ExpiresAt: now.Add(48 * time.Hour),
	}
	none := newApplicant(&s.Suite, "888")

	for _, a := range []*models.Applicant{expired, live, none} {
		s.Require().NoError(s.store.Create(ctx, a))
	}

	stale, err := s.store.ListExpiredGrants(ctx, now)
	s.Require().NoError(err)
	s.Require().Len(stale, 1)
	s.Equal(expired.ID, stale[0].ID)
}

func (s *PostgresStoreSuite) TestHistoryAppendOrder() {
	ctx := context.Background()
	applicant := newApplicant(&s.Suite, "999")
	s.Require().NoError(s.store.Create(ctx, applicant))

	statuses := []models.Status{models.StatusIntake, models.StatusInterviewing, models.StatusTesting}
	for _, status := range statuses {
		err := s.store.Append(ctx, models.HistoryEntry{
			ApplicantID: applicant.ID,
			Status:      status,
			ChangedBy:   "rh.analyst",
			Comment:     "entry " + string(status),
			Timestamp:   time.Now().UTC(),
		})
		s.Require().NoError(err)
	}

	entries, err := s.store.List(ctx, applicant.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	for i, status := range statuses {
		s.Equal(status, entries[i].Status)
	}
}
