package approval

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hireflow/internal/applicant/models"
	"hireflow/internal/applicant/store"
	"hireflow/internal/mailer"
	"hireflow/internal/notification"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	"hireflow/pkg/requestcontext"
)

type ApprovalSuite struct {
	suite.Suite
	store    *store.InMemory
	mailer   *mailer.InMemory
	notifier *notification.InMemory
	service  *Service

	tenantID id.TenantID
	now      time.Time
}

func TestApprovalSuite(t *testing.T) {
	suite.Run(t, new(ApprovalSuite))
}

func (s *ApprovalSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.mailer = mailer.NewInMemory()
	s.notifier = notification.NewInMemory()
	s.tenantID = id.TenantID(uuid.New())
	// The sweeper reads the wall clock, so the suite anchors near it.
	// Round(0) drops the monotonic reading that a store round trip loses.
	s.now = time.Now().UTC().Round(0)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.store, s.mailer, s.notifier,
		[]string{"director@acme.example", "vp@acme.example"},
		"https://hireflow.example",
		WithLogger(logger),
		WithAdminRecipients([]string{"rh@acme.example"}),
	)
}

func (s *ApprovalSuite) ctx() context.Context {
	ctx := requestcontext.WithActor(context.Background(),
		requestcontext.ActingIdentity{TenantID: s.tenantID, Name: "rh.analyst", Role: requestcontext.RoleMember})
	return requestcontext.WithTime(ctx, s.now)
}

// seedPending stores an applicant already in management approval with a
// submitted worker record.
func (s *ApprovalSuite) seedPending() *models.Applicant {
	applicant, err := models.New(id.ApplicantID(uuid.New()), s.tenantID, "Marina Duarte", uuid.NewString()[:13], s.now)
	s.Require().NoError(err)
	applicant.Position = "Field Engineer"
	applicant.Department = "Operations"
	applicant.Status = models.StatusPendingManagementApproval
	applicant.Worker = models.WorkerRecord{Salary: "5400.00", Validation: models.WorkerValidationSubmitted}
	s.Require().NoError(s.store.Create(s.ctx(), applicant))
	return applicant
}

// issue runs Request and returns the stored token.
func (s *ApprovalSuite) issue(applicantID id.ApplicantID) string {
	sent, err := s.service.Request(s.ctx(), applicantID)
	s.Require().NoError(err)
	s.Require().Equal(2, sent)

	stored, err := s.store.FindByID(s.ctx(), applicantID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.Hiring.Grant)
	return stored.Hiring.Grant.Token
}

func (s *ApprovalSuite) TestRequest() {
	s.Run("mints a grant and messages every approver", func() {
		applicant := s.seedPending()
		token := s.issue(applicant.ID)

		s.NotEmpty(token)
		stored, err := s.store.FindByID(s.ctx(), applicant.ID)
		s.Require().NoError(err)
		s.Equal(s.now.Add(GrantTTL), stored.Hiring.Grant.ExpiresAt)
		s.Equal(2, stored.Hiring.RequestsSent)

		messages := s.mailer.Messages()
		s.Require().Len(messages, 2)
		s.Equal("director@acme.example", messages[0].To)
		s.Contains(messages[0].HTMLBody, token)
		s.Contains(messages[0].HTMLBody, "Marina Duarte")
	})

	s.Run("re-issuing replaces the grant and kills the old token", func() {
		applicant := s.seedPending()
		oldToken := s.issue(applicant.ID)
		newToken := s.issue(applicant.ID)

		s.NotEqual(oldToken, newToken)
		s.Error(s.service.Verify(s.ctx(), applicant.ID, oldToken))
		s.NoError(s.service.Verify(s.ctx(), applicant.ID, newToken))
	})

	s.Run("fails outside management approval", func() {
		applicant, err := models.New(id.ApplicantID(uuid.New()), s.tenantID, "Early Bird", "999", s.now)
		s.Require().NoError(err)
		s.Require().NoError(s.store.Create(s.ctx(), applicant))

		_, err = s.service.Request(s.ctx(), applicant.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeGuardViolation))
	})
}

func (s *ApprovalSuite) TestVerify() {
	s.Run("valid token passes repeatedly", func() {
		applicant := s.seedPending()
		token := s.issue(applicant.ID)

		s.NoError(s.service.Verify(s.ctx(), applicant.ID, token))
		s.NoError(s.service.Verify(s.ctx(), applicant.ID, token))
	})

	s.Run("wrong token, unknown applicant, and expiry read identically", func() {
		applicant := s.seedPending()
		token := s.issue(applicant.ID)

		wrongToken := s.service.Verify(s.ctx(), applicant.ID, "forged")
		unknown := s.service.Verify(s.ctx(), id.ApplicantID(uuid.New()), token)

		expiredCtx := requestcontext.WithTime(s.ctx(), s.now.Add(GrantTTL+time.Second))
		expired := s.service.Verify(expiredCtx, applicant.ID, token)

		for _, err := range []error{wrongToken, unknown, expired} {
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
			s.Equal(dErrors.MessageOf(wrongToken), dErrors.MessageOf(err))
		}
	})

	s.Run("token exactly at expiry is dead", func() {
		applicant := s.seedPending()
		token := s.issue(applicant.ID)

		atExpiry := requestcontext.WithTime(s.ctx(), s.now.Add(GrantTTL))
		s.Error(s.service.Verify(atExpiry, applicant.ID, token))
	})
}

func (s *ApprovalSuite) TestViewDetails() {
	s.Run("exposes the hiring summary only", func() {
		applicant := s.seedPending()
		token := s.issue(applicant.ID)

		details, err := s.service.ViewDetails(s.ctx(), applicant.ID, token)
		s.Require().NoError(err)
		s.Equal("Marina Duarte", details.FullName)
		s.Equal("Field Engineer", details.Position)
		s.Equal("5400.00", details.Compensation)
		s.Equal(models.StatusPendingManagementApproval, details.Status)
	})

	s.Run("bad token sees nothing", func() {
		applicant := s.seedPending()
		s.issue(applicant.ID)

		_, err := s.service.ViewDetails(s.ctx(), applicant.ID, "forged")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *ApprovalSuite) TestConsume() {
	s.Run("approve hires, mirrors the worker record, clears the grant", func() {
		applicant := s.seedPending()
		token := s.issue(applicant.ID)

		updated, err := s.service.Consume(s.ctx(), applicant.ID, token, DecisionApprove, "Director Silva", "welcome aboard")
		s.Require().NoError(err)
		s.Equal(models.StatusHired, updated.Status)
		s.Equal(models.WorkerValidationApproved, updated.Worker.Validation)
		s.Nil(updated.Hiring.Grant)
		s.Equal("Director Silva", updated.Hiring.DecidedBy)
		s.Equal("welcome aboard", updated.Hiring.DecisionNote)

		entries, err := s.store.List(s.ctx(), applicant.ID)
		s.Require().NoError(err)
		s.Require().NotEmpty(entries)
		last := entries[len(entries)-1]
		s.Equal(models.StatusHired, last.Status)
		s.Equal("Director Silva", last.ChangedBy)
		s.Contains(last.Comment, "approve")

		// Verdict fan-out: tenant notice plus one admin message.
		s.Require().NotEmpty(s.notifier.ByTenant(s.tenantID))
		messages := s.mailer.Messages()
		s.Equal("rh@acme.example", messages[len(messages)-1].To)
	})

	s.Run("reject moves to rejected and mirrors the worker record", func() {
		applicant := s.seedPending()
		token := s.issue(applicant.ID)

		updated, err := s.service.Consume(s.ctx(), applicant.ID, token, DecisionReject, "Director Silva", "")
		s.Require().NoError(err)
		s.Equal(models.StatusRejected, updated.Status)
		s.Equal(models.WorkerValidationRejected, updated.Worker.Validation)
	})

	s.Run("token is single use", func() {
		applicant := s.seedPending()
		token := s.issue(applicant.ID)

		_, err := s.service.Consume(s.ctx(), applicant.ID, token, DecisionApprove, "Director Silva", "")
		s.Require().NoError(err)

		_, err = s.service.Consume(s.ctx(), applicant.ID, token, DecisionReject, "Director Silva", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

		stored, err := s.store.FindByID(s.ctx(), applicant.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusHired, stored.Status)
	})

	s.Run("expired token consumes nothing", func() {
		applicant := s.seedPending()
		token := s.issue(applicant.ID)

		lateCtx := requestcontext.WithTime(s.ctx(), s.now.Add(GrantTTL+time.Second))
		_, err := s.service.Consume(lateCtx, applicant.ID, token, DecisionApprove, "Director Silva", "")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

		stored, err := s.store.FindByID(s.ctx(), applicant.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPendingManagementApproval, stored.Status)
		s.NotNil(stored.Hiring.Grant)
	})
}

func (s *ApprovalSuite) TestSweeper() {
	s.Run("revokes expired grants and notifies the tenant", func() {
		applicant := s.seedPending()
		s.issue(applicant.ID)

		// Backdate the grant past its window.
		_, err := s.store.Execute(s.ctx(), applicant.ID, func(*models.Applicant) error { return nil },
			func(a *models.Applicant) []models.HistoryEntry {
				a.Hiring.Grant.IssuedAt = s.now.Add(-GrantTTL - time.Hour)
				a.Hiring.Grant.ExpiresAt = s.now.Add(-time.Hour)
				return nil
			})
		s.Require().NoError(err)

		s.service.Sweep(context.Background())

		stored, err := s.store.FindByID(s.ctx(), applicant.ID)
		s.Require().NoError(err)
		s.Nil(stored.Hiring.Grant)
		s.Equal(models.StatusPendingManagementApproval, stored.Status)

		entries, err := s.store.List(s.ctx(), applicant.ID)
		s.Require().NoError(err)
		s.Contains(entries[len(entries)-1].Comment, "expired")
		s.Require().NotEmpty(s.notifier.ByTenant(s.tenantID))
	})

	s.Run("leaves live grants alone", func() {
		applicant := s.seedPending()
		token := s.issue(applicant.ID)

		s.service.Sweep(context.Background())

		s.NoError(s.service.Verify(s.ctx(), applicant.ID, token))
	})
}
