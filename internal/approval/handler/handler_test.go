package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"hireflow/internal/applicant/models"
	"hireflow/internal/approval"
	"hireflow/internal/approval/handler/mocks"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	"hireflow/pkg/testutil"
)

type ApprovalHandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *mocks.MockService
	router      chi.Router

	applicantID id.ApplicantID
}

func TestApprovalHandlerSuite(t *testing.T) {
	suite.Run(t, new(ApprovalHandlerSuite))
}

func (s *ApprovalHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockService(s.ctrl)
	s.applicantID = id.ApplicantID(uuid.New())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.mockService, logger).Register(s.router)
}

func (s *ApprovalHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func unauthorized() error {
	return dErrors.New(dErrors.CodeUnauthorized, "approval link is invalid or has expired")
}

func (s *ApprovalHandlerSuite) TestDetails() {
	s.Run("valid token returns hiring summary", func() {
		s.mockService.EXPECT().
			ViewDetails(gomock.Any(), s.applicantID, "tok123").
			Return(&approval.Details{
				FullName:     "Marina Duarte",
				Position:     "Field Engineer",
				Compensation: "5400.00",
				Status:       models.StatusPendingManagementApproval,
			}, nil)

		req := testutil.NewRequest(s.T(), http.MethodGet, "/approvals/"+s.applicantID.String()+"?token=tok123")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		details := testutil.UnmarshalResponse[approval.Details](s.T(), rr)
		s.Equal("Marina Duarte", details.FullName)
	})

	s.Run("missing token is 401 without touching the service", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/approvals/"+s.applicantID.String())
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
		testutil.AssertErrorCode(s.T(), rr, "unauthorized")
	})

	s.Run("malformed applicant id reads like a bad token", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/approvals/not-a-uuid?token=tok123")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("rejected token is 401 with the generic message", func() {
		s.mockService.EXPECT().
			ViewDetails(gomock.Any(), s.applicantID, "stale").
			Return(nil, unauthorized())

		req := testutil.NewRequest(s.T(), http.MethodGet, "/approvals/"+s.applicantID.String()+"?token=stale")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
		body := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Equal("approval link is invalid or has expired", body["error_description"])
	})
}

func (s *ApprovalHandlerSuite) TestDecide() {
	path := func() string {
		return "/approvals/" + s.applicantID.String() + "/decision?token=tok123"
	}

	s.Run("approved decision is recorded", func() {
		s.mockService.EXPECT().
			Consume(gomock.Any(), s.applicantID, "tok123", approval.DecisionApprove, "Director Silva", "ok").
			Return(&models.Applicant{Status: models.StatusHired}, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path(), map[string]string{
			"decision":     "approved",
			"decider_name": "Director Silva",
			"note":         "ok",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Equal("hired", body["status"])
	})

	s.Run("bare verb form is accepted as an alias", func() {
		s.mockService.EXPECT().
			Consume(gomock.Any(), s.applicantID, "tok123", approval.DecisionApprove, "Director Silva", "").
			Return(&models.Applicant{Status: models.StatusHired}, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path(), map[string]string{
			"decision":     "approve",
			"decider_name": "Director Silva",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("unknown decision is a validation error", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path(), map[string]string{
			"decision":     "maybe",
			"decider_name": "Director Silva",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("missing decider name is a validation error", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path(), map[string]string{
			"decision": "approve",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("spent token is 401", func() {
		s.mockService.EXPECT().
			Consume(gomock.Any(), s.applicantID, "tok123", approval.DecisionReject, "Director Silva", "").
			Return(nil, unauthorized())

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path(), map[string]string{
			"decision":     "reject",
			"decider_name": "Director Silva",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})
}
