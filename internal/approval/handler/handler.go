// Package handler exposes the unauthenticated remote-approval endpoints.
// The bearer token in the query string is the only credential; every
// failure mode answers with the same generic 401.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hireflow/internal/applicant/models"
	"hireflow/internal/approval"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	"hireflow/pkg/platform/httputil"
	"hireflow/pkg/requestcontext"
)

// Service defines the interface for approval operations.
type Service interface {
	ViewDetails(ctx context.Context, applicantID id.ApplicantID, token string) (*approval.Details, error)
	Consume(ctx context.Context, applicantID id.ApplicantID, token string, decision approval.Decision, deciderName, note string) (*models.Applicant, error)
}

// Handler wires approval endpoints to the approval service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an approval handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the approval endpoints. These routes sit outside the
// authenticated router group.
func (h *Handler) Register(r chi.Router) {
	r.Route("/approvals/{applicantID}", func(r chi.Router) {
		r.Get("/", h.HandleDetails)
		r.Post("/decision", h.HandleDecide)
	})
}

// credentials extracts the applicant ID and token. A malformed ID answers
// exactly like a bad token so the endpoint confirms nothing about which
// applicants exist.
func (h *Handler) credentials(w http.ResponseWriter, r *http.Request) (id.ApplicantID, string, bool) {
	applicantID, err := id.ParseApplicantID(chi.URLParam(r, "applicantID"))
	token := r.URL.Query().Get("token")
	if err != nil || token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "approval link is invalid or has expired"))
		return id.ApplicantID{}, "", false
	}
	return applicantID, token, true
}

// HandleDetails handles GET /approvals/{applicantID}?token=...
func (h *Handler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicantID, token, ok := h.credentials(w, r)
	if !ok {
		return
	}

	details, err := h.service.ViewDetails(ctx, applicantID, token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, details)
}

// DecideRequest is the body for POST /approvals/{applicantID}/decision.
type DecideRequest struct {
	Decision    string `json:"decision"`
	DeciderName string `json:"decider_name"`
	Note        string `json:"note"`

	parsedDecision approval.Decision
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *DecideRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	decision, err := approval.ParseDecision(strings.TrimSpace(r.Decision))
	if err != nil {
		return err
	}
	r.parsedDecision = decision
	r.DeciderName = strings.TrimSpace(r.DeciderName)
	if r.DeciderName == "" {
		return dErrors.New(dErrors.CodeValidation, "decider_name is required")
	}
	r.Note = strings.TrimSpace(r.Note)
	return nil
}

// ParsedDecision returns the validated decision.
func (r *DecideRequest) ParsedDecision() approval.Decision { return r.parsedDecision }

// HandleDecide handles POST /approvals/{applicantID}/decision?token=...
func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	applicantID, token, ok := h.credentials(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[DecideRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	applicant, err := h.service.Consume(ctx, applicantID, token, req.ParsedDecision(), req.DeciderName, req.Note)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "remote decision recorded",
		"request_id", requestID,
		"applicant_id", applicantID.String(),
		"decision", req.Decision,
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  string(applicant.Status),
		"message": "decision recorded",
	})
}
