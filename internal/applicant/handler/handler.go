package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hireflow/internal/applicant/models"
	"hireflow/internal/applicant/service"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	"hireflow/pkg/platform/httputil"
	"hireflow/pkg/requestcontext"
)

// Service defines the interface for applicant workflow operations.
type Service interface {
	Create(ctx context.Context, input service.CreateInput) (*models.Applicant, error)
	Get(ctx context.Context, applicantID id.ApplicantID) (*models.Applicant, error)
	List(ctx context.Context, tenantID id.TenantID) ([]*models.Applicant, error)
	History(ctx context.Context, applicantID id.ApplicantID) ([]models.HistoryEntry, error)
	UpdateStatus(ctx context.Context, applicantID id.ApplicantID, target models.Status, comment string) (*models.Applicant, error)

	ScheduleInterview(ctx context.Context, applicantID id.ApplicantID, at time.Time, location string) (*models.Applicant, error)
	ConfirmInterview(ctx context.Context, applicantID id.ApplicantID) (*models.Applicant, error)
	RescheduleInterview(ctx context.Context, applicantID id.ApplicantID, newDate time.Time, reason string) (*models.Applicant, error)
	CancelInterview(ctx context.Context, applicantID id.ApplicantID, reason string) (*models.Applicant, error)
	SuspendInterview(ctx context.Context, applicantID id.ApplicantID, reason string) (*models.Applicant, error)
	CompleteInterview(ctx context.Context, applicantID id.ApplicantID, result models.InterviewResult) (*models.Applicant, error)

	ScoreTest(ctx context.Context, applicantID id.ApplicantID, input service.ScoreInput) (*models.Applicant, error)
	MarkChecklistItem(ctx context.Context, applicantID id.ApplicantID, input service.ChecklistInput) (*models.Applicant, error)
	UpdateWorker(ctx context.Context, applicantID id.ApplicantID, input service.WorkerInput) (*models.Applicant, error)
	RecordDocuments(ctx context.Context, applicantID id.ApplicantID, input service.DocumentsInput) (*models.Applicant, error)
}

// Handler wires applicant workflow endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an applicant handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts applicant endpoints on the router. All routes require an
// authenticated actor; the middleware chain guarantees one is in context.
func (h *Handler) Register(r chi.Router) {
	r.Route("/applicants", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)

		r.Route("/{applicantID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Get("/history", h.HandleHistory)
			r.Post("/status", h.HandleUpdateStatus)

			r.Post("/interview/schedule", h.HandleScheduleInterview)
			r.Post("/interview/confirm", h.HandleConfirmInterview)
			r.Post("/interview/reschedule", h.HandleRescheduleInterview)
			r.Post("/interview/cancel", h.HandleCancelInterview)
			r.Post("/interview/suspend", h.HandleSuspendInterview)
			r.Post("/interview/complete", h.HandleCompleteInterview)

			r.Post("/tests/score", h.HandleScoreTest)
			r.Post("/accreditation", h.HandleMarkChecklistItem)
			r.Put("/worker", h.HandleUpdateWorker)
			r.Put("/documents", h.HandleRecordDocuments)
		})
	})
}

// applicantID pulls and parses the path parameter, writing the error
// response itself on failure.
func (h *Handler) applicantID(w http.ResponseWriter, r *http.Request) (id.ApplicantID, bool) {
	applicantID, err := id.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid applicant id"))
		return id.ApplicantID{}, false
	}
	return applicantID, true
}

// HandleCreate handles POST /applicants.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	applicant, err := h.service.Create(ctx, req.Input())
	if err != nil {
		h.logger.ErrorContext(ctx, "applicant creation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "applicant created",
		"request_id", requestID,
		"applicant_id", applicant.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromApplicant(applicant))
}

// HandleGet handles GET /applicants/{applicantID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	applicantID, ok := h.applicantID(w, r)
	if !ok {
		return
	}
	applicant, err := h.service.Get(r.Context(), applicantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplicant(applicant))
}

// HandleList handles GET /applicants. Members list their own tenant;
// privileged actors may select one with the tenant_id query parameter.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := requestcontext.Actor(ctx).TenantID
	if raw := r.URL.Query().Get("tenant_id"); raw != "" {
		parsed, err := id.ParseTenantID(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
			return
		}
		tenantID = parsed
	}

	applicants, err := h.service.List(ctx, tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplicants(applicants))
}

// HandleHistory handles GET /applicants/{applicantID}/history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	applicantID, ok := h.applicantID(w, r)
	if !ok {
		return
	}
	entries, err := h.service.History(r.Context(), applicantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromHistory(entries))
}

// HandleUpdateStatus handles POST /applicants/{applicantID}/status.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	applicantID, ok := h.applicantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	applicant, err := h.service.UpdateStatus(ctx, applicantID, req.ParsedStatus(), req.Comment)
	if err != nil {
		h.logger.WarnContext(ctx, "status change rejected",
			"request_id", requestID,
			"applicant_id", applicantID.String(),
			"target", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "status changed",
		"request_id", requestID,
		"applicant_id", applicantID.String(),
		"status", string(applicant.Status),
	)
	httputil.WriteJSON(w, http.StatusOK, FromApplicant(applicant))
}

// HandleScheduleInterview handles POST /applicants/{applicantID}/interview/schedule.
func (h *Handler) HandleScheduleInterview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicantID, ok := h.applicantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ScheduleInterviewRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	applicant, err := h.service.ScheduleInterview(ctx, applicantID, req.ParsedDate(), req.Location)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplicant(applicant))
}

// HandleConfirmInterview handles POST /applicants/{applicantID}/interview/confirm.
func (h *Handler) HandleConfirmInterview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicantID, ok := h.applicantID(w, r)
	if !ok {
		return
	}
	applicant, err := h.service.ConfirmInterview(ctx, applicantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplicant(applicant))
}

// HandleRescheduleInterview handles POST /applicants/{applicantID}/interview/reschedule.
func (h *Handler) HandleRescheduleInterview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicantID, ok := h.applicantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RescheduleInterviewRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	applicant, err := h.service.RescheduleInterview(ctx, applicantID, req.ParsedDate(), req.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplicant(applicant))
}

// HandleCancelInterview handles POST /applicants/{applicantID}/interview/cancel.
func (h *Handler) HandleCancelInterview(w http.ResponseWriter, r *http.Request) {
	h.closeInterview(w, r, h.service.CancelInterview)
}

// HandleSuspendInterview handles POST /applicants/{applicantID}/interview/suspend.
func (h *Handler) HandleSuspendInterview(w http.ResponseWriter, r *http.Request) {
	h.closeInterview(w, r, h.service.SuspendInterview)
}

func (h *Handler) closeInterview(w http.ResponseWriter, r *http.Request,
	op func(context.Context, id.ApplicantID, string) (*models.Applicant, error)) {

	ctx := r.Context()
	applicantID, ok := h.applicantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReasonRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	applicant, err := op(ctx, applicantID, req.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplicant(applicant))
}

// HandleCompleteInterview handles POST /applicants/{applicantID}/interview/complete.
func (h *Handler) HandleCompleteInterview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicantID, ok := h.applicantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CompleteInterviewRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	applicant, err := h.service.CompleteInterview(ctx, applicantID, req.ParsedResult())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplicant(applicant))
}

// HandleScoreTest handles POST /applicants/{applicantID}/tests/score.
func (h *Handler) HandleScoreTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicantID, ok := h.applicantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ScoreTestRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	applicant, err := h.service.ScoreTest(ctx, applicantID, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplicant(applicant))
}

// HandleMarkChecklistItem handles POST /applicants/{applicantID}/accreditation.
func (h *Handler) HandleMarkChecklistItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicantID, ok := h.applicantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ChecklistRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	applicant, err := h.service.MarkChecklistItem(ctx, applicantID, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplicant(applicant))
}

// HandleUpdateWorker handles PUT /applicants/{applicantID}/worker.
func (h *Handler) HandleUpdateWorker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicantID, ok := h.applicantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[WorkerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	applicant, err := h.service.UpdateWorker(ctx, applicantID, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplicant(applicant))
}

// HandleRecordDocuments handles PUT /applicants/{applicantID}/documents.
func (h *Handler) HandleRecordDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicantID, ok := h.applicantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[DocumentsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	applicant, err := h.service.RecordDocuments(ctx, applicantID, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplicant(applicant))
}
