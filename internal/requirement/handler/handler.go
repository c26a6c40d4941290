package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"certtrack/internal/requirement"
	requirementservice "certtrack/internal/requirement/service"
	id "certtrack/pkg/domain"
	"certtrack/pkg/platform/httputil"
	"certtrack/pkg/requestcontext"
)

// Service defines the interface for requirement operations.
type Service interface {
	Ingest(ctx context.Context, input requirementservice.IngestInput) (requirement.Record, error)
	Evaluate(ctx context.Context, requirementID id.RequirementID) (requirementservice.Evaluation, error)
	List(ctx context.Context, filter requirement.ScopeFilter, page, size int) (requirement.Page, error)
	Delete(ctx context.Context, requirementID id.RequirementID) error
}

// Handler wires requirement endpoints to the requirement service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a requirement handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts requirement endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/requirements", h.HandleIngest)
	r.Get("/requirements", h.HandleList)
	r.Get("/requirements/{requirementID}", h.HandleEvaluate)
	r.Delete("/requirements/{requirementID}", h.HandleDelete)
}

// HandleIngest handles POST /requirements requests.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[IngestRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	ruleID, err := id.ParseRuleID(req.RuleID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Ingest(ctx, requirementservice.IngestInput{
		Raw:        req.Payload,
		RuleID:     ruleID,
		RegionalID: req.RegionalID,
		DivisionID: req.DivisionID,
		UnitID:     req.UnitID,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "requirement ingestion failed",
			"request_id", requestID,
			"rule_id", req.RuleID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "requirement stored",
		"request_id", requestID,
		"requirement_id", record.ID,
		"status", record.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, FromRecord(record))
}

// HandleList handles GET /requirements requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := ParseListRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, err := h.service.List(ctx, req.ScopeFilter(), req.Page, req.Size)
	if err != nil {
		h.logger.ErrorContext(ctx, "requirement listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromPage(page))
}

// HandleEvaluate handles GET /requirements/{requirementID} requests. The
// response carries both the stored record and its classification at the
// request's evaluation time.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requirementID, err := id.ParseRequirementID(chi.URLParam(r, "requirementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	eval, err := h.service.Evaluate(ctx, requirementID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromEvaluation(eval))
}

// HandleDelete handles DELETE /requirements/{requirementID} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requirementID, err := id.ParseRequirementID(chi.URLParam(r, "requirementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, requirementID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
