package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"certtrack/internal/eligibility"
	"certtrack/internal/requirement"
	"certtrack/pkg/platform/httputil"
	"certtrack/pkg/requestcontext"
)

// Service defines the interface for dashboard operations.
type Service interface {
	Priority(ctx context.Context, filter requirement.ScopeFilter, status eligibility.Status, page, size int) (eligibility.RankedPage, error)
	Summary(ctx context.Context, filter requirement.ScopeFilter) (map[eligibility.Status]int, error)
}

// Handler wires dashboard endpoints to the dashboard service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a dashboard handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts dashboard endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard/priority", h.HandlePriority)
	r.Get("/dashboard/summary", h.HandleSummary)
}

// HandlePriority handles GET /dashboard/priority requests.
func (h *Handler) HandlePriority(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, err := ParsePriorityRequest(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid priority request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	page, err := h.service.Priority(ctx, req.ScopeFilter(), req.TargetStatus(), req.Page, req.Size)
	if err != nil {
		h.logger.ErrorContext(ctx, "priority query failed",
			"request_id", requestID,
			"status", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "priority page served",
		"request_id", requestID,
		"status", req.Status,
		"page", req.Page,
		"items", len(page.Items),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromRankedPage(page))
}

// HandleSummary handles GET /dashboard/summary requests.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, err := ParseSummaryRequest(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid summary request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	counts, err := h.service.Summary(ctx, req.ScopeFilter())
	if err != nil {
		h.logger.ErrorContext(ctx, "summary query failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromCounts(counts))
}
