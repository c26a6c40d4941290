package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"certtrack/internal/employee"
	employeeservice "certtrack/internal/employee/service"
	id "certtrack/pkg/domain"
	"certtrack/pkg/platform/httputil"
	"certtrack/pkg/requestcontext"
)

// Service defines the interface for employee registry operations.
type Service interface {
	Register(ctx context.Context, input employeeservice.RegisterInput) (employee.Employee, error)
	Get(ctx context.Context, employeeID id.EmployeeID) (employee.Employee, error)
	List(ctx context.Context, filter employee.ScopeFilter, page, size int) (employee.Page, error)
	Deactivate(ctx context.Context, employeeID id.EmployeeID) error
}

// Handler wires employee registry endpoints to the employee service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an employee handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts employee endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/employees", h.HandleRegister)
	r.Get("/employees", h.HandleList)
	r.Get("/employees/{employeeID}", h.HandleGet)
	r.Delete("/employees/{employeeID}", h.HandleDeactivate)
}

// HandleRegister handles POST /employees requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterEmployeeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	e, err := h.service.Register(ctx, req.Input())
	if err != nil {
		h.logger.ErrorContext(ctx, "employee registration failed",
			"request_id", requestID,
			"nip", req.NIP,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromEmployee(e))
}

// HandleList handles GET /employees requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, err := ParseListRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, err := h.service.List(ctx, req.ScopeFilter(), req.Page, req.Size)
	if err != nil {
		h.logger.ErrorContext(ctx, "employee listing failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromPage(page))
}

// HandleGet handles GET /employees/{employeeID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employeeID, err := id.ParseEmployeeID(chi.URLParam(r, "employeeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	e, err := h.service.Get(ctx, employeeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromEmployee(e))
}

// HandleDeactivate handles DELETE /employees/{employeeID} requests.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	employeeID, err := id.ParseEmployeeID(chi.URLParam(r, "employeeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Deactivate(ctx, employeeID); err != nil {
		h.logger.ErrorContext(ctx, "employee deactivation failed",
			"request_id", requestID,
			"employee_id", employeeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
