package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"certtrack/internal/certrule"
	certruleservice "certtrack/internal/certrule/service"
	id "certtrack/pkg/domain"
	dErrors "certtrack/pkg/domain-errors"
	"certtrack/pkg/platform/httputil"
	"certtrack/pkg/requestcontext"
)

var validate = validator.New()

// Service defines the interface for rule registry operations.
type Service interface {
	Define(ctx context.Context, input certruleservice.DefineInput) (certrule.Rule, error)
	Get(ctx context.Context, ruleID id.RuleID) (certrule.Rule, error)
	List(ctx context.Context) ([]certrule.Rule, error)
	Delete(ctx context.Context, ruleID id.RuleID) error
}

// DefineRuleRequest is the HTTP request body for POST /rules.
type DefineRuleRequest struct {
	CertificationCode string `json:"certification_code" validate:"max=64"`
	Level             *int   `json:"level" validate:"omitempty,gte=0"`
	SubFieldCode      string `json:"sub_field_code" validate:"max=64"`
	Label             string `json:"label" validate:"max=64"`

	ValidityMonths int `json:"validity_months" validate:"gte=0"`
	ReminderMonths int `json:"reminder_months" validate:"gte=0"`
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r DefineRuleRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid rule request: "+err.Error())
	}
	return nil
}

// Input maps the request onto the service input shape.
func (r DefineRuleRequest) Input() certruleservice.DefineInput {
	return certruleservice.DefineInput{
		CertificationCode: r.CertificationCode,
		Level:             r.Level,
		SubFieldCode:      r.SubFieldCode,
		Label:             r.Label,
		ValidityMonths:    r.ValidityMonths,
		ReminderMonths:    r.ReminderMonths,
	}
}

// RuleResponse is the HTTP representation of one certification rule.
type RuleResponse struct {
	ID                string    `json:"id"`
	RuleCode          string    `json:"rule_code"`
	CertificationCode string    `json:"certification_code,omitempty"`
	Level             *int      `json:"level,omitempty"`
	SubFieldCode      string    `json:"sub_field_code,omitempty"`
	Label             string    `json:"label,omitempty"`
	ValidityMonths    int       `json:"validity_months"`
	ReminderMonths    int       `json:"reminder_months"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FromRule converts a domain rule to an HTTP response.
func FromRule(rule certrule.Rule) RuleResponse {
	return RuleResponse{
		ID:                rule.ID.String(),
		RuleCode:          rule.RuleCode(),
		CertificationCode: rule.CertificationCode,
		Level:             rule.Level,
		SubFieldCode:      rule.SubFieldCode,
		Label:             rule.Label,
		ValidityMonths:    rule.ValidityMonths,
		ReminderMonths:    rule.ReminderMonths,
		CreatedAt:         rule.CreatedAt,
		UpdatedAt:         rule.UpdatedAt,
	}
}

// Handler wires rule registry endpoints to the rule service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a rule handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts rule registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/rules", h.HandleDefine)
	r.Get("/rules", h.HandleList)
	r.Get("/rules/{ruleID}", h.HandleGet)
	r.Delete("/rules/{ruleID}", h.HandleDelete)
}

// HandleDefine handles POST /rules requests.
func (h *Handler) HandleDefine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DefineRuleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rule, err := h.service.Define(ctx, req.Input())
	if err != nil {
		h.logger.ErrorContext(ctx, "rule definition failed",
			"request_id", requestID,
			"certification_code", req.CertificationCode,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromRule(rule))
}

// HandleList handles GET /rules requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rules, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "rule listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	out := make([]RuleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, FromRule(rule))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /rules/{ruleID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ruleID, err := id.ParseRuleID(chi.URLParam(r, "ruleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rule, err := h.service.Get(ctx, ruleID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRule(rule))
}

// HandleDelete handles DELETE /rules/{ruleID} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ruleID, err := id.ParseRuleID(chi.URLParam(r, "ruleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, ruleID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
