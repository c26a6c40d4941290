package handler

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"certtrack/internal/eligibility"
	"certtrack/internal/requirement"
	dErrors "certtrack/pkg/domain-errors"
)

var validate = validator.New()

// IngestRequest is the HTTP request body for POST /requirements. The payload
// field carries the tolerant upstream shape as-is; the envelope adds what the
// payload lacks.
type IngestRequest struct {
	RuleID string `json:"rule_id" validate:"required,uuid"`

	RegionalID int64 `json:"regional_id" validate:"gte=0"`
	DivisionID int64 `json:"division_id" validate:"gte=0"`
	UnitID     int64 `json:"unit_id" validate:"gte=0"`

	Payload eligibility.RawRequirement `json:"payload"`
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r IngestRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid ingest request: "+err.Error())
	}
	return nil
}

// ListRequirementsRequest carries the query parameters of the requirement
// listing.
type ListRequirementsRequest struct {
	Page int `validate:"gte=1"`
	Size int `validate:"gte=1,lte=200"`

	RegionalID        *int64
	DivisionID        *int64
	UnitID            *int64
	CertificationCode *string
	Level             *int
	Status            string `validate:"omitempty,oneof=NOT_YET_CERTIFIED ACTIVE DUE EXPIRED PENDING INVALID"`
}

// ParseListRequest reads the listing parameters from the URL query.
func ParseListRequest(r *http.Request) (ListRequirementsRequest, error) {
	q := r.URL.Query()

	req := ListRequirementsRequest{
		Page:   1,
		Size:   20,
		Status: q.Get("status"),
	}

	var err error
	if req.Page, err = intParam(q.Get("page"), req.Page); err != nil {
		return req, dErrors.New(dErrors.CodeBadRequest, "page must be an integer")
	}
	if req.Size, err = intParam(q.Get("size"), req.Size); err != nil {
		return req, dErrors.New(dErrors.CodeBadRequest, "size must be an integer")
	}
	if req.RegionalID, err = int64Param(q.Get("regional_id")); err != nil {
		return req, dErrors.New(dErrors.CodeBadRequest, "regional_id must be an integer")
	}
	if req.DivisionID, err = int64Param(q.Get("division_id")); err != nil {
		return req, dErrors.New(dErrors.CodeBadRequest, "division_id must be an integer")
	}
	if req.UnitID, err = int64Param(q.Get("unit_id")); err != nil {
		return req, dErrors.New(dErrors.CodeBadRequest, "unit_id must be an integer")
	}
	if code := q.Get("certification_code"); code != "" {
		req.CertificationCode = &code
	}
	if level := q.Get("level"); level != "" {
		parsed, err := strconv.Atoi(level)
		if err != nil {
			return req, dErrors.New(dErrors.CodeBadRequest, "level must be an integer")
		}
		req.Level = &parsed
	}

	if err := validate.Struct(req); err != nil {
		return req, dErrors.New(dErrors.CodeBadRequest, "invalid listing request: "+err.Error())
	}
	return req, nil
}

// ScopeFilter maps the request onto the store's filter shape.
func (r ListRequirementsRequest) ScopeFilter() requirement.ScopeFilter {
	filter := requirement.ScopeFilter{
		RegionalID:        r.RegionalID,
		DivisionID:        r.DivisionID,
		UnitID:            r.UnitID,
		CertificationCode: r.CertificationCode,
		Level:             r.Level,
	}
	if r.Status != "" {
		filter.Statuses = []eligibility.Status{eligibility.Status(r.Status)}
	}
	return filter
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func int64Param(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
