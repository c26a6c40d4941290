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

// PriorityRequest carries the query parameters of the priority view.
type PriorityRequest struct {
	Status string `validate:"required,oneof=NOT_YET_CERTIFIED ACTIVE DUE EXPIRED PENDING INVALID"`
	Page   int    `validate:"gte=1"`
	Size   int    `validate:"gte=1,lte=200"`

	RegionalID        *int64
	DivisionID        *int64
	UnitID            *int64
	CertificationCode *string
	Level             *int
	SubFieldCode      *string
}

// SummaryRequest carries the query parameters of the summary view.
type SummaryRequest struct {
	RegionalID        *int64
	DivisionID        *int64
	UnitID            *int64
	CertificationCode *string
	Level             *int
	SubFieldCode      *string
}

// ParsePriorityRequest reads the priority view parameters from the URL query.
func ParsePriorityRequest(r *http.Request) (PriorityRequest, error) {
	q := r.URL.Query()

	req := PriorityRequest{
		Status: q.Get("status"),
		Page:   1,
		Size:   20,
	}

	var err error
	if req.Page, err = intParam(q.Get("page"), req.Page); err != nil {
		return req, dErrors.New(dErrors.CodeBadRequest, "page must be an integer")
	}
	if req.Size, err = intParam(q.Get("size"), req.Size); err != nil {
		return req, dErrors.New(dErrors.CodeBadRequest, "size must be an integer")
	}
	if err := parseScopeParams(q.Get("regional_id"), q.Get("division_id"), q.Get("unit_id"),
		q.Get("certification_code"), q.Get("level"), q.Get("sub_field_code"),
		&req.RegionalID, &req.DivisionID, &req.UnitID, &req.CertificationCode, &req.Level, &req.SubFieldCode); err != nil {
		return req, err
	}

	if err := validate.Struct(req); err != nil {
		return req, dErrors.New(dErrors.CodeBadRequest, "invalid priority request: "+err.Error())
	}
	return req, nil
}

// ParseSummaryRequest reads the summary view parameters from the URL query.
func ParseSummaryRequest(r *http.Request) (SummaryRequest, error) {
	q := r.URL.Query()

	var req SummaryRequest
	if err := parseScopeParams(q.Get("regional_id"), q.Get("division_id"), q.Get("unit_id"),
		q.Get("certification_code"), q.Get("level"), q.Get("sub_field_code"),
		&req.RegionalID, &req.DivisionID, &req.UnitID, &req.CertificationCode, &req.Level, &req.SubFieldCode); err != nil {
		return req, err
	}
	if err := validate.Struct(req); err != nil {
		return req, dErrors.New(dErrors.CodeBadRequest, "invalid summary request: "+err.Error())
	}
	return req, nil
}

// ScopeFilter maps the request onto the store's filter shape.
func (r PriorityRequest) ScopeFilter() requirement.ScopeFilter {
	return scopeFilter(r.RegionalID, r.DivisionID, r.UnitID, r.CertificationCode, r.Level, r.SubFieldCode)
}

// ScopeFilter maps the request onto the store's filter shape.
func (r SummaryRequest) ScopeFilter() requirement.ScopeFilter {
	return scopeFilter(r.RegionalID, r.DivisionID, r.UnitID, r.CertificationCode, r.Level, r.SubFieldCode)
}

// TargetStatus returns the validated status as the domain type.
func (r PriorityRequest) TargetStatus() eligibility.Status {
	return eligibility.Status(r.Status)
}

func scopeFilter(regional, division, unit *int64, cert *string, level *int, subField *string) requirement.ScopeFilter {
	return requirement.ScopeFilter{
		RegionalID:        regional,
		DivisionID:        division,
		UnitID:            unit,
		CertificationCode: cert,
		Level:             level,
		SubFieldCode:      subField,
	}
}

func parseScopeParams(regional, division, unit, cert, level, subField string,
	regionalOut, divisionOut, unitOut **int64, certOut **string, levelOut **int, subFieldOut **string) error {

	var err error
	if *regionalOut, err = int64Param(regional); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "regional_id must be an integer")
	}
	if *divisionOut, err = int64Param(division); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "division_id must be an integer")
	}
	if *unitOut, err = int64Param(unit); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "unit_id must be an integer")
	}
	if cert != "" {
		*certOut = &cert
	}
	if level != "" {
		parsed, err := strconv.Atoi(level)
		if err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "level must be an integer")
		}
		*levelOut = &parsed
	}
	if subField != "" {
		*subFieldOut = &subField
	}
	return nil
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
