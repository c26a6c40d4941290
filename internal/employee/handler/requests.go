package handler

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"certtrack/internal/employee"
	employeeservice "certtrack/internal/employee/service"
	dErrors "certtrack/pkg/domain-errors"
)

var validate = validator.New()

// RegisterEmployeeRequest is the HTTP request body for POST /employees.
type RegisterEmployeeRequest struct {
	NIP      string `json:"nip" validate:"required,max=32"`
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
	Position string `json:"position" validate:"max=255"`

	RegionalID int64 `json:"regional_id" validate:"gte=0"`
	DivisionID int64 `json:"division_id" validate:"gte=0"`
	UnitID     int64 `json:"unit_id" validate:"gte=0"`
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r RegisterEmployeeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid employee request: "+err.Error())
	}
	return nil
}

// Input maps the request onto the service input shape.
func (r RegisterEmployeeRequest) Input() employeeservice.RegisterInput {
	return employeeservice.RegisterInput{
		NIP:        r.NIP,
		Name:       r.Name,
		Email:      r.Email,
		Position:   r.Position,
		RegionalID: r.RegionalID,
		DivisionID: r.DivisionID,
		UnitID:     r.UnitID,
	}
}

// ListEmployeesRequest carries the query parameters of the employee listing.
type ListEmployeesRequest struct {
	Page int `validate:"gte=1"`
	Size int `validate:"gte=1,lte=200"`

	RegionalID *int64
	DivisionID *int64
	UnitID     *int64
	ActiveOnly bool
}

// ParseListRequest reads the listing parameters from the URL query.
func ParseListRequest(r *http.Request) (ListEmployeesRequest, error) {
	q := r.URL.Query()

	req := ListEmployeesRequest{
		Page:       1,
		Size:       20,
		ActiveOnly: q.Get("active_only") == "true",
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

	if err := validate.Struct(req); err != nil {
		return req, dErrors.New(dErrors.CodeBadRequest, "invalid listing request: "+err.Error())
	}
	return req, nil
}

// ScopeFilter maps the request onto the store's filter shape.
func (r ListEmployeesRequest) ScopeFilter() employee.ScopeFilter {
	return employee.ScopeFilter{
		RegionalID: r.RegionalID,
		DivisionID: r.DivisionID,
		UnitID:     r.UnitID,
		ActiveOnly: r.ActiveOnly,
	}
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
