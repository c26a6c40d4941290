package handler

import (
	"time"

	"certtrack/internal/employee"
)

// EmployeeResponse is the HTTP representation of one employee.
type EmployeeResponse struct {
	ID       string `json:"id"`
	NIP      string `json:"nip"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Position string `json:"position,omitempty"`

	RegionalID int64 `json:"regional_id"`
	DivisionID int64 `json:"division_id"`
	UnitID     int64 `json:"unit_id"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListResponse is the HTTP response for GET /employees.
type ListResponse struct {
	Content       []EmployeeResponse `json:"content"`
	TotalPages    int                `json:"total_pages"`
	TotalElements int                `json:"total_elements"`
}

// FromEmployee converts a domain employee to an HTTP response.
func FromEmployee(e employee.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID.String(),
		NIP:        e.NIP,
		Name:       e.Name,
		Email:      e.Email,
		Position:   e.Position,
		RegionalID: e.RegionalID,
		DivisionID: e.DivisionID,
		UnitID:     e.UnitID,
		Active:     e.Active,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// FromPage converts a listing page to an HTTP response.
func FromPage(page employee.Page) ListResponse {
	items := make([]EmployeeResponse, 0, len(page.Content))
	for _, e := range page.Content {
		items = append(items, FromEmployee(e))
	}
	return ListResponse{
		Content:       items,
		TotalPages:    page.TotalPages,
		TotalElements: page.TotalElements,
	}
}
