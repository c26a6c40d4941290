package handler

import (
	"time"

	"certtrack/internal/eligibility"
)

// PriorityItemResponse is one entry of the priority view.
type PriorityItemResponse struct {
	EmployeeID    string     `json:"employee_id"`
	EmployeeName  string     `json:"employee_name"`
	EmployeeNIP   string     `json:"employee_nip,omitempty"`
	RuleCode      string     `json:"rule_code"`
	Status        string     `json:"status"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	DaysRemaining *int       `json:"days_remaining,omitempty"`
}

// PriorityResponse is the HTTP response for GET /dashboard/priority.
type PriorityResponse struct {
	Content       []PriorityItemResponse `json:"content"`
	TotalPages    int                    `json:"total_pages"`
	TotalElements int                    `json:"total_elements"`
}

// SummaryResponse is the HTTP response for GET /dashboard/summary.
type SummaryResponse struct {
	Counts map[string]int `json:"counts"`
}

// FromRankedPage converts a ranked page to an HTTP response.
func FromRankedPage(page eligibility.RankedPage) PriorityResponse {
	items := make([]PriorityItemResponse, 0, len(page.Items))
	for _, entry := range page.Items {
		items = append(items, PriorityItemResponse{
			EmployeeID:    entry.Requirement.EmployeeID,
			EmployeeName:  entry.Requirement.EmployeeName,
			EmployeeNIP:   entry.Requirement.EmployeeNIP,
			RuleCode:      entry.RuleCode,
			Status:        string(entry.Status),
			Deadline:      entry.Deadline,
			DaysRemaining: entry.DaysRemaining,
		})
	}
	return PriorityResponse{
		Content:       items,
		TotalPages:    page.TotalPages,
		TotalElements: page.TotalElements,
	}
}

// FromCounts converts per-status counts to an HTTP response.
func FromCounts(counts map[eligibility.Status]int) SummaryResponse {
	out := make(map[string]int, len(counts))
	for status, count := range counts {
		out[string(status)] = count
	}
	return SummaryResponse{Counts: out}
}
