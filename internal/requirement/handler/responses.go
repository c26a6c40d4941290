package handler

import (
	"time"

	"certtrack/internal/eligibility"
	"certtrack/internal/requirement"
	requirementservice "certtrack/internal/requirement/service"
)

// RecordResponse is the HTTP representation of one stored requirement.
type RecordResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	RuleID     string `json:"rule_id"`

	EmployeeName string `json:"employee_name"`
	EmployeeNIP  string `json:"employee_nip,omitempty"`

	RegionalID int64 `json:"regional_id"`
	DivisionID int64 `json:"division_id"`
	UnitID     int64 `json:"unit_id"`

	RuleCode string `json:"rule_code"`

	CertNumber        string     `json:"cert_number,omitempty"`
	CertDate          *time.Time `json:"cert_date,omitempty"`
	ValidUntil        *time.Time `json:"valid_until,omitempty"`
	PendingValidation bool       `json:"pending_validation"`

	DueDate      *time.Time `json:"due_date,omitempty"`
	ReminderDate *time.Time `json:"reminder_date,omitempty"`

	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EvaluationResponse is the HTTP response for GET /requirements/{id}: the
// stored record plus its classification at evaluation time.
type EvaluationResponse struct {
	Record RecordResponse `json:"record"`

	Status   string     `json:"status"`
	Deadline *time.Time `json:"deadline,omitempty"`
	RuleCode string     `json:"rule_code"`
}

// ListResponse is the HTTP response for GET /requirements.
type ListResponse struct {
	Content       []RecordResponse `json:"content"`
	TotalPages    int              `json:"total_pages"`
	TotalElements int              `json:"total_elements"`
}

// FromRecord converts a stored record to an HTTP response.
func FromRecord(record requirement.Record) RecordResponse {
	return RecordResponse{
		ID:         record.ID.String(),
		EmployeeID: record.EmployeeID.String(),
		RuleID:     record.RuleID.String(),

		EmployeeName: record.EmployeeName,
		EmployeeNIP:  record.EmployeeNIP,

		RegionalID: record.RegionalID,
		DivisionID: record.DivisionID,
		UnitID:     record.UnitID,

		RuleCode: eligibility.ComposeRuleCode(record.CertificationCode, record.CertificationLevel, record.SubFieldCode, record.RuleLabel),

		CertNumber:        record.CertNumber,
		CertDate:          record.CertDate,
		ValidUntil:        record.ValidUntil,
		PendingValidation: record.PendingValidation,

		DueDate:      record.DueDate,
		ReminderDate: record.ReminderDate,

		Status:    string(record.Status),
		UpdatedAt: record.UpdatedAt,
	}
}

// FromEvaluation converts a record with its live classification to an HTTP
// response.
func FromEvaluation(eval requirementservice.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		Record:   FromRecord(eval.Record),
		Status:   string(eval.Classification.Status),
		Deadline: eval.Classification.Deadline,
		RuleCode: eval.Classification.RuleCode,
	}
}

// FromPage converts a listing page to an HTTP response.
func FromPage(page requirement.Page) ListResponse {
	items := make([]RecordResponse, 0, len(page.Content))
	for _, record := range page.Content {
		items = append(items, FromRecord(record))
	}
	return ListResponse{
		Content:       items,
		TotalPages:    page.TotalPages,
		TotalElements: page.TotalElements,
	}
}
