package eligibility

import (
	"time"

	dErrors "certtrack/pkg/domain-errors"
)

// RawRequirement is the tolerant wire shape for requirement payloads. Upstream
// exports are inconsistent about field naming (camelCase vs snake_case) and
// ship dates as strings, so every field has alternates and normalization picks
// the first non-empty value. Keeping this mess in one adapter keeps the
// classifier and ranker free of it.
type RawRequirement struct {
	EmployeeID      string `json:"employeeId"`
	EmployeeIDSnake string `json:"employee_id"`

	EmployeeName      string `json:"employeeName"`
	EmployeeNameSnake string `json:"employee_name"`

	EmployeeNIP      string `json:"employeeNip"`
	EmployeeNIPSnake string `json:"employee_nip"`

	CertificationCode      string `json:"certificationCode"`
	CertificationCodeSnake string `json:"certification_code"`

	CertificationLevel      *int `json:"certificationLevel"`
	CertificationLevelSnake *int `json:"certification_level"`

	SubFieldCode      string `json:"subFieldCode"`
	SubFieldCodeSnake string `json:"sub_field_code"`

	RuleCode      string `json:"ruleCode"`
	RuleCodeSnake string `json:"rule_code"`
	Rule          string `json:"rule"`

	CertNumber      string `json:"certNumber"`
	CertNumberSnake string `json:"cert_number"`

	CertDate      string `json:"certDate"`
	CertDateSnake string `json:"cert_date"`

	ValidUntil      string `json:"validUntil"`
	ValidUntilSnake string `json:"valid_until"`

	PendingValidation bool `json:"pendingValidation"`
	PendingSnake      bool `json:"pending_validation"`

	DueDate      string `json:"dueDate"`
	DueDateSnake string `json:"due_date"`

	ReminderDate      string `json:"reminderDate"`
	ReminderDateSnake string `json:"reminder_date"`

	EffectiveDate      string `json:"effectiveDate"`
	EffectiveDateSnake string `json:"effective_date"`
}

// dateLayouts are accepted wire formats, tried in order.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Normalize maps the tolerant wire shape into the canonical Requirement value
// object. Unparseable optional dates degrade to nil; only a missing employee
// identity is an error, since classification cannot attribute the result.
func (r RawRequirement) Normalize() (Requirement, error) {
	employeeID := coalesce(r.EmployeeID, r.EmployeeIDSnake)
	if employeeID == "" {
		return Requirement{}, dErrors.New(dErrors.CodeInvalidInput, "requirement is missing employee id")
	}

	req := Requirement{
		EmployeeID:   employeeID,
		EmployeeName: coalesce(r.EmployeeName, r.EmployeeNameSnake),
		EmployeeNIP:  coalesce(r.EmployeeNIP, r.EmployeeNIPSnake),
		Rule: RuleRef{
			CertificationCode: coalesce(r.CertificationCode, r.CertificationCodeSnake),
			Level:             coalesceInt(r.CertificationLevel, r.CertificationLevelSnake),
			SubFieldCode:      coalesce(r.SubFieldCode, r.SubFieldCodeSnake),
			Label:             coalesce(r.RuleCode, r.RuleCodeSnake, r.Rule),
		},
		DueDate:       parseDate(coalesce(r.DueDate, r.DueDateSnake)),
		ReminderDate:  parseDate(coalesce(r.ReminderDate, r.ReminderDateSnake)),
		EffectiveDate: parseDate(coalesce(r.EffectiveDate, r.EffectiveDateSnake)),
	}

	certNumber := coalesce(r.CertNumber, r.CertNumberSnake)
	certDate := parseDate(coalesce(r.CertDate, r.CertDateSnake))
	validUntil := parseDate(coalesce(r.ValidUntil, r.ValidUntilSnake))
	pending := r.PendingValidation || r.PendingSnake
	if certNumber != "" || certDate != nil || validUntil != nil {
		req.Certificate = &Certificate{
			Number:            certNumber,
			IssuedAt:          certDate,
			ValidUntil:        validUntil,
			PendingValidation: pending,
		}
	}

	return req, nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func coalesceInt(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
