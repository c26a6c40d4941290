// Package requirement persists per-employee certification obligations and
// serves the paged, scope-filtered queries the dashboards consume.
package requirement

import (
	"time"

	"certtrack/internal/eligibility"
	id "certtrack/pkg/domain"
)

// Record is one stored employee-rule obligation. The Status column is
// denormalized: the reminder scanner refreshes it so SQL can filter pages by
// status cheaply, but the classifier remains the source of truth and readers
// re-derive status at evaluation time.
type Record struct {
	ID         id.RequirementID
	EmployeeID id.EmployeeID
	RuleID     id.RuleID

	EmployeeName string
	EmployeeNIP  string

	RegionalID int64
	DivisionID int64
	UnitID     int64

	CertificationCode  string
	CertificationLevel *int
	SubFieldCode       string
	RuleLabel          string

	CertNumber        string
	CertDate          *time.Time
	ValidUntil        *time.Time
	PendingValidation bool

	DueDate       *time.Time
	ReminderDate  *time.Time
	EffectiveDate *time.Time

	Status    eligibility.Status
	UpdatedAt time.Time
}

// Eligibility maps the stored record into the classifier's value object.
func (r Record) Eligibility() eligibility.Requirement {
	req := eligibility.Requirement{
		EmployeeID:   r.EmployeeID.String(),
		EmployeeName: r.EmployeeName,
		EmployeeNIP:  r.EmployeeNIP,
		Rule: eligibility.RuleRef{
			CertificationCode: r.CertificationCode,
			Level:             r.CertificationLevel,
			SubFieldCode:      r.SubFieldCode,
			Label:             r.RuleLabel,
		},
		DueDate:       r.DueDate,
		ReminderDate:  r.ReminderDate,
		EffectiveDate: r.EffectiveDate,
	}
	if r.CertNumber != "" || r.CertDate != nil || r.ValidUntil != nil {
		req.Certificate = &eligibility.Certificate{
			Number:            r.CertNumber,
			IssuedAt:          r.CertDate,
			ValidUntil:        r.ValidUntil,
			PendingValidation: r.PendingValidation,
		}
	}
	return req
}

// ScopeFilter narrows which requirements a query considers. Nil fields mean
// "no constraint". Owned by the caller and passed by value.
type ScopeFilter struct {
	RegionalID        *int64
	DivisionID        *int64
	UnitID            *int64
	CertificationCode *string
	Level             *int
	SubFieldCode      *string
	Statuses          []eligibility.Status
}

// Matches reports whether the record satisfies every set constraint.
func (f ScopeFilter) Matches(r Record) bool {
	if f.RegionalID != nil && r.RegionalID != *f.RegionalID {
		return false
	}
	if f.DivisionID != nil && r.DivisionID != *f.DivisionID {
		return false
	}
	if f.UnitID != nil && r.UnitID != *f.UnitID {
		return false
	}
	if f.CertificationCode != nil && r.CertificationCode != *f.CertificationCode {
		return false
	}
	if f.Level != nil && (r.CertificationLevel == nil || *r.CertificationLevel != *f.Level) {
		return false
	}
	if f.SubFieldCode != nil && r.SubFieldCode != *f.SubFieldCode {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if r.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Page is one slice of a scope-filtered query result.
type Page struct {
	Content       []Record
	TotalPages    int
	TotalElements int
}
