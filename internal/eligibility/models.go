// Package eligibility contains the pure compliance-classification core:
// mapping one employee-rule obligation to a status and deadline, and ordering
// classified entries for priority views. No I/O, no clocks read implicitly;
// callers supply "now".
package eligibility

import "time"

// Status is the compliance state of one requirement at evaluation time.
// Exactly one status applies per requirement.
type Status string

const (
	StatusNotYetCertified Status = "NOT_YET_CERTIFIED"
	StatusActive          Status = "ACTIVE"
	StatusDue             Status = "DUE"
	StatusExpired         Status = "EXPIRED"
	StatusPending         Status = "PENDING"
	StatusInvalid         Status = "INVALID"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotYetCertified, StatusActive, StatusDue, StatusExpired, StatusPending, StatusInvalid:
		return true
	}
	return false
}

// RuleRef identifies the certification rule a requirement points at. Level and
// SubFieldCode are optional; Label is an explicit server-supplied display code
// used as fallback when no parts are present.
type RuleRef struct {
	CertificationCode string
	Level             *int
	SubFieldCode      string
	Label             string
}

// Certificate is the employee's obtained certificate, when one exists.
// PendingValidation is a server-side flag: the certificate was submitted but
// not yet validated, which cannot be derived from dates alone.
type Certificate struct {
	Number            string
	IssuedAt          *time.Time
	ValidUntil        *time.Time
	PendingValidation bool
}

// Requirement represents one obligation of one employee toward one
// certification rule. Identity fields are immutable once loaded.
type Requirement struct {
	EmployeeID   string
	EmployeeName string
	EmployeeNIP  string

	Rule        RuleRef
	Certificate *Certificate

	DueDate       *time.Time
	ReminderDate  *time.Time
	EffectiveDate *time.Time
}

// Classification is the result of evaluating a requirement at a point in time.
type Classification struct {
	Status   Status
	Deadline *time.Time
	RuleCode string
}

// PriorityEntry is a requirement enriched with computed fields for priority
// views. Created per evaluation cycle, never persisted, immutable once built.
type PriorityEntry struct {
	Requirement Requirement
	Status      Status
	RuleCode    string
	Deadline    *time.Time
	// DaysRemaining is ceil(deadline-now in whole days); nil when no deadline
	// exists. Negative values mean days overdue and are preserved.
	DaysRemaining *int
}

// RankedPage is an ordered, paginated priority view.
type RankedPage struct {
	Items         []PriorityEntry
	TotalPages    int
	TotalElements int
}
