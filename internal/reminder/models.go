// Package reminder watches stored requirements for status drift and publishes
// notification events when an obligation enters its warning window or
// expires.
package reminder

import (
	"time"

	"certtrack/internal/eligibility"
	id "certtrack/pkg/domain"
)

// Event is one status transition worth notifying about. Published at most
// once per transition per scan.
type Event struct {
	RequirementID id.RequirementID   `json:"requirement_id"`
	EmployeeID    id.EmployeeID      `json:"employee_id"`
	EmployeeName  string             `json:"employee_name"`
	RuleCode      string             `json:"rule_code"`
	FromStatus    eligibility.Status `json:"from_status"`
	ToStatus      eligibility.Status `json:"to_status"`
	Deadline      *time.Time         `json:"deadline,omitempty"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

// notifiable statuses trigger an event when a requirement transitions into
// them. ACTIVE and NOT_YET_CERTIFIED transitions are silent.
func notifiable(status eligibility.Status) bool {
	switch status {
	case eligibility.StatusDue, eligibility.StatusExpired, eligibility.StatusInvalid:
		return true
	}
	return false
}
