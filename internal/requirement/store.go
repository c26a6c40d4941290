package requirement

import (
	"context"
	"time"

	"certtrack/internal/eligibility"
	id "certtrack/pkg/domain"
)

// Store is the paged-data collaborator the dashboards and the reminder
// scanner depend on. Implementations apply the scope filter and pagination;
// re-deriving status and per-page ordering stays in the eligibility core.
type Store interface {
	Upsert(ctx context.Context, record Record) error
	Get(ctx context.Context, requirementID id.RequirementID) (Record, error)
	GetByEmployeeRule(ctx context.Context, employeeID id.EmployeeID, ruleID id.RuleID) (Record, error)
	Delete(ctx context.Context, requirementID id.RequirementID) error

	// Query returns one page of records matching the filter. Page numbering
	// is 1-based; implementations order deterministically (employee name,
	// then id) so pages do not overlap between calls.
	Query(ctx context.Context, filter ScopeFilter, page, size int) (Page, error)

	// CountByStatus aggregates matching records per stored status.
	CountByStatus(ctx context.Context, filter ScopeFilter) (map[eligibility.Status]int, error)

	// Candidates returns records whose derived status may have drifted from
	// the stored one: any reminder, due, or validity date at or before now.
	Candidates(ctx context.Context, now time.Time) ([]Record, error)

	// UpdateStatus refreshes the denormalized status column.
	UpdateStatus(ctx context.Context, requirementID id.RequirementID, status eligibility.Status) error
}
