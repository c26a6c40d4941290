package eligibility

import (
	"math"
	"sort"
	"time"

	dErrors "certtrack/pkg/domain-errors"
)

const dayMillis = 24 * 60 * 60 * 1000

// Rank turns a collection of requirements into an ordered, paginated priority
// view for the given target status. The input is assumed to be the page a
// paged query already returned; Rank only orders entries for consistent
// on-screen presentation and computes derived fields.
//
// Ordering policy by status:
//   - DUE:               ascending deadline (soonest first)
//   - EXPIRED:           descending deadline (most recently expired first)
//   - NOT_YET_CERTIFIED: ascending employee name (no deadline exists)
//
// Ties always break by employee name ascending; entries without a deadline
// sort after entries with one. The sort is stable and the input slice is
// never mutated. Page numbering is 1-based.
func Rank(entries []Requirement, status Status, page, pageSize int, now time.Time) (RankedPage, error) {
	if entries == nil {
		return RankedPage{}, dErrors.New(dErrors.CodeInvalidInput, "entries must not be nil")
	}
	if page < 1 {
		return RankedPage{}, dErrors.New(dErrors.CodeInvalidInput, "page must be >= 1")
	}
	if pageSize < 1 {
		return RankedPage{}, dErrors.New(dErrors.CodeInvalidInput, "page size must be >= 1")
	}

	items := make([]PriorityEntry, 0, len(entries))
	for _, req := range entries {
		items = append(items, buildEntry(req, now))
	}

	sort.SliceStable(items, comparator(items, status))

	total := len(items)
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return RankedPage{
		Items:         items[start:end],
		TotalPages:    totalPages,
		TotalElements: total,
	}, nil
}

// buildEntry derives per-entry fields, degrading missing data to placeholders
// instead of failing.
func buildEntry(req Requirement, now time.Time) PriorityEntry {
	entry := PriorityEntry{
		Requirement: req,
		Status:      deriveStatus(req, now),
		RuleCode:    req.Rule.RuleCode(),
		Deadline:    deadlineOf(req),
	}
	if entry.Deadline != nil {
		days := DaysRemaining(*entry.Deadline, now)
		entry.DaysRemaining = &days
	}
	return entry
}

// DaysRemaining is ceil(deadline-now) in whole days. Negative values mean the
// deadline already passed and are preserved, not clamped.
func DaysRemaining(deadline, now time.Time) int {
	diff := deadline.Sub(now).Milliseconds()
	return int(math.Ceil(float64(diff) / float64(dayMillis)))
}

func comparator(items []PriorityEntry, status Status) func(i, j int) bool {
	switch status {
	case StatusDue:
		return func(i, j int) bool {
			return compareDeadline(items[i], items[j], true)
		}
	case StatusExpired:
		return func(i, j int) bool {
			return compareDeadline(items[i], items[j], false)
		}
	default:
		// NOT_YET_CERTIFIED and any other status order by name only.
		return func(i, j int) bool {
			return items[i].Requirement.EmployeeName < items[j].Requirement.EmployeeName
		}
	}
}

// compareDeadline orders by deadline (ascending or descending), pushing
// entries without a deadline last and breaking ties by employee name.
func compareDeadline(a, b PriorityEntry, ascending bool) bool {
	switch {
	case a.Deadline == nil && b.Deadline == nil:
		return a.Requirement.EmployeeName < b.Requirement.EmployeeName
	case a.Deadline == nil:
		return false
	case b.Deadline == nil:
		return true
	}
	if a.Deadline.Equal(*b.Deadline) {
		return a.Requirement.EmployeeName < b.Requirement.EmployeeName
	}
	if ascending {
		return a.Deadline.Before(*b.Deadline)
	}
	return a.Deadline.After(*b.Deadline)
}
