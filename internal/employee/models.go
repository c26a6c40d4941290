// Package employee holds the employee registry: the people whose
// certification obligations the rest of the system tracks.
package employee

import (
	"time"

	id "certtrack/pkg/domain"
)

// Employee is one registered employee. NIP is the employer-issued personnel
// number and is unique across the registry.
type Employee struct {
	ID   id.EmployeeID
	NIP  string
	Name string

	Email    string
	Position string

	RegionalID int64
	DivisionID int64
	UnitID     int64

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScopeFilter narrows employee listings by organizational placement. Nil
// fields match everything.
type ScopeFilter struct {
	RegionalID *int64
	DivisionID *int64
	UnitID     *int64
	ActiveOnly bool
}

// Matches reports whether e falls within the filter's scope.
func (f ScopeFilter) Matches(e Employee) bool {
	if f.RegionalID != nil && e.RegionalID != *f.RegionalID {
		return false
	}
	if f.DivisionID != nil && e.DivisionID != *f.DivisionID {
		return false
	}
	if f.UnitID != nil && e.UnitID != *f.UnitID {
		return false
	}
	if f.ActiveOnly && !e.Active {
		return false
	}
	return true
}

// Page is one page of a deterministic employee listing.
type Page struct {
	Content       []Employee
	TotalPages    int
	TotalElements int
}
