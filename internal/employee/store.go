package employee

import (
	"context"

	id "certtrack/pkg/domain"
)

// Store persists the employee registry.
//
// Listings are deterministic: ordered by name, then by id for ties. Pages are
// 1-based.
type Store interface {
	Create(ctx context.Context, e Employee) error
	Update(ctx context.Context, e Employee) error
	Get(ctx context.Context, employeeID id.EmployeeID) (Employee, error)
	GetByNIP(ctx context.Context, nip string) (Employee, error)
	List(ctx context.Context, filter ScopeFilter, page, size int) (Page, error)
	Deactivate(ctx context.Context, employeeID id.EmployeeID) error
}
