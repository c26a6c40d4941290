// Package service implements employee registry operations on top of a Store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"certtrack/internal/employee"
	id "certtrack/pkg/domain"
	dErrors "certtrack/pkg/domain-errors"
	"certtrack/pkg/platform/sentinel"
	"certtrack/pkg/requestcontext"
)

// RegisterInput is what callers provide when registering an employee.
type RegisterInput struct {
	NIP      string
	Name     string
	Email    string
	Position string

	RegionalID int64
	DivisionID int64
	UnitID     int64
}

// Service coordinates the employee registry.
type Service struct {
	store  employee.Store
	logger *slog.Logger
}

func New(store employee.Store, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("employee store is required")
	}
	return &Service{store: store, logger: logger}, nil
}

// Register creates a new employee. NIP must be unique.
func (s *Service) Register(ctx context.Context, input RegisterInput) (employee.Employee, error) {
	input.NIP = strings.TrimSpace(input.NIP)
	input.Name = strings.TrimSpace(input.Name)
	if input.NIP == "" {
		return employee.Employee{}, dErrors.New(dErrors.CodeInvalidInput, "nip is required")
	}
	if input.Name == "" {
		return employee.Employee{}, dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}

	now := requestcontext.Now(ctx)
	e := employee.Employee{
		ID:         id.NewEmployeeID(),
		NIP:        input.NIP,
		Name:       input.Name,
		Email:      input.Email,
		Position:   input.Position,
		RegionalID: input.RegionalID,
		DivisionID: input.DivisionID,
		UnitID:     input.UnitID,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Create(ctx, e); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return employee.Employee{}, dErrors.New(dErrors.CodeConflict, "employee with this nip already exists")
		}
		return employee.Employee{}, dErrors.Wrap(dErrors.CodeInternal, "failed to register employee", err)
	}

	s.logger.InfoContext(ctx, "employee registered",
		"request_id", requestcontext.RequestID(ctx),
		"employee_id", e.ID,
		"nip", e.NIP,
	)
	return e, nil
}

// Get returns one employee by id.
func (s *Service) Get(ctx context.Context, employeeID id.EmployeeID) (employee.Employee, error) {
	e, err := s.store.Get(ctx, employeeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return employee.Employee{}, dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return employee.Employee{}, dErrors.Wrap(dErrors.CodeInternal, "failed to load employee", err)
	}
	return e, nil
}

// GetByNIP returns one employee by personnel number.
func (s *Service) GetByNIP(ctx context.Context, nip string) (employee.Employee, error) {
	e, err := s.store.GetByNIP(ctx, strings.TrimSpace(nip))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return employee.Employee{}, dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return employee.Employee{}, dErrors.Wrap(dErrors.CodeInternal, "failed to load employee", err)
	}
	return e, nil
}

// List returns one page of employees within scope.
func (s *Service) List(ctx context.Context, filter employee.ScopeFilter, page, size int) (employee.Page, error) {
	if page < 1 || size < 1 {
		return employee.Page{}, dErrors.New(dErrors.CodeBadRequest, "page and size must be positive")
	}
	result, err := s.store.List(ctx, filter, page, size)
	if err != nil {
		return employee.Page{}, dErrors.Wrap(dErrors.CodeInternal, "failed to list employees", err)
	}
	return result, nil
}

// Deactivate marks an employee inactive. Their requirements stay on record.
func (s *Service) Deactivate(ctx context.Context, employeeID id.EmployeeID) error {
	if err := s.store.Deactivate(ctx, employeeID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "failed to deactivate employee", err)
	}
	s.logger.InfoContext(ctx, "employee deactivated",
		"request_id", requestcontext.RequestID(ctx),
		"employee_id", employeeID,
	)
	return nil
}
