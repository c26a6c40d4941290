package employee

import (
	"context"
	"sort"
	"sync"
	"time"

	id "certtrack/pkg/domain"
	"certtrack/pkg/platform/sentinel"
)

// InMemoryStore keeps employees in a map behind a mutex. Used in tests and
// when PostgreSQL is not configured.
type InMemoryStore struct {
	mu        sync.RWMutex
	employees map[id.EmployeeID]Employee
	byNIP     map[string]id.EmployeeID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		employees: make(map[id.EmployeeID]Employee),
		byNIP:     make(map[string]id.EmployeeID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, e Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[e.ID]; ok {
		return sentinel.ErrConflict
	}
	if existing, ok := s.byNIP[e.NIP]; ok && existing != e.ID {
		return sentinel.ErrConflict
	}
	s.employees[e.ID] = e
	s.byNIP[e.NIP] = e.ID
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, e Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.employees[e.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if existing, ok := s.byNIP[e.NIP]; ok && existing != e.ID {
		return sentinel.ErrConflict
	}
	delete(s.byNIP, current.NIP)
	s.employees[e.ID] = e
	s.byNIP[e.NIP] = e.ID
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, employeeID id.EmployeeID) (Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[employeeID]
	if !ok {
		return Employee{}, sentinel.ErrNotFound
	}
	return e, nil
}

func (s *InMemoryStore) GetByNIP(_ context.Context, nip string) (Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	employeeID, ok := s.byNIP[nip]
	if !ok {
		return Employee{}, sentinel.ErrNotFound
	}
	return s.employees[employeeID], nil
}

func (s *InMemoryStore) List(_ context.Context, filter ScopeFilter, page, size int) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Employee, 0, len(s.employees))
	for _, e := range s.employees {
		if filter.Matches(e) {
			matched = append(matched, e)
		}
	}
	sortEmployees(matched)

	total := len(matched)
	totalPages := 0
	if total > 0 {
		totalPages = (total + size - 1) / size
	}

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page{
		Content:       matched[start:end],
		TotalPages:    totalPages,
		TotalElements: total,
	}, nil
}

func (s *InMemoryStore) Deactivate(_ context.Context, employeeID id.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[employeeID]
	if !ok {
		return sentinel.ErrNotFound
	}
	e.Active = false
	e.UpdatedAt = time.Now()
	s.employees[employeeID] = e
	return nil
}

func sortEmployees(employees []Employee) {
	sort.Slice(employees, func(i, j int) bool {
		if employees[i].Name != employees[j].Name {
			return employees[i].Name < employees[j].Name
		}
		return employees[i].ID.String() < employees[j].ID.String()
	})
}
