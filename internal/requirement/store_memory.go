package requirement

import (
	"context"
	"sort"
	"sync"
	"time"

	"certtrack/internal/eligibility"
	id "certtrack/pkg/domain"
	"certtrack/pkg/platform/sentinel"
)

// InMemoryStore keeps records in a map behind a mutex. Used in tests and when
// PostgreSQL is not configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.RequirementID]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.RequirementID]Record)}
}

func (s *InMemoryStore) Upsert(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, requirementID id.RequirementID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[requirementID]
	if !ok {
		return Record{}, sentinel.ErrNotFound
	}
	return record, nil
}

func (s *InMemoryStore) GetByEmployeeRule(_ context.Context, employeeID id.EmployeeID, ruleID id.RuleID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.records {
		if record.EmployeeID == employeeID && record.RuleID == ruleID {
			return record, nil
		}
	}
	return Record{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) Delete(_ context.Context, requirementID id.RequirementID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[requirementID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records, requirementID)
	return nil
}

func (s *InMemoryStore) Query(_ context.Context, filter ScopeFilter, page, size int) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matchLocked(filter)

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

func (s *InMemoryStore) CountByStatus(_ context.Context, filter ScopeFilter) (map[eligibility.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[eligibility.Status]int)
	for _, record := range s.records {
		if filter.Matches(record) {
			counts[record.Status]++
		}
	}
	return counts, nil
}

func (s *InMemoryStore) Candidates(_ context.Context, now time.Time) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, record := range s.records {
		if dateReached(record.ReminderDate, now) || dateReached(record.DueDate, now) || dateReached(record.ValidUntil, now) {
			out = append(out, record)
		}
	}
	sortRecords(out)
	return out, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, requirementID id.RequirementID, status eligibility.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[requirementID]
	if !ok {
		return sentinel.ErrNotFound
	}
	record.Status = status
	record.UpdatedAt = time.Now()
	s.records[requirementID] = record
	return nil
}

// matchLocked returns filtered records in the store's deterministic order.
// Callers must hold at least a read lock.
func (s *InMemoryStore) matchLocked(filter ScopeFilter) []Record {
	matched := make([]Record, 0, len(s.records))
	for _, record := range s.records {
		if filter.Matches(record) {
			matched = append(matched, record)
		}
	}
	sortRecords(matched)
	return matched
}

func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].EmployeeName != records[j].EmployeeName {
			return records[i].EmployeeName < records[j].EmployeeName
		}
		return records[i].ID.String() < records[j].ID.String()
	})
}

func dateReached(t *time.Time, now time.Time) bool {
	return t != nil && !now.Before(*t)
}
