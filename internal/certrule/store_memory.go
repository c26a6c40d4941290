package certrule

import (
	"context"
	"sort"
	"sync"

	id "certtrack/pkg/domain"
	"certtrack/pkg/platform/sentinel"
)

// InMemoryStore keeps rules in a map behind a mutex. Used in tests and when
// PostgreSQL is not configured.
type InMemoryStore struct {
	mu    sync.RWMutex
	rules map[id.RuleID]Rule
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{rules: make(map[id.RuleID]Rule)}
}

func (s *InMemoryStore) Create(_ context.Context, rule Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[rule.ID]; ok {
		return sentinel.ErrConflict
	}
	s.rules[rule.ID] = rule
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, rule Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[rule.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.rules[rule.ID] = rule
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, ruleID id.RuleID) (Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rule, ok := s.rules[ruleID]
	if !ok {
		return Rule{}, sentinel.ErrNotFound
	}
	return rule, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Rule, 0, len(s.rules))
	for _, rule := range s.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool {
		if a, b := out[i].RuleCode(), out[j].RuleCode(); a != b {
			return a < b
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, ruleID id.RuleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[ruleID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.rules, ruleID)
	return nil
}
