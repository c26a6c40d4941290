// Package service implements certification rule registry operations on top of
// a Store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"certtrack/internal/certrule"
	id "certtrack/pkg/domain"
	dErrors "certtrack/pkg/domain-errors"
	"certtrack/pkg/platform/sentinel"
	"certtrack/pkg/requestcontext"
)

// DefineInput is what callers provide when defining a certification rule.
type DefineInput struct {
	CertificationCode string
	Level             *int
	SubFieldCode      string
	Label             string

	ValidityMonths int
	ReminderMonths int
}

// Service coordinates the certification rule registry.
type Service struct {
	store  certrule.Store
	logger *slog.Logger
}

func New(store certrule.Store, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("rule store is required")
	}
	return &Service{store: store, logger: logger}, nil
}

// Define creates a new certification rule.
func (s *Service) Define(ctx context.Context, input DefineInput) (certrule.Rule, error) {
	input.CertificationCode = strings.TrimSpace(input.CertificationCode)
	if input.CertificationCode == "" && strings.TrimSpace(input.Label) == "" {
		return certrule.Rule{}, dErrors.New(dErrors.CodeInvalidInput, "certification code or label is required")
	}
	if input.ValidityMonths < 0 || input.ReminderMonths < 0 {
		return certrule.Rule{}, dErrors.New(dErrors.CodeInvalidInput, "validity and reminder months must not be negative")
	}
	if input.ValidityMonths > 0 && input.ReminderMonths > input.ValidityMonths {
		return certrule.Rule{}, dErrors.New(dErrors.CodeInvalidInput, "reminder window cannot exceed the validity period")
	}

	now := requestcontext.Now(ctx)
	rule := certrule.Rule{
		ID:                id.NewRuleID(),
		CertificationCode: input.CertificationCode,
		Level:             input.Level,
		SubFieldCode:      strings.TrimSpace(input.SubFieldCode),
		Label:             strings.TrimSpace(input.Label),
		ValidityMonths:    input.ValidityMonths,
		ReminderMonths:    input.ReminderMonths,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.store.Create(ctx, rule); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return certrule.Rule{}, dErrors.New(dErrors.CodeConflict, "rule already exists")
		}
		return certrule.Rule{}, dErrors.Wrap(dErrors.CodeInternal, "failed to define rule", err)
	}

	s.logger.InfoContext(ctx, "certification rule defined",
		"request_id", requestcontext.RequestID(ctx),
		"rule_id", rule.ID,
		"rule_code", rule.RuleCode(),
	)
	return rule, nil
}

// Get returns one rule by id.
func (s *Service) Get(ctx context.Context, ruleID id.RuleID) (certrule.Rule, error) {
	rule, err := s.store.Get(ctx, ruleID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return certrule.Rule{}, dErrors.New(dErrors.CodeNotFound, "rule not found")
		}
		return certrule.Rule{}, dErrors.Wrap(dErrors.CodeInternal, "failed to load rule", err)
	}
	return rule, nil
}

// List returns all rules in registry order.
func (s *Service) List(ctx context.Context) ([]certrule.Rule, error) {
	rules, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list rules", err)
	}
	return rules, nil
}

// Delete removes a rule from the registry. Requirements already derived from
// it keep their stored dates.
func (s *Service) Delete(ctx context.Context, ruleID id.RuleID) error {
	if err := s.store.Delete(ctx, ruleID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "rule not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "failed to delete rule", err)
	}
	s.logger.InfoContext(ctx, "certification rule deleted",
		"request_id", requestcontext.RequestID(ctx),
		"rule_id", ruleID,
	)
	return nil
}
