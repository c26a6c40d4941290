// Package service implements requirement ingestion and evaluation: tolerant
// payloads come in, canonical records with a freshly classified status go out.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"certtrack/internal/certrule"
	"certtrack/internal/eligibility"
	"certtrack/internal/requirement"
	id "certtrack/pkg/domain"
	dErrors "certtrack/pkg/domain-errors"
	"certtrack/pkg/platform/sentinel"
	"certtrack/pkg/requestcontext"
)

// RuleResolver looks up certification rules during ingestion.
type RuleResolver interface {
	Get(ctx context.Context, ruleID id.RuleID) (certrule.Rule, error)
}

// IngestInput is one requirement submission: the tolerant wire payload plus
// the rule association and organizational placement the payload itself does
// not carry.
type IngestInput struct {
	Raw    eligibility.RawRequirement
	RuleID id.RuleID

	RegionalID int64
	DivisionID int64
	UnitID     int64
}

// Evaluation is a stored record together with its live classification.
type Evaluation struct {
	Record         requirement.Record
	Classification eligibility.Classification
}

// Service coordinates requirement ingestion, evaluation, and queries.
type Service struct {
	store  requirement.Store
	rules  RuleResolver
	logger *slog.Logger
}

// New constructs the requirement service. The rule resolver may be nil, which
// disables rule lookups and window derivation during ingestion.
func New(store requirement.Store, rules RuleResolver, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("requirement store is required")
	}
	return &Service{store: store, rules: rules, logger: logger}, nil
}

// Ingest normalizes one submission, derives missing obligation dates from the
// rule, classifies the result, and upserts the record. Re-submitting the same
// employee-rule pair updates the existing record in place.
func (s *Service) Ingest(ctx context.Context, input IngestInput) (requirement.Record, error) {
	if input.RuleID.IsZero() {
		return requirement.Record{}, dErrors.New(dErrors.CodeInvalidInput, "rule id is required")
	}

	normalized, err := input.Raw.Normalize()
	if err != nil {
		return requirement.Record{}, err
	}
	employeeID, err := id.ParseEmployeeID(normalized.EmployeeID)
	if err != nil {
		return requirement.Record{}, err
	}

	rule, err := s.resolveRule(ctx, input.RuleID)
	if err != nil {
		return requirement.Record{}, err
	}
	if rule != nil {
		applyRule(&normalized, *rule)
	}

	now := requestcontext.Now(ctx)
	classification, err := eligibility.Classify(normalized, now)
	if err != nil {
		return requirement.Record{}, err
	}

	record := buildRecord(normalized, input, employeeID, classification.Status, now)

	if existing, err := s.store.GetByEmployeeRule(ctx, employeeID, input.RuleID); err == nil {
		record.ID = existing.ID
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return requirement.Record{}, dErrors.Wrap(dErrors.CodeInternal, "failed to look up requirement", err)
	}

	if err := s.store.Upsert(ctx, record); err != nil {
		return requirement.Record{}, dErrors.Wrap(dErrors.CodeInternal, "failed to store requirement", err)
	}

	s.logger.InfoContext(ctx, "requirement ingested",
		"request_id", requestcontext.RequestID(ctx),
		"requirement_id", record.ID,
		"employee_id", record.EmployeeID,
		"rule_code", classification.RuleCode,
		"status", record.Status,
	)
	return record, nil
}

// Evaluate loads one record and classifies it at the current evaluation time.
// The stored status column is a cache; this is the authoritative answer.
func (s *Service) Evaluate(ctx context.Context, requirementID id.RequirementID) (Evaluation, error) {
	record, err := s.get(ctx, requirementID)
	if err != nil {
		return Evaluation{}, err
	}

	classification, err := eligibility.Classify(record.Eligibility(), requestcontext.Now(ctx))
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{Record: record, Classification: classification}, nil
}

// List returns one page of records within scope.
func (s *Service) List(ctx context.Context, filter requirement.ScopeFilter, page, size int) (requirement.Page, error) {
	if page < 1 || size < 1 {
		return requirement.Page{}, dErrors.New(dErrors.CodeBadRequest, "page and size must be positive")
	}
	result, err := s.store.Query(ctx, filter, page, size)
	if err != nil {
		return requirement.Page{}, dErrors.Wrap(dErrors.CodeInternal, "failed to query requirements", err)
	}
	return result, nil
}

// Delete removes one record.
func (s *Service) Delete(ctx context.Context, requirementID id.RequirementID) error {
	if err := s.store.Delete(ctx, requirementID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "requirement not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "failed to delete requirement", err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, requirementID id.RequirementID) (requirement.Record, error) {
	record, err := s.store.Get(ctx, requirementID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return requirement.Record{}, dErrors.New(dErrors.CodeNotFound, "requirement not found")
		}
		return requirement.Record{}, dErrors.Wrap(dErrors.CodeInternal, "failed to load requirement", err)
	}
	return record, nil
}

func (s *Service) resolveRule(ctx context.Context, ruleID id.RuleID) (*certrule.Rule, error) {
	if s.rules == nil {
		return nil, nil
	}
	rule, err := s.rules.Get(ctx, ruleID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown rule id")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load rule", err)
	}
	return &rule, nil
}

// applyRule fills the gaps the payload left: rule reference fields and, when
// the certificate has an issue date, obligation dates derived from the rule's
// validity window. Payload-supplied values always win.
func applyRule(req *eligibility.Requirement, rule certrule.Rule) {
	if req.Rule.CertificationCode == "" {
		req.Rule.CertificationCode = rule.CertificationCode
	}
	if req.Rule.Level == nil {
		req.Rule.Level = rule.Level
	}
	if req.Rule.SubFieldCode == "" {
		req.Rule.SubFieldCode = rule.SubFieldCode
	}
	if req.Rule.Label == "" {
		req.Rule.Label = rule.Label
	}

	if req.Certificate == nil || req.Certificate.IssuedAt == nil {
		return
	}
	windows := rule.Windows(*req.Certificate.IssuedAt)
	if req.Certificate.ValidUntil == nil {
		req.Certificate.ValidUntil = windows.ValidUntil
	}
	if req.DueDate == nil {
		req.DueDate = windows.DueDate
	}
	if req.ReminderDate == nil {
		req.ReminderDate = windows.ReminderDate
	}
}

func buildRecord(req eligibility.Requirement, input IngestInput, employeeID id.EmployeeID, status eligibility.Status, now time.Time) requirement.Record {
	record := requirement.Record{
		ID:         id.NewRequirementID(),
		EmployeeID: employeeID,
		RuleID:     input.RuleID,

		EmployeeName: req.EmployeeName,
		EmployeeNIP:  req.EmployeeNIP,

		RegionalID: input.RegionalID,
		DivisionID: input.DivisionID,
		UnitID:     input.UnitID,

		CertificationCode:  req.Rule.CertificationCode,
		CertificationLevel: req.Rule.Level,
		SubFieldCode:       req.Rule.SubFieldCode,
		RuleLabel:          req.Rule.Label,

		DueDate:       req.DueDate,
		ReminderDate:  req.ReminderDate,
		EffectiveDate: req.EffectiveDate,

		Status:    status,
		UpdatedAt: now,
	}
	if req.Certificate != nil {
		record.CertNumber = req.Certificate.Number
		record.CertDate = req.Certificate.IssuedAt
		record.ValidUntil = req.Certificate.ValidUntil
		record.PendingValidation = req.Certificate.PendingValidation
	}
	return record
}
