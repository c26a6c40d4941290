// Package domain holds typed identifiers shared across modules. Distinct UUID
// types keep the compiler from letting an employee ID leak into a rule lookup.
package domain

import (
	"github.com/google/uuid"

	dErrors "certtrack/pkg/domain-errors"
)

type (
	// EmployeeID identifies an employee.
	EmployeeID uuid.UUID
	// RuleID identifies a certification rule.
	RuleID uuid.UUID
	// RequirementID identifies one employee-rule obligation.
	RequirementID uuid.UUID
	// UserID identifies an authenticated API user.
	UserID uuid.UUID
)

func (id EmployeeID) String() string    { return uuid.UUID(id).String() }
func (id RuleID) String() string        { return uuid.UUID(id).String() }
func (id RequirementID) String() string { return uuid.UUID(id).String() }
func (id UserID) String() string        { return uuid.UUID(id).String() }

// IsZero reports whether the ID is the nil UUID.
func (id EmployeeID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id RuleID) IsZero() bool        { return uuid.UUID(id) == uuid.Nil }
func (id RequirementID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsZero() bool        { return uuid.UUID(id) == uuid.Nil }

// NewEmployeeID returns a fresh random employee ID.
func NewEmployeeID() EmployeeID { return EmployeeID(uuid.New()) }

// NewRuleID returns a fresh random rule ID.
func NewRuleID() RuleID { return RuleID(uuid.New()) }

// NewRequirementID returns a fresh random requirement ID.
func NewRequirementID() RequirementID { return RequirementID(uuid.New()) }

// parseUUID enforces the shared invariant: IDs must be valid, non-nil UUIDs.
func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id must not be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id must not be the nil UUID")
	}
	return parsed, nil
}

// ParseEmployeeID parses and validates an employee ID.
func ParseEmployeeID(raw string) (EmployeeID, error) {
	parsed, err := parseUUID(raw, "employee")
	return EmployeeID(parsed), err
}

// ParseRuleID parses and validates a rule ID.
func ParseRuleID(raw string) (RuleID, error) {
	parsed, err := parseUUID(raw, "rule")
	return RuleID(parsed), err
}

// ParseRequirementID parses and validates a requirement ID.
func ParseRequirementID(raw string) (RequirementID, error) {
	parsed, err := parseUUID(raw, "requirement")
	return RequirementID(parsed), err
}

// ParseUserID parses and validates a user ID.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user")
	return UserID(parsed), err
}
