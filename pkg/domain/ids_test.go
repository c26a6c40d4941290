package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "certtrack/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// IDs must be valid, non-empty, non-nil UUIDs.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseEmployeeID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseEmployeeID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseEmployeeID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseEmployeeID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, EmployeeID(valid), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety between ID
// kinds. If this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	employeeID := EmployeeID(uuid.New())
	ruleID := RuleID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ EmployeeID = ruleID   // compile error
	// var _ RuleID = employeeID   // compile error

	assert.NotEqual(t, uuid.UUID(employeeID), uuid.UUID(ruleID))
}

func TestIsZero(t *testing.T) {
	assert.True(t, EmployeeID(uuid.Nil).IsZero())
	assert.False(t, NewEmployeeID().IsZero())
}
