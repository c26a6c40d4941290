package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "certtrack/pkg/domain-errors"
)

func dueRequirement(name, due string) Requirement {
	r := Requirement{
		EmployeeID:   "emp-" + name,
		EmployeeName: name,
		Rule:         RuleRef{CertificationCode: "BSMR", Level: intPtr(1)},
	}
	r.DueDate = dayPtr(due)
	return r
}

func expiredRequirement(name, validUntil string) Requirement {
	return Requirement{
		EmployeeID:   "emp-" + name,
		EmployeeName: name,
		Rule:         RuleRef{CertificationCode: "BSMR", Level: intPtr(1)},
		Certificate: &Certificate{
			Number:     "C-" + name,
			IssuedAt:   dayPtr("2020-01-01"),
			ValidUntil: dayPtr(validUntil),
		},
	}
}

// Scenario from the priority dashboard: due entries order soonest-first with
// days remaining counted in whole days from "now".
func TestRank_DueOrdering(t *testing.T) {
	now := day("2025-11-01")
	entries := []Requirement{
		dueRequirement("Citra", "2025-12-10"),
		dueRequirement("Budi", "2025-11-01"),
		dueRequirement("Agus", "2025-11-15"),
	}

	page, err := Rank(entries, StatusDue, 1, 10, now)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)

	gotNames := []string{}
	gotDays := []int{}
	for _, item := range page.Items {
		gotNames = append(gotNames, item.Requirement.EmployeeName)
		require.NotNil(t, item.DaysRemaining)
		gotDays = append(gotDays, *item.DaysRemaining)
	}
	assert.Equal(t, []string{"Budi", "Agus", "Citra"}, gotNames)
	assert.Equal(t, []int{0, 14, 39}, gotDays)
}

// Expired entries surface the most recent expiry first.
func TestRank_ExpiredOrdering(t *testing.T) {
	now := day("2025-07-01")
	entries := []Requirement{
		expiredRequirement("Agus", "2025-01-01"),
		expiredRequirement("Budi", "2025-06-01"),
		expiredRequirement("Citra", "2025-03-01"),
	}

	page, err := Rank(entries, StatusExpired, 1, 10, now)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)

	var deadlines []time.Time
	for _, item := range page.Items {
		require.NotNil(t, item.Deadline)
		deadlines = append(deadlines, *item.Deadline)
	}
	assert.Equal(t, []time.Time{day("2025-06-01"), day("2025-03-01"), day("2025-01-01")}, deadlines)
}

func TestRank_NotYetCertifiedOrdersByName(t *testing.T) {
	now := day("2025-07-01")
	entries := []Requirement{
		{EmployeeID: "3", EmployeeName: "Citra"},
		{EmployeeID: "1", EmployeeName: "Agus"},
		{EmployeeID: "2", EmployeeName: "Budi"},
	}

	page, err := Rank(entries, StatusNotYetCertified, 1, 10, now)
	require.NoError(t, err)

	var names []string
	for _, item := range page.Items {
		names = append(names, item.Requirement.EmployeeName)
		assert.Nil(t, item.DaysRemaining)
	}
	assert.Equal(t, []string{"Agus", "Budi", "Citra"}, names)
}

// Equal deadlines keep a deterministic order via the employee-name tiebreak.
func TestRank_TieBreaksByName(t *testing.T) {
	now := day("2025-11-01")
	entries := []Requirement{
		dueRequirement("Dewi", "2025-11-15"),
		dueRequirement("Agus", "2025-11-15"),
	}

	page, err := Rank(entries, StatusDue, 1, 10, now)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Agus", page.Items[0].Requirement.EmployeeName)
	assert.Equal(t, "Dewi", page.Items[1].Requirement.EmployeeName)
}

func TestRank_NilDeadlineSortsLast(t *testing.T) {
	now := day("2025-11-01")
	noDeadline := Requirement{EmployeeID: "9", EmployeeName: "Zul"}
	entries := []Requirement{noDeadline, dueRequirement("Agus", "2025-11-15")}

	page, err := Rank(entries, StatusDue, 1, 10, now)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Agus", page.Items[0].Requirement.EmployeeName)
	assert.Nil(t, page.Items[1].DaysRemaining)
}

// Negative days remaining mean days overdue and must not be clamped.
func TestRank_OverdueDaysArePreserved(t *testing.T) {
	now := day("2025-11-01")
	entries := []Requirement{dueRequirement("Agus", "2025-10-29")}

	page, err := Rank(entries, StatusDue, 1, 10, now)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].DaysRemaining)
	assert.Equal(t, -3, *page.Items[0].DaysRemaining)
}

// Rank is idempotent: same input, same clock, same output.
func TestRank_Idempotent(t *testing.T) {
	now := day("2025-11-01")
	entries := []Requirement{
		dueRequirement("Citra", "2025-12-10"),
		dueRequirement("Budi", "2025-11-01"),
		dueRequirement("Agus", "2025-11-15"),
	}

	first, err := Rank(entries, StatusDue, 1, 10, now)
	require.NoError(t, err)
	second, err := Rank(entries, StatusDue, 1, 10, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// Rank never mutates its input slice.
func TestRank_DoesNotMutateInput(t *testing.T) {
	now := day("2025-11-01")
	entries := []Requirement{
		dueRequirement("Citra", "2025-12-10"),
		dueRequirement("Budi", "2025-11-01"),
	}
	original := make([]Requirement, len(entries))
	copy(original, entries)

	_, err := Rank(entries, StatusDue, 1, 10, now)
	require.NoError(t, err)
	assert.Equal(t, original, entries)
}

func TestRank_Pagination(t *testing.T) {
	now := day("2025-11-01")
	entries := []Requirement{
		dueRequirement("Agus", "2025-11-02"),
		dueRequirement("Budi", "2025-11-03"),
		dueRequirement("Citra", "2025-11-04"),
		dueRequirement("Dewi", "2025-11-05"),
		dueRequirement("Eko", "2025-11-06"),
	}

	t.Run("first page", func(t *testing.T) {
		page, err := Rank(entries, StatusDue, 1, 2, now)
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 5, page.TotalElements)
		assert.Equal(t, "Agus", page.Items[0].Requirement.EmployeeName)
	})

	t.Run("last partial page", func(t *testing.T) {
		page, err := Rank(entries, StatusDue, 3, 2, now)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Eko", page.Items[0].Requirement.EmployeeName)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		page, err := Rank(entries, StatusDue, 9, 2, now)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 5, page.TotalElements)
	})
}

func TestRank_InvalidInput(t *testing.T) {
	now := day("2025-11-01")

	t.Run("nil entries", func(t *testing.T) {
		_, err := Rank(nil, StatusDue, 1, 10, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("zero page", func(t *testing.T) {
		_, err := Rank([]Requirement{}, StatusDue, 0, 10, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("zero page size", func(t *testing.T) {
		_, err := Rank([]Requirement{}, StatusDue, 1, 0, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("empty slice is fine", func(t *testing.T) {
		page, err := Rank([]Requirement{}, StatusDue, 1, 10, now)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Zero(t, page.TotalPages)
	})
}

func TestDaysRemaining(t *testing.T) {
	now := day("2025-11-01")

	assert.Equal(t, 0, DaysRemaining(day("2025-11-01"), now))
	assert.Equal(t, 14, DaysRemaining(day("2025-11-15"), now))
	assert.Equal(t, 39, DaysRemaining(day("2025-12-10"), now))
	assert.Equal(t, -1, DaysRemaining(day("2025-10-31"), now))
	// Partial days round up.
	assert.Equal(t, 1, DaysRemaining(now.Add(2*time.Hour), now))
}
