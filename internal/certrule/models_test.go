package certrule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWindows(t *testing.T) {
	rule := Rule{
		CertificationCode: "BSMR",
		ValidityMonths:    24,
		ReminderMonths:    6,
	}

	windows := rule.Windows(day("2024-03-15"))

	require.NotNil(t, windows.ValidUntil)
	require.NotNil(t, windows.DueDate)
	require.NotNil(t, windows.ReminderDate)
	assert.Equal(t, day("2026-03-15"), *windows.ValidUntil)
	assert.Equal(t, day("2026-03-15"), *windows.DueDate)
	assert.Equal(t, day("2025-09-15"), *windows.ReminderDate)
}

func TestWindows_NoValidityMeansNoDates(t *testing.T) {
	rule := Rule{CertificationCode: "BSMR", ReminderMonths: 6}

	windows := rule.Windows(day("2024-03-15"))

	assert.Nil(t, windows.ValidUntil)
	assert.Nil(t, windows.DueDate)
	assert.Nil(t, windows.ReminderDate)
}

func TestRuleCode(t *testing.T) {
	rule := Rule{
		CertificationCode: "BSMR",
		Level:             intPtr(2),
		SubFieldCode:      "OPS",
	}
	assert.Equal(t, "BSMR-2-OPS", rule.RuleCode())

	fallback := Rule{Label: "LEGACY"}
	assert.Equal(t, "LEGACY", fallback.RuleCode())
}
