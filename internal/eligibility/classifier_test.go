package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "certtrack/pkg/domain-errors"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func intPtr(v int) *int { return &v }

func baseRequirement() Requirement {
	return Requirement{
		EmployeeID:   "emp-1",
		EmployeeName: "Andi Wijaya",
		EmployeeNIP:  "198802",
		Rule:         RuleRef{CertificationCode: "BSMR", Level: intPtr(1)},
	}
}

func TestClassify_StatusDerivation(t *testing.T) {
	now := day("2025-07-01")

	tests := []struct {
		name string
		req  func() Requirement
		want Status
	}{
		{
			name: "no certificate and no due date is not yet certified",
			req:  baseRequirement,
			want: StatusNotYetCertified,
		},
		{
			name: "pending validation wins over dates",
			req: func() Requirement {
				r := baseRequirement()
				r.Certificate = &Certificate{
					Number:            "C-1",
					IssuedAt:          dayPtr("2020-01-01"),
					ValidUntil:        dayPtr("2021-01-01"), // already lapsed
					PendingValidation: true,
				}
				return r
			},
			want: StatusPending,
		},
		{
			name: "valid-until before issue date is invalid, not expired",
			req: func() Requirement {
				r := baseRequirement()
				r.Certificate = &Certificate{
					Number:     "C-2",
					IssuedAt:   dayPtr("2025-06-01"),
					ValidUntil: dayPtr("2025-01-01"),
				}
				return r
			},
			want: StatusInvalid,
		},
		{
			name: "lapsed validity is expired regardless of due and reminder",
			req: func() Requirement {
				r := baseRequirement()
				r.Certificate = &Certificate{
					Number:     "C-3",
					IssuedAt:   dayPtr("2022-06-01"),
					ValidUntil: dayPtr("2025-06-01"),
				}
				r.DueDate = dayPtr("2026-06-01")
				r.ReminderDate = dayPtr("2026-03-01")
				return r
			},
			want: StatusExpired,
		},
		{
			name: "inside reminder window is due",
			req: func() Requirement {
				r := baseRequirement()
				r.Certificate = &Certificate{
					Number:     "C-4",
					IssuedAt:   dayPtr("2022-09-01"),
					ValidUntil: dayPtr("2025-09-01"),
				}
				r.DueDate = dayPtr("2025-09-01")
				r.ReminderDate = dayPtr("2025-06-01")
				return r
			},
			want: StatusDue,
		},
		{
			name: "due date passed without renewal is due",
			req: func() Requirement {
				r := baseRequirement()
				r.DueDate = dayPtr("2025-06-15")
				return r
			},
			want: StatusDue,
		},
		{
			name: "certificate within validity and before reminder window is active",
			req: func() Requirement {
				r := baseRequirement()
				r.Certificate = &Certificate{
					Number:     "C-5",
					IssuedAt:   dayPtr("2024-01-01"),
					ValidUntil: dayPtr("2027-01-01"),
				}
				r.DueDate = dayPtr("2027-01-01")
				r.ReminderDate = dayPtr("2026-10-01")
				return r
			},
			want: StatusActive,
		},
		{
			name: "no certificate with future due date is still not yet certified",
			req: func() Requirement {
				r := baseRequirement()
				r.DueDate = dayPtr("2025-12-01")
				r.ReminderDate = dayPtr("2025-10-01")
				return r
			},
			want: StatusNotYetCertified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.req(), now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

// Expired must win for any valid-until strictly before now, whatever the
// due/reminder fields claim.
func TestClassify_ExpiredBeatsDueWindow(t *testing.T) {
	now := day("2025-07-01")
	validUntils := []string{"2025-06-30", "2025-01-01", "2020-01-01"}

	for _, vu := range validUntils {
		r := baseRequirement()
		r.Certificate = &Certificate{Number: "C", IssuedAt: dayPtr("2019-01-01"), ValidUntil: dayPtr(vu)}
		r.DueDate = dayPtr("2025-06-01")
		r.ReminderDate = dayPtr("2025-03-01")

		got, err := Classify(r, now)
		require.NoError(t, err)
		assert.Equal(t, StatusExpired, got.Status, "validUntil=%s", vu)
	}
}

func TestClassify_Deadline(t *testing.T) {
	now := day("2025-07-01")

	t.Run("due date wins", func(t *testing.T) {
		r := baseRequirement()
		r.Certificate = &Certificate{ValidUntil: dayPtr("2026-01-01")}
		r.DueDate = dayPtr("2025-12-01")
		r.ReminderDate = dayPtr("2025-09-01")

		got, err := Classify(r, now)
		require.NoError(t, err)
		require.NotNil(t, got.Deadline)
		assert.Equal(t, day("2025-12-01"), *got.Deadline)
	})

	t.Run("falls back to valid-until then reminder", func(t *testing.T) {
		r := baseRequirement()
		r.Certificate = &Certificate{ValidUntil: dayPtr("2026-01-01")}
		got, err := Classify(r, now)
		require.NoError(t, err)
		require.NotNil(t, got.Deadline)
		assert.Equal(t, day("2026-01-01"), *got.Deadline)

		r.Certificate = nil
		r.ReminderDate = dayPtr("2025-09-01")
		r.DueDate = dayPtr("2025-12-01")
		r.DueDate = nil
		got, err = Classify(r, now)
		require.NoError(t, err)
		require.NotNil(t, got.Deadline)
		assert.Equal(t, day("2025-09-01"), *got.Deadline)
	})

	t.Run("nil when no date present", func(t *testing.T) {
		got, err := Classify(baseRequirement(), now)
		require.NoError(t, err)
		assert.Nil(t, got.Deadline)
	})
}

func TestClassify_MissingIdentity(t *testing.T) {
	r := baseRequirement()
	r.EmployeeID = ""

	_, err := Classify(r, day("2025-07-01"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

// Missing rule parts degrade to a partial rule code instead of failing.
func TestClassify_DegradedRuleCode(t *testing.T) {
	r := baseRequirement()
	r.Rule = RuleRef{}

	got, err := Classify(r, day("2025-07-01"))
	require.NoError(t, err)
	assert.Equal(t, "-", got.RuleCode)
}

func TestComposeRuleCode(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		level *int
		sub   string
		label string
		want  string
	}{
		{"all parts", "BSMR", intPtr(1), "PBK1", "", "BSMR-1-PBK1"},
		{"code only", "BSMR", nil, "", "", "BSMR"},
		{"level only", "", intPtr(2), "", "", "2"},
		{"dash parts are treated as empty", "-", nil, "-", "", "-"},
		{"explicit label fallback", "", nil, "", "RULE-7", "RULE-7"},
		{"nothing at all", "", nil, "", "", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComposeRuleCode(tt.code, tt.level, tt.sub, tt.label))
		})
	}
}
