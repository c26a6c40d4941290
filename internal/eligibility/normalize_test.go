package eligibility

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "certtrack/pkg/domain-errors"
)

func TestNormalize_CamelCasePayload(t *testing.T) {
	payload := `{
		"employeeId": "emp-1",
		"employeeName": "Andi Wijaya",
		"employeeNip": "198802",
		"certificationCode": "BSMR",
		"certificationLevel": 1,
		"subFieldCode": "PBK1",
		"certNumber": "C-77",
		"certDate": "2024-05-01",
		"validUntil": "2027-05-01",
		"dueDate": "2027-05-01",
		"reminderDate": "2027-02-01"
	}`

	var raw RawRequirement
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	req, err := raw.Normalize()
	require.NoError(t, err)

	assert.Equal(t, "emp-1", req.EmployeeID)
	assert.Equal(t, "Andi Wijaya", req.EmployeeName)
	assert.Equal(t, "BSMR-1-PBK1", req.Rule.RuleCode())
	require.NotNil(t, req.Certificate)
	assert.Equal(t, "C-77", req.Certificate.Number)
	require.NotNil(t, req.Certificate.ValidUntil)
	assert.Equal(t, day("2027-05-01"), *req.Certificate.ValidUntil)
	require.NotNil(t, req.ReminderDate)
	assert.Equal(t, day("2027-02-01"), *req.ReminderDate)
}

// Some upstream exports ship snake_case; the adapter must accept both.
func TestNormalize_SnakeCasePayload(t *testing.T) {
	payload := `{
		"employee_id": "emp-2",
		"employee_name": "Budi",
		"certification_code": "AAJI",
		"rule_code": "AAJI-AGEN",
		"cert_number": "C-9",
		"valid_until": "2026-01-01T00:00:00Z"
	}`

	var raw RawRequirement
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	req, err := raw.Normalize()
	require.NoError(t, err)

	assert.Equal(t, "emp-2", req.EmployeeID)
	assert.Equal(t, "AAJI", req.Rule.CertificationCode)
	assert.Equal(t, "AAJI-AGEN", req.Rule.Label)
	require.NotNil(t, req.Certificate)
	require.NotNil(t, req.Certificate.ValidUntil)
}

func TestNormalize_MissingIdentityFails(t *testing.T) {
	raw := RawRequirement{EmployeeName: "Nameless"}
	_, err := raw.Normalize()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestNormalize_Degradations(t *testing.T) {
	t.Run("unparseable dates degrade to nil", func(t *testing.T) {
		raw := RawRequirement{EmployeeID: "emp-3", DueDate: "not-a-date"}
		req, err := raw.Normalize()
		require.NoError(t, err)
		assert.Nil(t, req.DueDate)
	})

	t.Run("no certificate fields means no certificate record", func(t *testing.T) {
		raw := RawRequirement{EmployeeID: "emp-4"}
		req, err := raw.Normalize()
		require.NoError(t, err)
		assert.Nil(t, req.Certificate)
	})

	t.Run("certificate created from cert number alone", func(t *testing.T) {
		raw := RawRequirement{EmployeeID: "emp-5", CertNumber: "C-1"}
		req, err := raw.Normalize()
		require.NoError(t, err)
		require.NotNil(t, req.Certificate)
		assert.Nil(t, req.Certificate.ValidUntil)
	})

	t.Run("no rule parts and no label degrade to dash", func(t *testing.T) {
		raw := RawRequirement{EmployeeID: "emp-6"}
		req, err := raw.Normalize()
		require.NoError(t, err)
		assert.Equal(t, "-", req.Rule.RuleCode())
	})
}
