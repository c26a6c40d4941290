package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certtrack/internal/certrule"
	"certtrack/internal/requirement"
	requirementservice "certtrack/internal/requirement/service"
	id "certtrack/pkg/domain"
	"certtrack/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func intPtr(v int) *int { return &v }

func newRouter(t *testing.T) (chi.Router, certrule.Rule) {
	t.Helper()

	rules := certrule.NewInMemoryStore()
	rule := certrule.Rule{
		ID:                id.NewRuleID(),
		CertificationCode: "BSMR",
		Level:             intPtr(1),
		ValidityMonths:    24,
		ReminderMonths:    6,
	}
	require.NoError(t, rules.Create(context.Background(), rule))

	svc, err := requirementservice.New(requirement.NewInMemoryStore(), rules, testLogger())
	require.NoError(t, err)

	r := chi.NewRouter()
	New(svc, testLogger()).Register(r)
	return r, rule
}

func serve(t *testing.T, router chi.Router, method, target, body string, now time.Time) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(requestcontext.WithTime(context.Background(), now))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleIngest(t *testing.T) {
	router, rule := newRouter(t)
	now := day("2025-11-01")
	employeeID := id.NewEmployeeID().String()

	t.Run("stores normalized payload", func(t *testing.T) {
		body := `{
			"rule_id": "` + rule.ID.String() + `",
			"regional_id": 1,
			"payload": {
				"employee_id": "` + employeeID + `",
				"employee_name": "Agus",
				"cert_number": "CERT-1",
				"cert_date": "2024-03-15"
			}
		}`
		rec := serve(t, router, http.MethodPost, "/requirements", body, now)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp RecordResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, employeeID, resp.EmployeeID)
		assert.Equal(t, "BSMR-1", resp.RuleCode)
		assert.Equal(t, "DUE", resp.Status)
		require.NotNil(t, resp.ValidUntil)
	})

	t.Run("accepts camelCase payload fields", func(t *testing.T) {
		body := `{
			"rule_id": "` + rule.ID.String() + `",
			"payload": {"employeeId": "` + id.NewEmployeeID().String() + `", "employeeName": "Budi"}
		}`
		rec := serve(t, router, http.MethodPost, "/requirements", body, now)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp RecordResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Budi", resp.EmployeeName)
		assert.Equal(t, "NOT_YET_CERTIFIED", resp.Status)
	})

	t.Run("rejects missing rule id", func(t *testing.T) {
		rec := serve(t, router, http.MethodPost, "/requirements",
			`{"payload": {"employee_id": "`+employeeID+`"}}`, now)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects payload without employee id", func(t *testing.T) {
		rec := serve(t, router, http.MethodPost, "/requirements",
			`{"rule_id": "`+rule.ID.String()+`", "payload": {"employee_name": "Agus"}}`, now)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleEvaluate(t *testing.T) {
	router, rule := newRouter(t)
	employeeID := id.NewEmployeeID().String()

	body := `{
		"rule_id": "` + rule.ID.String() + `",
		"payload": {"employee_id": "` + employeeID + `", "cert_number": "C-1", "cert_date": "2024-03-15"}
	}`
	rec := serve(t, router, http.MethodPost, "/requirements", body, day("2025-01-01"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created RecordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "ACTIVE", created.Status)

	// Later evaluation re-derives the status; the stored column is stale.
	eval := serve(t, router, http.MethodGet, "/requirements/"+created.ID, "", day("2027-01-01"))
	require.Equal(t, http.StatusOK, eval.Code)

	var resp EvaluationResponse
	require.NoError(t, json.Unmarshal(eval.Body.Bytes(), &resp))
	assert.Equal(t, "EXPIRED", resp.Status)
	assert.Equal(t, "ACTIVE", resp.Record.Status)
}

func TestHandleList(t *testing.T) {
	router, rule := newRouter(t)
	now := day("2025-11-01")

	for _, name := range []string{"Budi", "Agus"} {
		body := `{
			"rule_id": "` + rule.ID.String() + `",
			"regional_id": 1,
			"payload": {"employee_id": "` + id.NewEmployeeID().String() + `", "employee_name": "` + name + `"}
		}`
		rec := serve(t, router, http.MethodPost, "/requirements", body, now)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("lists in name order", func(t *testing.T) {
		rec := serve(t, router, http.MethodGet, "/requirements?size=10", "", now)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Content, 2)
		assert.Equal(t, "Agus", resp.Content[0].EmployeeName)
	})

	t.Run("filters by status", func(t *testing.T) {
		rec := serve(t, router, http.MethodGet, "/requirements?status=NOT_YET_CERTIFIED", "", now)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.TotalElements)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		rec := serve(t, router, http.MethodGet, "/requirements?status=BOGUS", "", now)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleDelete(t *testing.T) {
	router, rule := newRouter(t)
	now := day("2025-01-01")

	body := `{
		"rule_id": "` + rule.ID.String() + `",
		"payload": {"employee_id": "` + id.NewEmployeeID().String() + `"}
	}`
	rec := serve(t, router, http.MethodPost, "/requirements", body, now)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created RecordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	del := serve(t, router, http.MethodDelete, "/requirements/"+created.ID, "", now)
	require.Equal(t, http.StatusNoContent, del.Code)

	missing := serve(t, router, http.MethodGet, "/requirements/"+created.ID, "", now)
	require.Equal(t, http.StatusNotFound, missing.Code)
}
