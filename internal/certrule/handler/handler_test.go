package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certtrack/internal/certrule"
	certruleservice "certtrack/internal/certrule/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	svc, err := certruleservice.New(certrule.NewInMemoryStore(), testLogger())
	require.NoError(t, err)

	r := chi.NewRouter()
	New(svc, testLogger()).Register(r)
	return r
}

func doJSON(t *testing.T, router chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleDefine(t *testing.T) {
	router := newRouter(t)

	t.Run("creates rule", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/rules",
			`{"certification_code":"BSMR","level":1,"validity_months":24,"reminder_months":6}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp RuleResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "BSMR-1", resp.RuleCode)
	})

	t.Run("rejects empty rule", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/rules", `{"validity_months":24}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects negative validity", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/rules",
			`{"certification_code":"BSMR","validity_months":-1}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleListGetDelete(t *testing.T) {
	router := newRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/rules",
		`{"certification_code":"BSMR","validity_months":24,"reminder_months":6}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created RuleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	list := doJSON(t, router, http.MethodGet, "/rules", "")
	require.Equal(t, http.StatusOK, list.Code)
	var rules []RuleResponse
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &rules))
	require.Len(t, rules, 1)

	get := doJSON(t, router, http.MethodGet, "/rules/"+created.ID, "")
	require.Equal(t, http.StatusOK, get.Code)

	del := doJSON(t, router, http.MethodDelete, "/rules/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, del.Code)

	missing := doJSON(t, router, http.MethodGet, "/rules/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, missing.Code)

	malformed := doJSON(t, router, http.MethodGet, "/rules/not-a-uuid", "")
	require.Equal(t, http.StatusBadRequest, malformed.Code)
}
