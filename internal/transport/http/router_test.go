package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certtrack/internal/certrule"
	certruleHandler "certtrack/internal/certrule/handler"
	certruleservice "certtrack/internal/certrule/service"
	"certtrack/internal/jwttoken"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, withAuth bool) (http.Handler, *jwttoken.Service) {
	t.Helper()

	rules, err := certruleservice.New(certrule.NewInMemoryStore(), testLogger())
	require.NoError(t, err)

	tokens := jwttoken.NewService("test-signing-key", "certtrack", "certtrack-api")

	deps := Deps{
		Logger:   testLogger(),
		Handlers: []Registrar{certruleHandler.New(rules, testLogger())},
	}
	if withAuth {
		deps.JWTValidator = tokens
	}
	return NewRouter(deps), tokens
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

type failingChecker struct{}

func (failingChecker) Health(context.Context) error { return errors.New("connection refused") }

func TestHealthz_ReportsDegradedDependencies(t *testing.T) {
	router := NewRouter(Deps{
		Logger:         testLogger(),
		HealthCheckers: map[string]HealthChecker{"postgres": failingChecker{}},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "connection refused", body["postgres"])
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIRequiresAuth(t *testing.T) {
	router, tokens := newTestRouter(t, true)

	t.Run("rejects missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rules", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("accepts valid token", func(t *testing.T) {
		token, err := tokens.GenerateAccessToken(uuid.New(), time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/rules", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("request id echoed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})
}
