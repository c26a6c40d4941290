package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certtrack/internal/employee"
	dErrors "certtrack/pkg/domain-errors"
	"certtrack/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(employee.NewInMemoryStore(), testLogger())
	require.NoError(t, err)
	return svc
}

func TestRegister(t *testing.T) {
	now := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	svc := newService(t)

	e, err := svc.Register(ctx, RegisterInput{NIP: " NIP-001 ", Name: "Agus", RegionalID: 1})
	require.NoError(t, err)
	assert.Equal(t, "NIP-001", e.NIP)
	assert.True(t, e.Active)
	assert.Equal(t, now, e.CreatedAt)
	assert.False(t, e.ID.IsZero())

	got, err := svc.GetByNIP(ctx, "NIP-001")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Register(ctx, RegisterInput{Name: "Agus"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = svc.Register(ctx, RegisterInput{NIP: "NIP-001", Name: "   "})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestRegister_DuplicateNIP(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Register(ctx, RegisterInput{NIP: "NIP-001", Name: "Agus"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{NIP: "NIP-001", Name: "Budi"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	e, err := svc.Register(ctx, RegisterInput{NIP: "NIP-001", Name: "Agus"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Agus", got.Name)

	_, err = svc.GetByNIP(ctx, "missing")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestList_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.List(ctx, employee.ScopeFilter{}, 0, 10)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	e, err := svc.Register(ctx, RegisterInput{NIP: "NIP-001", Name: "Agus"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, e.ID))

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}
