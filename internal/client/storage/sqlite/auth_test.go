package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/freelancehub/internal/client/storage"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func TestStorage_SaveGetDeleteAuth(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	auth := &storage.AuthData{AccessToken: "AT1", RefreshToken: "RT1", Role: "admin"}
	require.NoError(t, s.SaveAuth(ctx, auth))

	got, err := s.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth, got)

	require.NoError(t, s.DeleteAuth(ctx))

	_, err = s.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	var count int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM session`).Scan(&count))
	assert.Zero(t, count)

	// Повторное удаление не ошибка
	assert.NoError(t, s.DeleteAuth(ctx))
}

func TestStorage_SaveAuth_ReplacesWholeRecord(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	require.NoError(t, s.SaveAuth(ctx, &storage.AuthData{AccessToken: "AT1", RefreshToken: "RT1", Role: "client"}))
	require.NoError(t, s.SaveAuth(ctx, &storage.AuthData{AccessToken: "AT2"}))

	got, err := s.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, &storage.AuthData{AccessToken: "AT2"}, got)
}

func TestStorage_SaveAuth_Invalid(t *testing.T) {
	s := setupTestStorage(t)
	assert.ErrorIs(t, s.SaveAuth(context.Background(), &storage.AuthData{}), storage.ErrInvalidAuth)
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "session.db")

	s, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveAuth(ctx, &storage.AuthData{AccessToken: "AT1", RefreshToken: "RT1"}))
	require.NoError(t, s.Close())

	reopened, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	got, err := reopened.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "RT1", got.RefreshToken)
}
