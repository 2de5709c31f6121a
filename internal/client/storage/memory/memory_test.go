package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/freelancehub/internal/client/storage"
)

func TestStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	require.NoError(t, s.SaveAuth(ctx, &storage.AuthData{AccessToken: "a", RefreshToken: "r", Role: "client"}))

	got, err := s.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccessToken)
	assert.Equal(t, "r", got.RefreshToken)
	assert.Equal(t, "client", got.Role)

	// изменение копии не влияет на хранилище
	got.AccessToken = "changed"
	again, err := s.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", again.AccessToken)

	require.NoError(t, s.DeleteAuth(ctx))
	require.NoError(t, s.DeleteAuth(ctx))
	_, err = s.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}

func TestStorage_SaveAuth_Invalid(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.SaveAuth(context.Background(), nil), storage.ErrInvalidAuth)
	assert.ErrorIs(t, s.SaveAuth(context.Background(), &storage.AuthData{RefreshToken: "r"}), storage.ErrInvalidAuth)
}
