package sealed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/freelancehub/internal/client/storage"
	"github.com/iudanet/freelancehub/internal/crypto"
)

// mockAuthStorage implements storage.AuthStorage for testing
type mockAuthStorage struct {
	data    *storage.AuthData
	saveErr error
}

func (m *mockAuthStorage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	copied := *auth
	m.data = &copied
	return nil
}

func (m *mockAuthStorage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	if m.data == nil {
		return nil, storage.ErrAuthNotFound
	}
	copied := *m.data
	return &copied, nil
}

func (m *mockAuthStorage) DeleteAuth(ctx context.Context) error {
	m.data = nil
	return nil
}

func testKey() []byte {
	return make([]byte, crypto.KeySize)
}

func TestNew_InvalidKey(t *testing.T) {
	s, err := New(&mockAuthStorage{}, []byte("short"))
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestStorage_SaveAuth_EncryptsTokens(t *testing.T) {
	inner := &mockAuthStorage{}
	s, err := New(inner, testKey())
	require.NoError(t, err)

	ctx := context.Background()
	auth := &storage.AuthData{AccessToken: "AT1", RefreshToken: "RT1", Role: "client"}
	require.NoError(t, s.SaveAuth(ctx, auth))

	// Во внутреннем хранилище токены зашифрованы, роль как есть
	require.NotNil(t, inner.data)
	assert.NotEqual(t, "AT1", inner.data.AccessToken)
	assert.NotEqual(t, "RT1", inner.data.RefreshToken)
	assert.Equal(t, "client", inner.data.Role)

	// Входная структура не изменилась
	assert.Equal(t, "AT1", auth.AccessToken)

	got, err := s.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth, got)
}

func TestStorage_EmptyRefreshStaysEmpty(t *testing.T) {
	inner := &mockAuthStorage{}
	s, err := New(inner, testKey())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.SaveAuth(ctx, &storage.AuthData{AccessToken: "AT1"}))
	assert.Empty(t, inner.data.RefreshToken)

	got, err := s.GetAuth(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.RefreshToken)
}

func TestStorage_WrongKey(t *testing.T) {
	inner := &mockAuthStorage{}
	s, err := New(inner, testKey())
	require.NoError(t, err)
	require.NoError(t, s.SaveAuth(context.Background(), &storage.AuthData{AccessToken: "AT1"}))

	otherKey := make([]byte, crypto.KeySize)
	otherKey[0] = 1
	other, err := New(inner, otherKey)
	require.NoError(t, err)

	_, err = other.GetAuth(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decrypt access token")
}

func TestStorage_PassThrough(t *testing.T) {
	inner := &mockAuthStorage{}
	s, err := New(inner, testKey())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = s.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	assert.ErrorIs(t, s.SaveAuth(ctx, nil), storage.ErrInvalidAuth)

	require.NoError(t, s.SaveAuth(ctx, &storage.AuthData{AccessToken: "AT1"}))
	require.NoError(t, s.DeleteAuth(ctx))
	assert.Nil(t, inner.data)
}
