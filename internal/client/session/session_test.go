package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/freelancehub/internal/client/storage"
	"github.com/iudanet/freelancehub/internal/client/storage/memory"
	"github.com/iudanet/freelancehub/internal/models"
)

func signToken(t *testing.T, role models.Role, exp time.Time) string {
	t.Helper()
	claims := Claims{
		Email: "user@example.com",
		Role:  role,
		ID:    7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// failingStorage returns err from every call
type failingStorage struct {
	err error
}

func (f failingStorage) SaveAuth(context.Context, *storage.AuthData) error { return f.err }
func (f failingStorage) GetAuth(context.Context) (*storage.AuthData, error) {
	return nil, f.err
}
func (f failingStorage) DeleteAuth(context.Context) error { return f.err }

func TestDecodeAccessToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signToken(t, models.RoleClient, exp)

	claims, err := DecodeAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, claims.Role)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, 7, claims.ID)
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp))
	assert.True(t, claims.Expired(exp.Add(time.Second)))
}

func TestDecodeAccessToken_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"bad payload", "aaa.bbb.ccc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAccessToken(tt.token)
			assert.ErrorIs(t, err, ErrMalformedToken)
			assert.Equal(t, models.Role(""), RoleOf(tt.token))
		})
	}
}

func TestClaims_NoExpiry(t *testing.T) {
	c := &Claims{}
	assert.False(t, c.Expired(time.Now()))
}

func TestSession_LoadAnonymous(t *testing.T) {
	s := New(memory.New(), nil)
	assert.Equal(t, StateUnknown, s.Snapshot().State)

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateAnonymous, snap.State)
	assert.False(t, snap.Authenticated())
}

func TestSession_LoadAuthenticated(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	token := signToken(t, models.RoleAdmin, time.Now().Add(time.Hour))

	// роль не закеширована - берется из claim
	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{AccessToken: token, RefreshToken: "r"}))

	s := New(store, nil)
	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Equal(t, models.RoleAdmin, snap.Role)
}

func TestSession_LoadError(t *testing.T) {
	boom := errors.New("disk on fire")
	s := New(failingStorage{err: boom}, nil)

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateUnknown, s.Snapshot().State)
}

func TestSession_ReplaceAndClear(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := New(store, nil)

	access := signToken(t, models.RoleFreelancer, time.Now().Add(time.Hour))
	snap, err := s.Replace(ctx, access, "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Equal(t, models.RoleFreelancer, snap.Role)

	stored, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, access, stored.AccessToken)
	assert.Equal(t, "refresh-1", stored.RefreshToken)
	assert.Equal(t, "freelancer", stored.Role)

	assert.Equal(t, access, s.AccessToken(ctx))
	assert.Equal(t, "refresh-1", s.RefreshToken(ctx))

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	_, err = store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
	assert.Equal(t, StateAnonymous, s.Snapshot().State)
	assert.Empty(t, s.AccessToken(ctx))
	assert.Empty(t, s.RefreshToken(ctx))
}

func TestSession_ReplaceUndecodableToken(t *testing.T) {
	s := New(memory.New(), nil)
	snap, err := s.Replace(context.Background(), "opaque", "r")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Equal(t, models.Role(""), snap.Role)
}

func TestSession_ReplaceEmptyAccess(t *testing.T) {
	s := New(memory.New(), nil)
	_, err := s.Replace(context.Background(), "", "r")
	assert.ErrorIs(t, err, storage.ErrInvalidAuth)
	assert.Equal(t, StateUnknown, s.Snapshot().State)
}

func TestSession_CacheRole(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := New(store, nil)

	// без токена - no-op
	require.NoError(t, s.CacheRole(ctx, models.RoleAdmin))
	_, err := store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	_, err = s.Replace(ctx, "opaque", "r")
	require.NoError(t, err)
	require.NoError(t, s.CacheRole(ctx, models.RoleClient))

	stored, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "client", stored.Role)
	assert.Equal(t, "opaque", stored.AccessToken)
	assert.Equal(t, models.RoleClient, s.Snapshot().Role)
}

func TestSession_Subscribe(t *testing.T) {
	ctx := context.Background()
	s := New(memory.New(), nil)

	var got []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		got = append(got, snap)
		// подписчик может читать сессию без дедлока
		_ = s.Snapshot()
	})

	_, err := s.Replace(ctx, signToken(t, models.RoleClient, time.Now().Add(time.Hour)), "r")
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx))
	// повторная очистка не меняет состояние
	require.NoError(t, s.Clear(ctx))

	require.Len(t, got, 2)
	assert.Equal(t, StateAuthenticated, got[0].State)
	assert.Equal(t, models.RoleClient, got[0].Role)
	assert.Equal(t, StateAnonymous, got[1].State)

	unsubscribe()
	unsubscribe()
	_, err = s.Replace(ctx, "opaque", "r")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSession_ClearError(t *testing.T) {
	boom := errors.New("locked")
	s := New(failingStorage{err: boom}, nil)
	assert.ErrorIs(t, s.Clear(context.Background()), boom)
}

func TestSession_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := New(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Replace(ctx, "access", "refresh")
		}()
		go func() {
			defer wg.Done()
			_ = s.Clear(ctx)
		}()
	}
	wg.Wait()

	// хранилище и снимок согласованы: пара либо целиком есть, либо целиком нет
	auth, err := store.GetAuth(ctx)
	switch s.Snapshot().State {
	case StateAuthenticated:
		require.NoError(t, err)
		assert.Equal(t, "access", auth.AccessToken)
		assert.Equal(t, "refresh", auth.RefreshToken)
	case StateAnonymous:
		assert.ErrorIs(t, err, storage.ErrAuthNotFound)
	default:
		t.Fatalf("unexpected state %v", s.Snapshot().State)
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unknown", StateUnknown.String())
	assert.Equal(t, "anonymous", StateAnonymous.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
}
