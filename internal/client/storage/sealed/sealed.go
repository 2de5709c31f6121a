// Package sealed encrypts session tokens before they reach durable storage.
package sealed

import (
	"context"
	"fmt"

	"github.com/iudanet/freelancehub/internal/client/storage"
	"github.com/iudanet/freelancehub/internal/crypto"
)

// Storage wraps an AuthStorage and keeps tokens encrypted at rest.
// The role is not secret and is stored as-is.
type Storage struct {
	inner storage.AuthStorage
	key   []byte
}

// Compile-time check that Storage implements storage.AuthStorage
var _ storage.AuthStorage = (*Storage)(nil)

// New creates a sealing decorator. key must be crypto.KeySize bytes.
func New(inner storage.AuthStorage, key []byte) (*Storage, error) {
	if len(key) != crypto.KeySize {
		return nil, fmt.Errorf("sealed storage key must be %d bytes, got %d", crypto.KeySize, len(key))
	}
	return &Storage{inner: inner, key: key}, nil
}

// SaveAuth шифрует токены и передаёт запись во внутреннее хранилище
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	if auth == nil || auth.AccessToken == "" {
		return storage.ErrInvalidAuth
	}

	access, err := crypto.SealString(auth.AccessToken, s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}
	refresh, err := crypto.SealString(auth.RefreshToken, s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	// копируем структуру, чтобы не менять входящую
	sealedAuth := *auth
	sealedAuth.AccessToken = access
	sealedAuth.RefreshToken = refresh

	return s.inner.SaveAuth(ctx, &sealedAuth)
}

// GetAuth загружает запись и расшифровывает токены
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	stored, err := s.inner.GetAuth(ctx)
	if err != nil {
		return nil, err
	}

	access, err := crypto.OpenString(stored.AccessToken, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}
	refresh, err := crypto.OpenString(stored.RefreshToken, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
	}

	auth := *stored
	auth.AccessToken = access
	auth.RefreshToken = refresh
	return &auth, nil
}

// DeleteAuth удаляет данные
func (s *Storage) DeleteAuth(ctx context.Context) error {
	return s.inner.DeleteAuth(ctx)
}
