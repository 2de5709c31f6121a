// Package memory implements storage.AuthStorage in process memory.
// Используется для эфемерных сессий (--driver memory) и в тестах.
package memory

import (
	"context"
	"sync"

	"github.com/iudanet/freelancehub/internal/client/storage"
)

// Storage хранит сессию в памяти процесса
type Storage struct {
	data *storage.AuthData
	mu   sync.RWMutex
}

// New creates an empty store.
func New() *Storage {
	return &Storage{}
}

// SaveAuth заменяет сессию целиком
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	if auth == nil || auth.AccessToken == "" {
		return storage.ErrInvalidAuth
	}

	copied := *auth
	s.mu.Lock()
	s.data = &copied
	s.mu.Unlock()
	return nil
}

// GetAuth возвращает копию сохраненной сессии
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, storage.ErrAuthNotFound
	}
	copied := *s.data
	return &copied, nil
}

// DeleteAuth удаляет сессию
func (s *Storage) DeleteAuth(ctx context.Context) error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}
