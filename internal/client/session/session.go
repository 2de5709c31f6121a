// Package session owns the client's login state: the credential pair kept in
// durable storage, the cached role and the subscribers interested in changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/freelancehub/internal/client/storage"
	"github.com/iudanet/freelancehub/internal/models"
)

// State - состояние сессии
type State int

const (
	// StateUnknown - хранилище еще не прочитано
	StateUnknown State = iota
	// StateAnonymous - токенов нет
	StateAnonymous
	// StateAuthenticated - access token сохранен
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	Role  models.Role
	State State
}

// Authenticated reports whether the snapshot holds an access token.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated
}

// Session is the single owner of the stored credentials.
// All mutations go through it and are serialised.
type Session struct {
	store  storage.AuthStorage
	logger *slog.Logger

	subscribers map[uint64]func(Snapshot)
	snapshot    Snapshot
	nextID      uint64

	mu    sync.Mutex // serialises storage mutations and guards snapshot
	subMu sync.Mutex
}

// New создает сессию поверх хранилища. Состояние - unknown до Load.
func New(store storage.AuthStorage, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:       store,
		logger:      logger,
		subscribers: make(map[uint64]func(Snapshot)),
	}
}

// Load читает хранилище и переводит сессию из unknown в anonymous или authenticated.
func (s *Session) Load(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	auth, err := s.store.GetAuth(ctx)
	switch {
	case errors.Is(err, storage.ErrAuthNotFound):
		s.snapshot = Snapshot{State: StateAnonymous}
	case err != nil:
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("failed to load session: %w", err)
	default:
		role := models.Role(auth.Role)
		if role == "" {
			role = RoleOf(auth.AccessToken)
		}
		s.snapshot = Snapshot{State: StateAuthenticated, Role: role}
	}
	snap := s.snapshot
	s.mu.Unlock()

	s.logger.Debug("session loaded", "state", snap.State.String(), "role", snap.Role)
	s.publish(snap)
	return snap, nil
}

// Snapshot returns the current in-memory state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Credentials returns the stored pair. storage.ErrAuthNotFound means anonymous.
func (s *Session) Credentials(ctx context.Context) (*storage.AuthData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	auth, err := s.store.GetAuth(ctx)
	if err != nil {
		return nil, err
	}
	return auth, nil
}

// AccessToken returns the stored access token or "" when there is none.
func (s *Session) AccessToken(ctx context.Context) string {
	auth, err := s.Credentials(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrAuthNotFound) {
			s.logger.Warn("failed to read access token", "error", err)
		}
		return ""
	}
	return auth.AccessToken
}

// RefreshToken returns the stored refresh token or "" when there is none.
func (s *Session) RefreshToken(ctx context.Context) string {
	auth, err := s.Credentials(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrAuthNotFound) {
			s.logger.Warn("failed to read refresh token", "error", err)
		}
		return ""
	}
	return auth.RefreshToken
}

// Replace сохраняет новую пару токенов одной записью.
// Роль берется из claim access token; если его не удалось декодировать, роль пустая.
func (s *Session) Replace(ctx context.Context, access, refresh string) (Snapshot, error) {
	if access == "" {
		return Snapshot{}, fmt.Errorf("replace session: %w", storage.ErrInvalidAuth)
	}

	role := RoleOf(access)

	s.mu.Lock()
	err := s.store.SaveAuth(ctx, &storage.AuthData{
		AccessToken:  access,
		RefreshToken: refresh,
		Role:         string(role),
	})
	if err != nil {
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("failed to save session: %w", err)
	}
	s.snapshot = Snapshot{State: StateAuthenticated, Role: role}
	snap := s.snapshot
	s.mu.Unlock()

	s.logger.Debug("session replaced", "role", role)
	s.publish(snap)
	return snap, nil
}

// CacheRole обновляет закешированную роль после успешной проверки на сервере.
// Без сохраненного токена ничего не делает.
func (s *Session) CacheRole(ctx context.Context, role models.Role) error {
	s.mu.Lock()
	auth, err := s.store.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to read session: %w", err)
	}

	changed := models.Role(auth.Role) != role || s.snapshot.Role != role ||
		s.snapshot.State != StateAuthenticated
	if models.Role(auth.Role) != role {
		auth.Role = string(role)
		if err := s.store.SaveAuth(ctx, auth); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to cache role: %w", err)
		}
	}
	s.snapshot = Snapshot{State: StateAuthenticated, Role: role}
	snap := s.snapshot
	s.mu.Unlock()

	if changed {
		s.publish(snap)
	}
	return nil
}

// Clear удаляет оба токена и роль. Повторный вызов не является ошибкой.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.store.DeleteAuth(ctx); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to clear session: %w", err)
	}
	changed := s.snapshot.State != StateAnonymous
	s.snapshot = Snapshot{State: StateAnonymous}
	snap := s.snapshot
	s.mu.Unlock()

	if changed {
		s.logger.Debug("session cleared")
		s.publish(snap)
	}
	return nil
}

// Subscribe registers fn to be called after every state change.
// The returned func removes the subscription.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Session) publish(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	// подписчики вызываются без блокировок, они могут обращаться к сессии
	for _, fn := range fns {
		fn(snap)
	}
}
