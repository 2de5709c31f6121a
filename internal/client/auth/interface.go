package auth

import (
	"context"

	"github.com/iudanet/freelancehub/internal/client/session"
)

//go:generate moq -out service_mock.go . Service

// Service defines the main interface for authentication operations.
// Tokens obtained by Login and Register are kept in the session; callers
// never see them.
type Service interface {
	// Login выполняет аутентификацию пользователя и сохраняет пару токенов
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Register регистрирует нового пользователя и сразу выполняет вход
	Register(ctx context.Context, input RegisterInput) (*LoginResult, error)

	// Logout выполняет выход из системы
	// Локальная сессия удаляется всегда, сервер уведомляется по возможности
	Logout(ctx context.Context) error

	// DeleteAccount удаляет аккаунт на сервере и очищает локальную сессию
	DeleteAccount(ctx context.Context) error

	// Status returns the current session state, loading it from storage if needed
	Status(ctx context.Context) (session.Snapshot, error)
}
