package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/freelancehub/internal/client/api"
	"github.com/iudanet/freelancehub/internal/client/navigate"
	"github.com/iudanet/freelancehub/internal/client/session"
	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/internal/validation"
	pkgapi "github.com/iudanet/freelancehub/pkg/api"
)

// AuthService предоставляет функции авторизации
type AuthService struct {
	apiClient *api.Client
	session   *session.Session
	navigator navigate.Navigator
	logger    *slog.Logger
}

// Compile-time check that AuthService implements Service
var _ Service = (*AuthService)(nil)

// NewAuthService создает новый сервис авторизации
func NewAuthService(apiClient *api.Client, sess *session.Session, navigator navigate.Navigator, logger *slog.Logger) *AuthService {
	if navigator == nil {
		navigator = navigate.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		apiClient: apiClient,
		session:   sess,
		navigator: navigator,
		logger:    logger,
	}
}

// RegisterInput - данные формы регистрации
type RegisterInput struct {
	Email    string
	Password string
	Role     string
	Name     string
	Surname  string
}

// LoginResult содержит результат авторизации
type LoginResult struct {
	Email     string
	Role      models.Role
	Dashboard string // стартовый view для роли
}

// Login выполняет аутентификацию пользователя
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if password == "" {
		return nil, fmt.Errorf("invalid password: password cannot be empty")
	}

	resp, err := s.apiClient.Login(ctx, pkgapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	snap, err := s.session.Replace(ctx, resp.AccessToken, resp.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("logged in", "role", snap.Role)
	return &LoginResult{
		Email:     email,
		Role:      snap.Role,
		Dashboard: snap.Role.Dashboard(),
	}, nil
}

// Register регистрирует нового пользователя, затем входит с теми же данными
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	// Валидация входных данных
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}
	if err := validation.ValidateRegistrationRole(input.Role); err != nil {
		return nil, fmt.Errorf("invalid role: %w", err)
	}
	if err := validation.ValidateName("name", input.Name); err != nil {
		return nil, err
	}
	if err := validation.ValidateName("surname", input.Surname); err != nil {
		return nil, err
	}

	_, err := s.apiClient.Register(ctx, pkgapi.RegisterRequest{
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		Name:     input.Name,
		Surname:  input.Surname,
	})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	s.logger.Info("registered", "role", input.Role)
	return s.Login(ctx, input.Email, input.Password)
}

// Logout выполняет выход из системы
func (s *AuthService) Logout(ctx context.Context) error {
	return s.apiClient.Logout(ctx)
}

// DeleteAccount удаляет аккаунт. Локальная сессия очищается только после
// успешного удаления на сервере.
func (s *AuthService) DeleteAccount(ctx context.Context) error {
	if err := s.apiClient.DeleteUser(ctx); err != nil {
		return err
	}
	if err := s.session.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.navigator.Navigate(navigate.Root)
	return nil
}

// Status возвращает состояние сессии
func (s *AuthService) Status(ctx context.Context) (session.Snapshot, error) {
	snap := s.session.Snapshot()
	if snap.State != session.StateUnknown {
		return snap, nil
	}
	return s.session.Load(ctx)
}
