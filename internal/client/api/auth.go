package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/iudanet/freelancehub/internal/client/navigate"
	"github.com/iudanet/freelancehub/pkg/api"
)

// Login выполняет аутентификацию пользователя.
// Токены не сохраняются: это делает вызывающий через session.Replace.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.callAnonymous(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		return nil, fmt.Errorf("login request failed: %w", ErrMalformedTokens)
	}
	return &resp, nil
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.callAnonymous(ctx, http.MethodPost, "/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Refresh обменивает сохраненный refresh token на новую пару и сохраняет ее.
// Без refresh token возвращает ErrNoRefreshToken, не обращаясь к серверу.
// Если сервер не прислал новый refresh token, сохраняется прежний.
func (c *Client) Refresh(ctx context.Context) (*api.TokenResponse, error) {
	refreshToken := c.session.RefreshToken(ctx)
	if refreshToken == "" {
		c.metrics.ObserveRefresh("no_token")
		return nil, ErrNoRefreshToken
	}

	var resp api.TokenResponse
	err := c.callAnonymous(ctx, http.MethodPost, "/refresh", api.RefreshRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		c.metrics.ObserveRefresh("failure")
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	if resp.AccessToken == "" {
		c.metrics.ObserveRefresh("failure")
		return nil, fmt.Errorf("refresh request failed: %w", ErrMalformedTokens)
	}
	if resp.RefreshToken == "" {
		resp.RefreshToken = refreshToken
	}

	if _, err := c.session.Replace(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		c.metrics.ObserveRefresh("failure")
		return nil, fmt.Errorf("failed to store refreshed tokens: %w", err)
	}

	c.metrics.ObserveRefresh("success")
	c.logger.Debug("tokens refreshed")
	return &resp, nil
}

// Logout завершает сессию на сервере (best-effort), затем всегда очищает
// локальную сессию и переходит в корень приложения.
// Ошибка возвращается только если не удалось очистить локальное хранилище.
func (c *Client) Logout(ctx context.Context) error {
	if c.session.AccessToken(ctx) != "" {
		// без перехвата: ответ сервера не влияет на результат
		r, err := newRequest(http.MethodPost, "/user/logout", "/user/logout", nil)
		if err == nil {
			resp, _, sendErr := c.send(ctx, r)
			switch {
			case sendErr != nil:
				c.logger.Warn("server logout failed", "error", sendErr)
			case !resp.ok():
				c.logger.Warn("server logout rejected",
					"error", decodeAPIError(resp.status, resp.body, resp.requestID))
			}
		}
	}

	err := c.session.Clear(context.WithoutCancel(ctx))
	c.navigator.Navigate(navigate.Root)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// VerifySession проверяет сессию на сервере (GET /user/auth).
// Истекший access token обновляется прозрачно через перехват.
func (c *Client) VerifySession(ctx context.Context) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.call(ctx, http.MethodGet, "/user/auth", "/user/auth", nil, &resp); err != nil {
		return nil, fmt.Errorf("auth check failed: %w", err)
	}
	return &resp, nil
}

// IsSessionError reports whether err ended the session or denied access.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrBanned) ||
		errors.Is(err, ErrForbidden)
}
