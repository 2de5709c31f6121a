// Package api is the session-aware HTTP client of the marketplace API.
// Every authenticated call carries the stored access token; failed responses
// go through the interception rules that refresh, clear or redirect the session.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/iudanet/freelancehub/internal/client/metrics"
	"github.com/iudanet/freelancehub/internal/client/navigate"
	"github.com/iudanet/freelancehub/internal/client/session"
	"github.com/iudanet/freelancehub/pkg/api"
)

const (
	// DefaultTimeout - таймаут HTTP клиента по умолчанию
	DefaultTimeout = 30 * time.Second

	// HeaderRequestID - заголовок с идентификатором запроса
	HeaderRequestID = "X-Request-ID"

	noticeLoginAgain = "Please log in again!"
	noticeBanned     = "You are banned!"
)

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	session    *session.Session
	navigator  navigate.Navigator
	notifier   navigate.Notifier
	logger     *slog.Logger
	metrics    metrics.Recorder

	refreshes singleflight.Group

	baseURL          string
	fallbackRedirect bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the timeout of the underlying *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithNavigator sets where redirects are sent.
func WithNavigator(n navigate.Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

// WithNotifier sets where user-visible notices are sent.
func WithNotifier(n navigate.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Recorder) Option {
	return func(c *Client) { c.metrics = m }
}

// WithFallbackRedirect включает последнее правило перехвата:
// любая другая ошибка сервера уводит пользователя в корень приложения.
func WithFallbackRedirect(enabled bool) Option {
	return func(c *Client) { c.fallbackRedirect = enabled }
}

// NewClient создает новый API клиент
func NewClient(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: sess,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
		navigator: navigate.Discard{},
		notifier:  navigate.Discard{},
		logger:    slog.Default(),
		metrics:   metrics.Nop{},
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the client reads tokens from.
func (c *Client) Session() *session.Session {
	return c.session
}

// request describes one logical API call. It is re-sent unchanged on retry.
type request struct {
	method string
	path   string
	// route - шаблон пути для метрик, без идентификаторов
	route string
	body  []byte
	// anonymous запросы не несут токен и не перехватываются
	anonymous bool
	retried   bool
}

// response is a fully read HTTP response.
type response struct {
	header    http.Header
	requestID string
	body      []byte
	status    int
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func newRequest(method, route, path string, body any) (*request, error) {
	r := &request{method: method, route: route, path: path}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		r.body = data
	}
	return r, nil
}

// attachToken sets the bearer header from the stored access token and returns
// the token used. Without a stored token the request stays anonymous.
// Calling it again on the same request replaces the header, never duplicates it.
func (c *Client) attachToken(ctx context.Context, req *http.Request) string {
	token := c.session.AccessToken(ctx)
	if token == "" {
		req.Header.Del("Authorization")
		return ""
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return token
}

// send выполняет один HTTP запрос и читает ответ целиком
func (c *Client) send(ctx context.Context, r *request) (*response, string, error) {
	var bodyReader io.Reader
	if r.body != nil {
		bodyReader = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, bodyReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var token string
	if !r.anonymous {
		token = c.attachToken(ctx, req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(r.method, r.route, 0, time.Since(start))
		c.logger.Warn("request failed",
			"request_id", requestID, "method", r.method, "route", r.route, "error", err)
		return nil, token, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.metrics.ObserveRequest(r.method, r.route, resp.StatusCode, elapsed)
	if err != nil {
		return nil, token, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("request completed",
		"request_id", requestID,
		"method", r.method,
		"route", r.route,
		"status", resp.StatusCode,
		"retried", r.retried,
		"elapsed", elapsed)

	return &response{
		header:    resp.Header,
		requestID: requestID,
		body:      respBody,
		status:    resp.StatusCode,
	}, token, nil
}

// do sends r and applies the interception rules to a failed response.
func (c *Client) do(ctx context.Context, r *request) (*response, error) {
	resp, token, err := c.send(ctx, r)
	if err != nil {
		// транспортная ошибка: сессию не трогаем
		return nil, err
	}
	if resp.ok() {
		return resp, nil
	}

	apiErr := decodeAPIError(resp.status, resp.body, resp.requestID)
	if r.anonymous {
		return nil, apiErr
	}
	return c.intercept(ctx, r, token, apiErr)
}

// intercept применяет правила перехвата по порядку; каждое правило терминальное.
func (c *Client) intercept(ctx context.Context, r *request, sentToken string, apiErr *APIError) (*response, error) {
	log := c.logger.With("request_id", apiErr.RequestID, "route", r.route, "status", apiErr.Status)

	switch {
	// 1. истекший access token: общий refresh и один повтор
	case apiErr.Status == http.StatusUnauthorized && apiErr.Kind == api.KindTokenExpired && !r.retried:
		c.metrics.ObserveInterception("token_expired")
		// обновить нечем: сессию не восстановить, как в правиле 2
		if c.session.RefreshToken(ctx) == "" {
			c.metrics.ObserveRefresh("no_token")
			log.Info("session expired, no refresh token stored")
			c.teardown(ctx, navigate.Login, noticeLoginAgain)
			return nil, &navigate.Redirect{
				Target: navigate.Login,
				Cause:  fmt.Errorf("%w: %w", ErrSessionExpired, ErrNoRefreshToken),
			}
		}
		if err := c.refreshShared(ctx, sentToken); err != nil {
			if ctx.Err() != nil {
				// вызывающий ушел, общий refresh продолжается без него
				return nil, fmt.Errorf("refresh interrupted: %w", ctx.Err())
			}
			log.Info("session expired, refresh failed", "error", err)
			c.teardown(ctx, navigate.Login, "")
			return nil, &navigate.Redirect{
				Target: navigate.Login,
				Cause:  fmt.Errorf("%w: %w", ErrSessionExpired, err),
			}
		}
		retry := *r
		retry.retried = true
		return c.do(ctx, &retry)

	// 2. любой другой 401
	case apiErr.Status == http.StatusUnauthorized:
		c.metrics.ObserveInterception("unauthorized")
		log.Info("session rejected by server", "kind", apiErr.Kind)
		c.teardown(ctx, navigate.Login, noticeLoginAgain)
		return nil, &navigate.Redirect{
			Target: navigate.Login,
			Cause:  fmt.Errorf("%w: %w", ErrUnauthorized, apiErr),
		}

	// 3. аккаунт заблокирован
	case apiErr.Status == http.StatusForbidden && apiErr.Kind == api.KindBanned:
		c.metrics.ObserveInterception("banned")
		log.Info("account is banned")
		c.teardown(ctx, navigate.Root, noticeBanned)
		return nil, &navigate.Redirect{
			Target: navigate.Root,
			Cause:  fmt.Errorf("%w: %w", ErrBanned, apiErr),
		}

	// 4. недостаточно прав: токены остаются
	case apiErr.Status == http.StatusForbidden:
		c.metrics.ObserveInterception("forbidden")
		c.navigator.Navigate(navigate.Root)
		return nil, &navigate.Redirect{
			Target: navigate.Root,
			Cause:  fmt.Errorf("%w: %w", ErrForbidden, apiErr),
		}
	}

	// 5. остальные ошибки возвращаются вызывающему
	if c.fallbackRedirect {
		c.metrics.ObserveInterception("fallback")
		c.navigator.Navigate(navigate.Root)
		return nil, &navigate.Redirect{Target: navigate.Root, Cause: apiErr}
	}
	c.metrics.ObserveInterception("propagated")
	return nil, apiErr
}

// teardown очищает сессию, показывает уведомление и уводит пользователя на target
func (c *Client) teardown(ctx context.Context, target navigate.Target, notice string) {
	if err := c.session.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error("failed to clear session", "error", err)
	}
	if notice != "" {
		c.notifier.Notify(notice)
	}
	c.navigator.Navigate(target)
}

// refreshShared обновляет токены один раз на все запросы, отправленные с sentToken.
// Если сохраненный токен уже отличается от отправленного, значит другой запрос
// успел обновить сессию, и повтор идет без обращения к /refresh.
func (c *Client) refreshShared(ctx context.Context, sentToken string) error {
	// общий refresh не отменяется контекстом первого ожидающего
	shared := context.WithoutCancel(ctx)
	ch := c.refreshes.DoChan("refresh:"+sentToken, func() (any, error) {
		current := c.session.AccessToken(shared)
		if current != "" && current != sentToken {
			return nil, nil
		}
		_, err := c.Refresh(shared)
		return nil, err
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// call выполняет запрос и декодирует JSON ответ в out (если out != nil)
func (c *Client) call(ctx context.Context, method, route, path string, body, out any) error {
	r, err := newRequest(method, route, path, body)
	if err != nil {
		return err
	}
	return c.exec(ctx, r, out)
}

// callAnonymous - то же, что call, но без токена и без перехвата
func (c *Client) callAnonymous(ctx context.Context, method, path string, body, out any) error {
	r, err := newRequest(method, path, path, body)
	if err != nil {
		return err
	}
	r.anonymous = true
	return c.exec(ctx, r, out)
}

func (c *Client) exec(ctx context.Context, r *request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}

	// Декодируем успешный ответ
	if out != nil && len(bytes.TrimSpace(resp.body)) > 0 {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// IsRedirect reports whether err means the user was already navigated away.
func IsRedirect(err error) (*navigate.Redirect, bool) {
	var redirect *navigate.Redirect
	if errors.As(err, &redirect) {
		return redirect, true
	}
	return nil, false
}
