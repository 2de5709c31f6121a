// Package guard decides whether a protected view may be rendered for the
// current session.
package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/freelancehub/internal/client/api"
	"github.com/iudanet/freelancehub/internal/client/navigate"
	"github.com/iudanet/freelancehub/internal/client/session"
	"github.com/iudanet/freelancehub/internal/client/storage"
	"github.com/iudanet/freelancehub/internal/models"
	pkgapi "github.com/iudanet/freelancehub/pkg/api"
)

// Requirement - что нужно view для отображения
type Requirement int

const (
	RequireNone Requirement = iota
	RequireAuthenticated
	RequireAdmin
)

func (r Requirement) String() string {
	switch r {
	case RequireAuthenticated:
		return "authenticated"
	case RequireAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Status - состояние проверки
type Status int

const (
	StatusChecking Status = iota
	StatusGranted
	StatusDenied
)

func (s Status) String() string {
	switch s {
	case StatusGranted:
		return "granted"
	case StatusDenied:
		return "denied"
	default:
		return "checking"
	}
}

// Mode selects how an existing token is verified.
type Mode string

const (
	// ModeRemote asks the server (GET /user/auth); catches revocation and bans
	ModeRemote Mode = "remote"
	// ModeLocal decodes the token and checks exp only
	ModeLocal Mode = "local"
)

// ErrDenied is returned by Gate when the view may not be rendered.
var ErrDenied = errors.New("view access denied")

// Decision is the resolved outcome of a check.
type Decision struct {
	// Err - причина отказа, если она есть
	Err error
	// Redirect - куда был отправлен пользователь (None, если никуда)
	Redirect navigate.Target
	Role     models.Role
	Status   Status
	// Cleared - сессия была очищена в ходе проверки
	Cleared bool
}

// Granted reports whether the view may render.
func (d Decision) Granted() bool {
	return d.Status == StatusGranted
}

// Verifier checks the session on the server.
type Verifier interface {
	VerifySession(ctx context.Context) (*pkgapi.AuthResponse, error)
}

// Guard gates views behind session requirements.
type Guard struct {
	session   *session.Session
	verifier  Verifier
	navigator navigate.Navigator
	logger    *slog.Logger
	loading   func(Requirement)
	now       func() time.Time
	mode      Mode
}

// Option configures a Guard.
type Option func(*Guard)

func WithMode(m Mode) Option {
	return func(g *Guard) { g.mode = m }
}

func WithNavigator(n navigate.Navigator) Option {
	return func(g *Guard) { g.navigator = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

// WithLoading sets the neutral indicator shown while a check is pending.
func WithLoading(fn func(Requirement)) Option {
	return func(g *Guard) { g.loading = fn }
}

// WithClock overrides time.Now for local expiry checks.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// New создает guard. verifier нужен только в режиме ModeRemote.
func New(sess *session.Session, verifier Verifier, opts ...Option) *Guard {
	g := &Guard{
		session:   sess,
		verifier:  verifier,
		navigator: navigate.Discard{},
		logger:    slog.Default(),
		loading:   func(Requirement) {},
		now:       time.Now,
		mode:      ModeRemote,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check resolves req against the current session. Redirects it decides on
// are performed before it returns.
func (g *Guard) Check(ctx context.Context, req Requirement) Decision {
	if req == RequireNone {
		return Decision{Status: StatusGranted, Role: g.session.Snapshot().Role}
	}

	creds, err := g.session.Credentials(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return g.deny(navigate.Login, false, nil)
	}
	if err != nil {
		g.logger.Error("failed to read session", "error", err)
		return Decision{Status: StatusDenied, Err: err}
	}

	// поврежденный токен равносилен отсутствию токена
	claims, err := session.DecodeAccessToken(creds.AccessToken)
	if err != nil {
		g.logger.Info("stored access token is malformed", "error", err)
		return g.clearAndDeny(ctx, err)
	}

	var role models.Role
	switch g.mode {
	case ModeLocal:
		if claims.Expired(g.now()) {
			return g.clearAndDeny(ctx, api.ErrSessionExpired)
		}
		role = claims.Role
	default:
		resp, err := g.verifier.VerifySession(ctx)
		if err != nil {
			return g.verifyFailed(err)
		}
		role = models.Role(resp.Role)
		if role == "" {
			role = claims.Role
		}
	}

	if err := g.session.CacheRole(ctx, role); err != nil {
		g.logger.Warn("failed to cache role", "error", err)
	}

	// пользователь вошел, но прав не хватает: токены не трогаем
	if req == RequireAdmin && role != models.RoleAdmin {
		d := g.deny(navigate.Root, false, api.ErrForbidden)
		d.Role = role
		return d
	}

	return Decision{Status: StatusGranted, Role: role}
}

// verifyFailed - ошибка GET /user/auth
func (g *Guard) verifyFailed(err error) Decision {
	// клиент уже очистил сессию и/или перенаправил пользователя
	if redirect, ok := api.IsRedirect(err); ok {
		cleared := errors.Is(err, api.ErrSessionExpired) ||
			errors.Is(err, api.ErrUnauthorized) ||
			errors.Is(err, api.ErrBanned)
		return Decision{
			Status:   StatusDenied,
			Redirect: redirect.Target,
			Cleared:  cleared,
			Err:      err,
		}
	}

	// сеть или сервер недоступны: сессия не меняется, редиректа нет
	g.logger.Warn("session verification failed", "error", err)
	return Decision{Status: StatusDenied, Err: err}
}

func (g *Guard) clearAndDeny(ctx context.Context, cause error) Decision {
	if err := g.session.Clear(ctx); err != nil {
		g.logger.Error("failed to clear session", "error", err)
		return g.deny(navigate.Login, false, fmt.Errorf("%w (clear failed: %v)", cause, err))
	}
	return g.deny(navigate.Login, true, cause)
}

func (g *Guard) deny(target navigate.Target, cleared bool, cause error) Decision {
	g.navigator.Navigate(target)
	return Decision{
		Status:   StatusDenied,
		Redirect: target,
		Cleared:  cleared,
		Err:      cause,
	}
}

// Gate renders view only after the check grants access. While the check is
// pending the loading indicator is shown instead.
func (g *Guard) Gate(ctx context.Context, req Requirement, view func(ctx context.Context, d Decision) error) (Decision, error) {
	if req != RequireNone {
		g.loading(req)
	}

	d := g.Check(ctx, req)
	if !d.Granted() {
		if d.Err != nil {
			return d, fmt.Errorf("%w: %w", ErrDenied, d.Err)
		}
		return d, ErrDenied
	}
	return d, view(ctx, d)
}

// Watch evaluates req now and again after every session change, reporting
// StatusChecking before each evaluation. The returned func stops watching.
func (g *Guard) Watch(ctx context.Context, req Requirement, fn func(Decision)) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	changes := make(chan struct{}, 1)
	unsubscribe := g.session.Subscribe(func(session.Snapshot) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)

		// evaluate returns the snapshot the decision was made for
		evaluate := func() session.Snapshot {
			fn(Decision{Status: StatusChecking})
			before := g.session.Snapshot()
			d := g.Check(ctx, req)
			fn(d)

			switch {
			case d.Cleared:
				return session.Snapshot{State: session.StateAnonymous}
			case d.Role != "":
				return session.Snapshot{State: session.StateAuthenticated, Role: d.Role}
			default:
				return before
			}
		}

		last := evaluate()
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				// изменения, сделанные самой проверкой, повторно не оцениваются
				if g.session.Snapshot() == last {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				last = evaluate()
			}
		}
	}()

	return func() {
		unsubscribe()
		cancel()
		<-done
	}
}
