package fakeapi

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iudanet/freelancehub/internal/models"
)

var errTokenExpired = errors.New("token expired")

// claims - полезная нагрузка access token, как ее выдает бэкенд
type claims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	ID    int         `json:"id"`
}

// tokenIssuer выдает и проверяет HS256 access token и случайные refresh token
type tokenIssuer struct {
	expired   map[string]bool
	secret    []byte
	issued    []string
	accessTTL time.Duration
	mu        sync.Mutex
}

func newTokenIssuer(secret string, accessTTL time.Duration) *tokenIssuer {
	return &tokenIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		expired:   make(map[string]bool),
	}
}

// issueAccess создает access token для пользователя
func (t *tokenIssuer) issueAccess(user *models.User) (string, error) {
	now := time.Now()
	jti := uuid.NewString()
	c := claims{
		Email: user.Email,
		Role:  user.Role,
		ID:    user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to create access token: %w", err)
	}

	t.mu.Lock()
	t.issued = append(t.issued, jti)
	t.mu.Unlock()
	return token, nil
}

// issueRefresh генерирует случайный refresh token
func (t *tokenIssuer) issueRefresh() (string, error) {
	// Генерируем случайные 32 байта
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(tokenBytes), nil
}

// parse проверяет подпись и срок действия access token
func (t *tokenIssuer) parse(token string) (*claims, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.expired[c.RegisteredClaims.ID] {
		return nil, errTokenExpired
	}
	return c, nil
}

// expireAll делает все выданные до сих пор access token просроченными
func (t *tokenIssuer) expireAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, jti := range t.issued {
		t.expired[jti] = true
	}
	t.issued = t.issued[:0]
}
