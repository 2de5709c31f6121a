package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/freelancehub/internal/models"
)

// ErrMalformedToken возвращается, если access token не удалось декодировать
var ErrMalformedToken = errors.New("malformed access token")

// Claims - полезная нагрузка access token, выдаваемого сервером
type Claims struct {
	jwt.RegisteredClaims
	Email string      `json:"email,omitempty"`
	Role  models.Role `json:"role"`
	ID    int         `json:"id,omitempty"`
}

// DecodeAccessToken читает claims без проверки подписи.
// Клиент не знает секрет сервера, подпись проверяет только бэкенд.
func DecodeAccessToken(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMalformedToken
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	return claims, nil
}

// Expired reports whether the token's exp claim is at or before now.
// A token without exp never expires locally.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}

// RoleOf returns the role claim of token, or "" if the token cannot be decoded.
func RoleOf(token string) models.Role {
	claims, err := DecodeAccessToken(token)
	if err != nil {
		return ""
	}
	return claims.Role
}
