package storage

import (
	"context"
)

// Fixed keys under which the session is persisted.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyRole         = "role"
)

// AuthStorage defines interface for storing the client session durably.
// Every write replaces or removes the whole record: an access token is never
// stored next to a refresh token from another session.
type AuthStorage interface {
	// SaveAuth atomically replaces access token, refresh token and role
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves stored session data
	// Returns ErrAuthNotFound if no access token is stored
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes tokens and role together (logout, teardown)
	// Deleting an absent session is not an error
	DeleteAuth(ctx context.Context) error
}

// AuthData represents the Credential Pair plus the Cached Role.
// Role is a derived cache of the access token's role claim.
type AuthData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
}
