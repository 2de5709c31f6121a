package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/freelancehub/internal/client/storage"
)

// Compile-time check that Storage implements storage.AuthStorage
var _ storage.AuthStorage = (*Storage)(nil)

// SaveAuth replaces all session rows in one transaction
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	if auth == nil || auth.AccessToken == "" {
		return storage.ErrInvalidAuth
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := deleteSession(ctx, tx); err != nil {
		return err
	}

	rows := []struct {
		key   string
		value string
	}{
		{storage.KeyAccessToken, auth.AccessToken},
		{storage.KeyRefreshToken, auth.RefreshToken},
		{storage.KeyRole, auth.Role},
	}
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
			row.key, row.value,
		); err != nil {
			return fmt.Errorf("failed to save %s: %w", row.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}

	return nil
}

// GetAuth retrieves stored session data
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM session WHERE key IN (?, ?, ?)`,
		storage.KeyAccessToken, storage.KeyRefreshToken, storage.KeyRole)
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	auth := &storage.AuthData{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		switch key {
		case storage.KeyAccessToken:
			auth.AccessToken = value
		case storage.KeyRefreshToken:
			auth.RefreshToken = value
		case storage.KeyRole:
			auth.Role = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if auth.AccessToken == "" {
		return nil, storage.ErrAuthNotFound
	}

	return auth, nil
}

// DeleteAuth removes tokens and role together
func (s *Storage) DeleteAuth(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := deleteSession(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to commit session delete: %w", err)
	}

	return nil
}

func deleteSession(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM session WHERE key IN (?, ?, ?)`,
		storage.KeyAccessToken, storage.KeyRefreshToken, storage.KeyRole)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
