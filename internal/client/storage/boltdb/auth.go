package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/freelancehub/internal/client/storage"
)

// Compile-time check that Storage implements storage.AuthStorage
var _ storage.AuthStorage = (*Storage)(nil)

var sessionKeys = [][]byte{
	[]byte(storage.KeyAccessToken),
	[]byte(storage.KeyRefreshToken),
	[]byte(storage.KeyRole),
}

// SaveAuth replaces all session keys in a single transaction
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if auth == nil || auth.AccessToken == "" {
		return storage.ErrInvalidAuth
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		values := map[string]string{
			storage.KeyAccessToken:  auth.AccessToken,
			storage.KeyRefreshToken: auth.RefreshToken,
			storage.KeyRole:         auth.Role,
		}
		for key, value := range values {
			// Пустое значение означает отсутствие ключа
			if value == "" {
				if err := bucket.Delete([]byte(key)); err != nil {
					return fmt.Errorf("failed to delete %s: %w", key, err)
				}
				continue
			}
			if err := bucket.Put([]byte(key), []byte(value)); err != nil {
				return fmt.Errorf("failed to save %s: %w", key, err)
			}
		}

		return nil
	})
}

// GetAuth retrieves stored session data
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var auth *storage.AuthData

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		// Отсутствие access token - признак неаутентифицированного клиента
		access := bucket.Get([]byte(storage.KeyAccessToken))
		if access == nil {
			return storage.ErrAuthNotFound
		}

		// bbolt values are only valid inside the transaction, copy them out
		auth = &storage.AuthData{
			AccessToken:  string(access),
			RefreshToken: string(bucket.Get([]byte(storage.KeyRefreshToken))),
			Role:         string(bucket.Get([]byte(storage.KeyRole))),
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return auth, nil
}

// DeleteAuth removes tokens and role in a single transaction
func (s *Storage) DeleteAuth(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		for _, key := range sessionKeys {
			if err := bucket.Delete(key); err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
		}

		return nil
	})
}
