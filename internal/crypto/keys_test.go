package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt1, SaltSize, "salt должен быть %d bytes", SaltSize)

	salt2, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt1, salt2, "соли должны различаться")
}

func TestLoadOrCreateSalt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.salt")

	created, err := LoadOrCreateSalt(path)
	require.NoError(t, err)
	assert.Len(t, created, SaltSize)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Повторный вызов возвращает ту же соль
	loaded, err := LoadOrCreateSalt(path)
	require.NoError(t, err)
	assert.Equal(t, created, loaded)
}

func TestLoadOrCreateSalt_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.salt")
	require.NoError(t, os.WriteFile(path, []byte("short"), 0600))

	_, err := LoadOrCreateSalt(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupted")
}

func TestDeriveStorageKey(t *testing.T) {
	salt := make([]byte, SaltSize)

	tests := []struct {
		name       string
		passphrase string
		salt       []byte
		wantErr    bool
	}{
		{name: "valid", passphrase: "correct horse", salt: salt},
		{name: "empty passphrase", passphrase: "", salt: salt, wantErr: true},
		{name: "short salt", passphrase: "correct horse", salt: []byte{1, 2, 3}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DeriveStorageKey(tt.passphrase, tt.salt)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, key)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, KeySize)
		})
	}
}

func TestDeriveStorageKey_Deterministic(t *testing.T) {
	salt := make([]byte, SaltSize)
	k1, err := DeriveStorageKey("pass", salt)
	require.NoError(t, err)
	k2, err := DeriveStorageKey("pass", salt)
	require.NoError(t, err)
	k3, err := DeriveStorageKey("other", salt)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}
