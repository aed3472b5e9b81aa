package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"))
	assert.NotContains(t, hash, "secret123")

	other, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salts must differ")
}

func TestCheckPassword(t *testing.T) {
	password := "testpassword123"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  error
	}{
		{"correct password", password, hash, nil},
		{"incorrect password", "wrongpassword", hash, ErrInvalidPassword},
		{"empty password", "", hash, ErrInvalidPassword},
		{"bcrypt hash", password, "$2a$10$abcdefghijklmnopqrstuv", ErrMalformedHash},
		{"garbage", password, "not-a-hash", ErrMalformedHash},
		{"bad salt", password, "$argon2id$v=19$m=19456,t=2,p=1$!!!$abcd", ErrMalformedHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPassword(tt.password, tt.hash)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
