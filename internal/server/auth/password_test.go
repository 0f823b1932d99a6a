package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/userdir/internal/common"
)

func TestHashAndVerifyPassword(t *testing.T) {
	digest, err := HashPassword("Secur3!ty")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("Secur3!ty", digest))
	assert.False(t, VerifyPassword("secur3!ty", digest))
	assert.False(t, VerifyPassword("", digest))
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	a, err := HashPassword("Secur3!ty")
	require.NoError(t, err)
	b, err := HashPassword("Secur3!ty")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "same plaintext must hash to different digests")
	assert.True(t, VerifyPassword("Secur3!ty", a))
	assert.True(t, VerifyPassword("Secur3!ty", b))
}

func TestVerifyPassword_MalformedDigest(t *testing.T) {
	assert.False(t, VerifyPassword("Secur3!ty", "not-a-bcrypt-digest"))
	assert.False(t, VerifyPassword("Secur3!ty", ""))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Secur3!ty", true},
		{"too short", "Ab1!", false},
		{"no uppercase", "secur3!ty", false},
		{"no lowercase", "SECUR3!TY", false},
		{"no digit", "Secure!ty", false},
		{"no symbol", "Secur3ity", false},
		{"symbol outside the allowed set", "Secur3#ty", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, common.ErrValidation), "got %v", err)
			}
		})
	}
}
