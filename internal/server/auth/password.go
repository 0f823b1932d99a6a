package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/userdir/internal/common"
)

// passwordSymbols is the fixed set of symbols the acceptance policy requires.
const passwordSymbols = "@$!%*?&"

// HashPassword produces a salted one-way digest. bcrypt generates fresh salt
// material on every call, so hashing the same plaintext twice yields
// different digests.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether plaintext matches the digest. Malformed
// digests are treated as a non-match, never an error.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// ValidatePassword enforces the acceptance policy: minimum length 8, at
// least one lowercase, one uppercase, one digit, and one symbol from
// passwordSymbols. Violations are reported as a validation failure.
func ValidatePassword(password string) error {
	var hasLower, hasUpper, hasDigit, hasSymbol bool

	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if len(password) < 8 || !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return fmt.Errorf("%w: password must be at least 8 characters long and include uppercase, lowercase, number, and special character", common.ErrValidation)
	}

	return nil
}
