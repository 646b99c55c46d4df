package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrUnusablePassword is returned for passwords bcrypt cannot hash
// (empty, or longer than 72 bytes).
var ErrUnusablePassword = errors.New("password must be between 1 and 72 bytes")

// HashPassword derives a salted bcrypt hash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrUnusablePassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrUnusablePassword
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. Any mismatch or
// malformed hash yields false.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
