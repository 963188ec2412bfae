// Package users owns the identity records the credential core issues
// tokens for: created at registration, read at login, never deleted by
// this core.
package users

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/informesapp/go-auth-core/internal/errors"
)

// User is an identity record.
type User struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-"` // never serialize
}

// HashPassword derives the stored hash from a plaintext password.
// bcrypt is the single KDF for every service in the system.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("users.HashPassword: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidateRegistration checks the registration fields before a user is
// created. Failures wrap errors.ErrValidation so handlers can map them
// to a bad-request response.
func ValidateRegistration(name, email, password string, minPasswordLen int) error {
	if name == "" {
		return fmt.Errorf("name is required: %w", errors.ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("a valid email is required: %w", errors.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters long: %w", minPasswordLen, errors.ErrValidation)
	}
	return nil
}
