// Package token implements the credential core's token capability:
// signing and verification, issuance of access/refresh pairs, and
// non-blocking validation against a local revocation source.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind distinguishes the two token types the core mints.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the decoded, verified content of a token.
// Claims are never persisted; they are reconstructed per token.
type Claims struct {
	Subject   string    // identity id the token was issued for
	Kind      Kind      // access or refresh
	TokenID   string    // jti, opaque unique identifier
	Email     string    // optional identity claim carried on access tokens
	ExpiresAt time.Time // expiry (exp)
}

// wireClaims is the JWT encoding of Claims. The registered claims carry
// sub/jti/exp; type and email ride alongside.
type wireClaims struct {
	jwt.RegisteredClaims
	Type  string `json:"type"`
	Email string `json:"email,omitempty"`
}

func (w *wireClaims) toClaims() *Claims {
	c := &Claims{
		Subject: w.Subject,
		Kind:    Kind(w.Type),
		TokenID: w.ID,
		Email:   w.Email,
	}
	if w.ExpiresAt != nil {
		c.ExpiresAt = w.ExpiresAt.Time
	}
	return c
}
