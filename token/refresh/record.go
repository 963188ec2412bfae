// Package refresh manages the durable records behind issued refresh
// tokens. A record is created per issued refresh token and is never
// physically deleted: revocation is a one-way flag flip, retained for
// audit and idempotent re-revocation checks.
package refresh

import "time"

// Record is the stored state of one issued refresh token.
type Record struct {
	TokenID   string    // jti of the signed token
	Subject   string    // identity id the token was issued for
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// Active reports whether the record can still back a rotation at the
// given instant.
func (r *Record) Active(now time.Time) bool {
	return !r.Revoked && r.ExpiresAt.After(now)
}
