package refresh

import "context"

// Repo is the storage contract for refresh token records.
//
// Rotate is the security-sensitive operation: implementations must make
// the revoke-of-old plus create-of-new an atomic unit, and concurrent
// rotations of the same token id must yield exactly one success — the
// rest fail with errors.ErrRefreshReused.
type Repo interface {
	// Create stores a new, non-revoked record.
	Create(ctx context.Context, rec *Record) error

	// Get returns the record for a token id, or errors.ErrNotFound.
	Get(ctx context.Context, tokenID string) (*Record, error)

	// Revoke marks the record revoked. Revoking an already-revoked or
	// absent record is not an error (logout is idempotent).
	Revoke(ctx context.Context, tokenID string) error

	// Rotate atomically revokes the record identified by oldTokenID and
	// stores next as its successor. If the old record is absent or
	// already revoked it fails with errors.ErrRefreshReused and next is
	// not stored.
	Rotate(ctx context.Context, oldTokenID string, next *Record) error
}
