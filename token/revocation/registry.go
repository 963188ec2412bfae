package revocation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Entry is one row of the append-only revocation log.
type Entry struct {
	TokenID   string
	Reason    string
	RevokedAt time.Time
}

// Store is the persistence contract for the authoritative log. Add must
// be idempotent: inserting an already-present id is a no-op, not an
// error, and an id is never removed once present.
type Store interface {
	Add(ctx context.Context, entry *Entry) error
	Contains(ctx context.Context, tokenID string) (bool, error)
	ListAll(ctx context.Context) ([]string, error)
}

// Registry is the issuing service's write path for revocation. It
// implements token.RevocationSource with authoritative (storage-backed)
// answers.
type Registry struct {
	store   Store
	log     zerolog.Logger
	nowFunc func() time.Time
}

func NewRegistry(store Store, log zerolog.Logger) *Registry {
	return &Registry{
		store:   store,
		log:     log,
		nowFunc: time.Now,
	}
}

// Revoke records tokenID as revoked. Re-revoking is a no-op.
func (r *Registry) Revoke(ctx context.Context, tokenID, reason string) error {
	if reason == "" {
		reason = "unspecified"
	}
	entry := &Entry{
		TokenID:   tokenID,
		Reason:    reason,
		RevokedAt: r.nowFunc(),
	}
	if err := r.store.Add(ctx, entry); err != nil {
		return err
	}
	r.log.Info().Str("jti", tokenID).Str("reason", reason).Msg("token revoked")
	return nil
}

// IsRevoked answers from the authoritative store.
func (r *Registry) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return r.store.Contains(ctx, tokenID)
}

// ListAll returns the full revoked set: the wire contract consumed by
// dependent services' sync loops.
func (r *Registry) ListAll(ctx context.Context) ([]string, error) {
	return r.store.ListAll(ctx)
}
