package revocation

import (
	"context"
	"database/sql"

	"github.com/informesapp/go-auth-core/internal/errors"
)

// PostgresStore is the durable Store implementation.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Add inserts the entry; the conflict clause makes re-revocation a no-op.
func (s *PostgresStore) Add(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO revoked_tokens (token_id, reason, revoked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, entry.TokenID, entry.Reason, entry.RevokedAt); err != nil {
		return errors.Wrapf(err, "revocation.PostgresStore.Add")
	}
	return nil
}

func (s *PostgresStore) Contains(ctx context.Context, tokenID string) (bool, error) {
	query := `
		SELECT 1 FROM revoked_tokens WHERE token_id = $1
	`
	var one int
	err := s.db.QueryRowContext(ctx, query, tokenID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.Wrapf(err, "revocation.PostgresStore.Contains")
	}
	return true, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]string, error) {
	query := `
		SELECT token_id FROM revoked_tokens
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "revocation.PostgresStore.ListAll")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrapf(err, "revocation.PostgresStore.ListAll scan")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "revocation.PostgresStore.ListAll rows")
	}
	return ids, nil
}
