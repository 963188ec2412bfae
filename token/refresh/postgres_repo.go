package refresh

import (
	"context"
	"database/sql"

	"github.com/informesapp/go-auth-core/internal/dbx"
	"github.com/informesapp/go-auth-core/internal/errors"
)

// PostgresRepo is the durable Repo implementation over dbx.DBTX.
type PostgresRepo struct {
	db *sql.DB
}

var _ Repo = (*PostgresRepo)(nil)

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, rec *Record) error {
	return createIn(ctx, r.db, rec)
}

func (r *PostgresRepo) Get(ctx context.Context, tokenID string) (*Record, error) {
	query := `
		SELECT token_id, subject, expires_at, revoked, created_at
		FROM refresh_tokens
		WHERE token_id = $1
	`
	rec := &Record{}
	err := r.db.QueryRowContext(ctx, query, tokenID).
		Scan(&rec.TokenID, &rec.Subject, &rec.ExpiresAt, &rec.Revoked, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrapf(err, "refresh.PostgresRepo.Get")
	}
	return rec, nil
}

func (r *PostgresRepo) Revoke(ctx context.Context, tokenID string) error {
	query := `
		UPDATE refresh_tokens SET revoked = TRUE
		WHERE token_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, tokenID); err != nil {
		return errors.Wrapf(err, "refresh.PostgresRepo.Revoke")
	}
	return nil
}

// Rotate runs revoke-old and create-new inside one transaction. The
// conditional UPDATE is what makes concurrent rotations of the same
// token id yield exactly one winner: only the transaction that flips
// revoked FALSE→TRUE proceeds to insert the successor.
func (r *PostgresRepo) Rotate(ctx context.Context, oldTokenID string, next *Record) error {
	return dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		query := `
			UPDATE refresh_tokens SET revoked = TRUE
			WHERE token_id = $1 AND revoked = FALSE
		`
		res, err := tx.ExecContext(ctx, query, oldTokenID)
		if err != nil {
			return errors.Wrapf(err, "refresh.PostgresRepo.Rotate revoke")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.Wrapf(err, "refresh.PostgresRepo.Rotate rows affected")
		}
		if affected == 0 {
			return errors.ErrRefreshReused
		}
		return createIn(ctx, tx, next)
	})
}

func createIn(ctx context.Context, db dbx.DBTX, rec *Record) error {
	query := `
		INSERT INTO refresh_tokens (token_id, subject, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := db.ExecContext(ctx, query,
		rec.TokenID, rec.Subject, rec.ExpiresAt, rec.Revoked, rec.CreatedAt); err != nil {
		return errors.Wrapf(err, "refresh.PostgresRepo insert")
	}
	return nil
}
