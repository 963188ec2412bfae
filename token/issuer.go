package token

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/informesapp/go-auth-core/internal/errors"
	"github.com/informesapp/go-auth-core/token/refresh"
)

// Issued is the result of minting a single token.
type Issued struct {
	Token     string // signed encoding
	TokenID   string // jti
	ExpiresAt time.Time
}

// Issuer mints signed access and refresh tokens. Issuing a refresh token
// also persists its record so rotation and logout can act on it later.
type Issuer struct {
	signer      Signer
	refreshRepo refresh.Repo
	accessTTL   time.Duration
	refreshTTL  time.Duration
	nowFunc     func() time.Time
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithTTL sets independent lifetimes for access and refresh tokens.
func WithTTL(accessTTL, refreshTTL time.Duration) IssuerOption {
	return func(i *Issuer) {
		i.accessTTL = accessTTL
		i.refreshTTL = refreshTTL
	}
}

// WithNowFunc overrides the time source (for tests).
func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

func NewIssuer(signer Signer, refreshRepo refresh.Repo, options ...IssuerOption) *Issuer {
	i := &Issuer{
		signer:      signer,
		refreshRepo: refreshRepo,
		accessTTL:   15 * time.Minute,
		refreshTTL:  7 * 24 * time.Hour,
		nowFunc:     time.Now,
	}
	for _, opt := range options {
		opt(i)
	}
	return i
}

// Issue mints a signed token of the given kind for subject. Extra claims
// ride alongside the registered set. For refresh tokens the record is
// persisted with revoked = false before the token is returned.
func (i *Issuer) Issue(ctx context.Context, subject string, kind Kind, extra map[string]any) (*Issued, error) {
	issued, err := i.Mint(subject, kind, extra)
	if err != nil {
		return nil, err
	}

	if kind == KindRefresh {
		rec := &refresh.Record{
			TokenID:   issued.TokenID,
			Subject:   subject,
			ExpiresAt: issued.ExpiresAt,
			Revoked:   false,
			CreatedAt: i.nowFunc(),
		}
		if err := i.refreshRepo.Create(ctx, rec); err != nil {
			return nil, errors.Wrapf(err, "Issuer.Issue persist refresh record")
		}
	}

	return issued, nil
}

// Mint signs a token without any storage side effect. Rotation uses it to
// build the successor record before committing the swap atomically.
func (i *Issuer) Mint(subject string, kind Kind, extra map[string]any) (*Issued, error) {
	jti := newTokenID()
	exp := i.nowFunc().Add(i.ttl(kind))

	claims := jwt.MapClaims{
		"sub":  subject,
		"type": string(kind),
		"jti":  jti,
		"exp":  exp.Unix(),
		"iat":  i.nowFunc().Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}

	signed, err := i.signer.Sign(claims)
	if err != nil {
		return nil, errors.Wrapf(err, "Issuer.Mint sign %s token", kind)
	}

	return &Issued{Token: signed, TokenID: jti, ExpiresAt: exp}, nil
}

// RefreshRecord builds the persistable record for an already-minted
// refresh token.
func (i *Issuer) RefreshRecord(issued *Issued, subject string) *refresh.Record {
	return &refresh.Record{
		TokenID:   issued.TokenID,
		Subject:   subject,
		ExpiresAt: issued.ExpiresAt,
		Revoked:   false,
		CreatedAt: i.nowFunc(),
	}
}

func (i *Issuer) ttl(kind Kind) time.Duration {
	if kind == KindRefresh {
		return i.refreshTTL
	}
	return i.accessTTL
}

// newTokenID returns a globally unique 128-bit random id, hex-encoded.
func newTokenID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
