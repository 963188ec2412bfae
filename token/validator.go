package token

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/informesapp/go-auth-core/internal/errors"
)

// RevocationSource answers whether a token id has been revoked. The
// issuing service backs it with the authoritative registry; dependent
// services back it with their process-local snapshot, which makes
// Validate free of network and disk I/O there.
type RevocationSource interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Validator verifies signature, expiry, kind, and revocation status.
type Validator struct {
	signer  Signer
	revoked RevocationSource
	nowFunc func() time.Time
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithValidatorNowFunc overrides the time source (for tests).
func WithValidatorNowFunc(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.nowFunc = now
	}
}

func NewValidator(signer Signer, revoked RevocationSource, options ...ValidatorOption) *Validator {
	v := &Validator{
		signer:  signer,
		revoked: revoked,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(v)
	}
	return v
}

// Validate decodes and verifies an encoded token. expectedKind may be
// empty to accept either kind. All failures map to the unauthenticated
// outcome at the transport boundary; the distinct sentinels are for
// internal logging only.
func (v *Validator) Validate(ctx context.Context, encoded string, expectedKind Kind) (*Claims, error) {
	claims, err := v.Decode(encoded)
	if err != nil {
		return nil, err
	}

	if expectedKind != "" && claims.Kind != expectedKind {
		return nil, errors.ErrWrongTokenType
	}

	isRevoked, err := v.revoked.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, errors.Wrapf(err, "Validator.Validate revocation lookup")
	}
	if isRevoked {
		return nil, errors.ErrTokenRevoked
	}

	return claims, nil
}

// Decode verifies signature and expiry only, without the revocation or
// kind checks. Logout uses it to extract the jti of the token being
// surrendered.
func (v *Validator) Decode(encoded string) (*Claims, error) {
	wire := &wireClaims{}
	parsed, err := jwt.ParseWithClaims(encoded, wire, v.signer.GetVerificationKey,
		jwt.WithTimeFunc(v.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.Wrapf(errors.ErrInvalidSignature, "%v", err)
	}
	if !parsed.Valid {
		return nil, errors.ErrInvalidSignature
	}

	return wire.toClaims(), nil
}
