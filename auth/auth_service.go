// Package auth composes the credential core: registration, login with
// rate limiting, refresh rotation, logout, and token validation. It is
// the surface the HTTP handlers and external collaborators call.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/informesapp/go-auth-core/internal/errors"
	"github.com/informesapp/go-auth-core/ratelimit"
	"github.com/informesapp/go-auth-core/token"
	"github.com/informesapp/go-auth-core/token/refresh"
	"github.com/informesapp/go-auth-core/token/revocation"
	"github.com/informesapp/go-auth-core/users"
)

// TokenPair bundles a short-lived access token with its long-lived
// rotating refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Repos holds the storage dependencies of the Service.
type Repos struct {
	Users   users.Repo
	Refresh refresh.Repo
}

// Service implements the issuing side of the credential core.
type Service struct {
	repos     Repos
	issuer    *token.Issuer
	validator *token.Validator
	registry  *revocation.Registry
	limiter   *ratelimit.Limiter
	log       zerolog.Logger
	nowFunc   func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithNowFunc overrides the time source (for tests).
func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

// NewService wires the service. The validator must be backed by the
// authoritative registry: the issuing service never answers revocation
// questions from a stale snapshot.
func NewService(
	repos Repos,
	issuer *token.Issuer,
	validator *token.Validator,
	registry *revocation.Registry,
	limiter *ratelimit.Limiter,
	log zerolog.Logger,
	options ...ServiceOption,
) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[NewService] Users repo is required")
	}
	if repos.Refresh == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[NewService] Refresh repo is required")
	}
	if issuer == nil || validator == nil || registry == nil || limiter == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[NewService] issuer, validator, registry and limiter are required")
	}

	s := &Service{
		repos:     repos,
		issuer:    issuer,
		validator: validator,
		registry:  registry,
		limiter:   limiter,
		log:       log,
		nowFunc:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Register creates a new identity. A duplicate email fails with
// ErrEmailTaken; the record is otherwise created immediately.
func (s *Service) Register(ctx context.Context, name, email, password string, minPasswordLen int) (*users.User, error) {
	if err := users.ValidateRegistration(name, email, password, minPasswordLen); err != nil {
		return nil, err
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, errors.Wrapf(err, "Service.Register hash")
	}

	user := &users.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login verifies credentials and mints a token pair. Attempts are gated
// on both the email and the caller's network-origin key; either window
// being full fails with ErrTooManyAttempts before credentials are
// examined.
func (s *Service) Login(ctx context.Context, email, password, origin string) (*TokenPair, error) {
	if !s.limiter.Allow("email:"+email) || !s.limiter.Allow("ip:"+origin) {
		s.log.Warn().Str("origin", origin).Msg("login rate limited")
		return nil, errors.ErrTooManyAttempts
	}

	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errors.ErrUserNotFound) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !users.CheckPassword(user.PasswordHash, password) {
		return nil, errors.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair, rotating the
// presented token. The record lookup goes to the store, not a snapshot:
// rotation is a security-sensitive mutation and must see fresh state.
// A presented token whose record is gone or already revoked fails with
// ErrRefreshReused — a replay signal worth alerting on upstream.
func (s *Service) Refresh(ctx context.Context, encodedRefresh string) (*TokenPair, error) {
	claims, err := s.validator.Validate(ctx, encodedRefresh, token.KindRefresh)
	if err != nil {
		return nil, err
	}

	rec, err := s.repos.Refresh.Get(ctx, claims.TokenID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			s.log.Warn().Str("jti", claims.TokenID).Msg("refresh replay: unknown record")
			return nil, errors.ErrRefreshReused
		}
		return nil, err
	}
	if !rec.Active(s.nowFunc()) {
		s.log.Warn().Str("jti", claims.TokenID).Str("subject", rec.Subject).Msg("refresh replay: record revoked or expired")
		return nil, errors.ErrRefreshReused
	}

	// Claims on the successor pair are always re-resolved from the
	// identity store, never copied from the presented token.
	user, err := s.repos.Users.GetByID(ctx, rec.Subject)
	if err != nil {
		return nil, err
	}

	nextRefresh, err := s.issuer.Mint(user.ID, token.KindRefresh, nil)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Refresh.Rotate(ctx, claims.TokenID, s.issuer.RefreshRecord(nextRefresh, user.ID)); err != nil {
		if errors.Is(err, errors.ErrRefreshReused) {
			s.log.Warn().Str("jti", claims.TokenID).Msg("refresh replay: lost rotation race")
		}
		return nil, err
	}

	access, err := s.issuer.Mint(user.ID, token.KindAccess, map[string]any{"email": user.Email})
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access.Token, RefreshToken: nextRefresh.Token}, nil
}

// Logout revokes the presented access token's id and, when supplied, the
// refresh token's id and record. Revocation is idempotent and final.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.validator.Validate(ctx, accessToken, token.KindAccess)
	if err != nil {
		return err
	}
	if err := s.registry.Revoke(ctx, claims.TokenID, "logout"); err != nil {
		return err
	}

	if refreshToken == "" {
		return nil
	}

	refreshClaims, err := s.validator.Decode(refreshToken)
	if err != nil {
		return err
	}
	if refreshClaims.Kind != token.KindRefresh {
		return errors.ErrWrongTokenType
	}
	if err := s.repos.Refresh.Revoke(ctx, refreshClaims.TokenID); err != nil {
		return err
	}
	return s.registry.Revoke(ctx, refreshClaims.TokenID, "logout")
}

// Validate checks an encoded token against signature, expiry, kind, and
// the authoritative registry, returning the decoded claims on success.
func (s *Service) Validate(ctx context.Context, encoded string, expectedKind token.Kind) (*token.Claims, error) {
	return s.validator.Validate(ctx, encoded, expectedKind)
}

// CurrentUser resolves the identity behind a valid access token by its
// subject id.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*users.User, error) {
	claims, err := s.validator.Validate(ctx, accessToken, token.KindAccess)
	if err != nil {
		return nil, err
	}
	return s.repos.Users.GetByID(ctx, claims.Subject)
}

// RevokedTokenIDs returns the full revoked set for the sync endpoint.
func (s *Service) RevokedTokenIDs(ctx context.Context) ([]string, error) {
	return s.registry.ListAll(ctx)
}

func (s *Service) issuePair(ctx context.Context, user *users.User) (*TokenPair, error) {
	access, err := s.issuer.Issue(ctx, user.ID, token.KindAccess, map[string]any{"email": user.Email})
	if err != nil {
		return nil, err
	}
	refreshed, err := s.issuer.Issue(ctx, user.ID, token.KindRefresh, nil)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access.Token, RefreshToken: refreshed.Token}, nil
}
