package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/informesapp/go-auth-core/internal/errors"
	"github.com/informesapp/go-auth-core/token"
	"github.com/informesapp/go-auth-core/token/refresh/repofake"
	"github.com/informesapp/go-auth-core/token/revocation"
)

const (
	secretStr   = "test-secret-1234"
	testSubject = "user-1"
	testEmail   = "john.doe@example.com"
)

type tokenFixture struct {
	now       time.Time
	signer    *token.HMACSigner
	refresh   *repofake.FakeRefreshRepo
	snapshot  *revocation.Snapshot
	issuer    *token.Issuer
	validator *token.Validator
}

func setupTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()

	f := &tokenFixture{
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		signer:   token.NewHMACSigner(secretStr),
		refresh:  repofake.NewFakeRefreshRepo(),
		snapshot: revocation.NewSnapshot(),
	}
	nowFunc := func() time.Time { return f.now }

	f.issuer = token.NewIssuer(f.signer, f.refresh,
		token.WithTTL(15*time.Minute, 7*24*time.Hour),
		token.WithNowFunc(nowFunc),
	)
	f.validator = token.NewValidator(f.signer, f.snapshot,
		token.WithValidatorNowFunc(nowFunc),
	)
	return f
}

func (f *tokenFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestIssueAndValidateAccessToken(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()

	issued, err := f.issuer.Issue(ctx, testSubject, token.KindAccess, map[string]any{"email": testEmail})
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	require.Len(t, issued.TokenID, 32) // 128 bits, hex-encoded
	require.Equal(t, f.now.Add(15*time.Minute), issued.ExpiresAt)

	claims, err := f.validator.Validate(ctx, issued.Token, token.KindAccess)
	require.NoError(t, err)
	require.Equal(t, testSubject, claims.Subject)
	require.Equal(t, token.KindAccess, claims.Kind)
	require.Equal(t, issued.TokenID, claims.TokenID)
	require.Equal(t, testEmail, claims.Email)
}

func TestIssueRefreshPersistsRecord(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()

	issued, err := f.issuer.Issue(ctx, testSubject, token.KindRefresh, nil)
	require.NoError(t, err)

	rec, err := f.refresh.Get(ctx, issued.TokenID)
	require.NoError(t, err)
	require.Equal(t, testSubject, rec.Subject)
	require.False(t, rec.Revoked)
	require.Equal(t, issued.ExpiresAt, rec.ExpiresAt)
}

func TestMintHasNoSideEffect(t *testing.T) {
	f := setupTokenFixture(t)

	issued, err := f.issuer.Mint(testSubject, token.KindRefresh, nil)
	require.NoError(t, err)

	_, err = f.refresh.Get(context.Background(), issued.TokenID)
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestValidateWrongKind(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()

	issued, err := f.issuer.Issue(ctx, testSubject, token.KindRefresh, nil)
	require.NoError(t, err)

	_, err = f.validator.Validate(ctx, issued.Token, token.KindAccess)
	require.ErrorIs(t, err, errors.ErrWrongTokenType)
}

func TestValidateExpired(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()

	issued, err := f.issuer.Issue(ctx, testSubject, token.KindAccess, nil)
	require.NoError(t, err)

	f.advance(16 * time.Minute)

	_, err = f.validator.Validate(ctx, issued.Token, token.KindAccess)
	require.ErrorIs(t, err, errors.ErrTokenExpired)
}

func TestValidateTamperedToken(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()

	issued, err := f.issuer.Issue(ctx, testSubject, token.KindAccess, nil)
	require.NoError(t, err)

	tampered := issued.Token[:len(issued.Token)-2] + "xx"
	_, err = f.validator.Validate(ctx, tampered, token.KindAccess)
	require.ErrorIs(t, err, errors.ErrInvalidSignature)
}

func TestValidateWrongSecret(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()

	issued, err := f.issuer.Issue(ctx, testSubject, token.KindAccess, nil)
	require.NoError(t, err)

	other := token.NewValidator(token.NewHMACSigner("another-secret"), f.snapshot,
		token.WithValidatorNowFunc(func() time.Time { return f.now }))
	_, err = other.Validate(ctx, issued.Token, token.KindAccess)
	require.ErrorIs(t, err, errors.ErrInvalidSignature)
}

func TestValidateRevoked(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()

	issued, err := f.issuer.Issue(ctx, testSubject, token.KindAccess, nil)
	require.NoError(t, err)

	f.snapshot.Replace([]string{issued.TokenID})

	_, err = f.validator.Validate(ctx, issued.Token, token.KindAccess)
	require.ErrorIs(t, err, errors.ErrTokenRevoked)
}

func TestValidateAnyKind(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()

	issued, err := f.issuer.Issue(ctx, testSubject, token.KindRefresh, nil)
	require.NoError(t, err)

	claims, err := f.validator.Validate(ctx, issued.Token, "")
	require.NoError(t, err)
	require.Equal(t, token.KindRefresh, claims.Kind)
}

func TestTokenIDsUnique(t *testing.T) {
	f := setupTokenFixture(t)

	seen := make(map[string]bool)
	for range 100 {
		issued, err := f.issuer.Mint(testSubject, token.KindAccess, nil)
		require.NoError(t, err)
		require.False(t, seen[issued.TokenID])
		seen[issued.TokenID] = true
	}
}
