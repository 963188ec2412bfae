package revocation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/informesapp/go-auth-core/internal/errors"
	"github.com/informesapp/go-auth-core/token"
	"github.com/informesapp/go-auth-core/token/refresh/repofake"
	"github.com/informesapp/go-auth-core/token/revocation"
)

// issuerStub serves the revoked-list wire contract with a swappable set.
type issuerStub struct {
	ids  atomic.Value // []string
	fail atomic.Bool
}

func newIssuerStub() *issuerStub {
	s := &issuerStub{}
	s.ids.Store([]string{})
	return s
}

func (s *issuerStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+revocation.RevokedListPath, func(w http.ResponseWriter, r *http.Request) {
		if s.fail.Load() {
			http.Error(w, "unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(revocation.RevokedList{TokenIDs: s.ids.Load().([]string)})
	})
	return mux
}

func TestSyncOnceReplacesSnapshot(t *testing.T) {
	stub := newIssuerStub()
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	snapshot := revocation.NewSnapshot()
	syncer := revocation.NewSyncer(revocation.NewHTTPSource(srv.URL), snapshot, 30*time.Second, zerolog.Nop())

	stub.ids.Store([]string{"a", "b"})
	require.NoError(t, syncer.SyncOnce(context.Background()))
	require.True(t, snapshot.Contains("a"))
	require.True(t, snapshot.Contains("b"))

	// Upstream purge propagates as a wholesale replace.
	stub.ids.Store([]string{"b"})
	require.NoError(t, syncer.SyncOnce(context.Background()))
	require.False(t, snapshot.Contains("a"))
	require.True(t, snapshot.Contains("b"))
}

func TestSyncFailureKeepsPreviousSnapshot(t *testing.T) {
	stub := newIssuerStub()
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	snapshot := revocation.NewSnapshot()
	syncer := revocation.NewSyncer(revocation.NewHTTPSource(srv.URL), snapshot, 30*time.Second, zerolog.Nop())

	stub.ids.Store([]string{"a"})
	require.NoError(t, syncer.SyncOnce(context.Background()))

	stub.fail.Store(true)
	err := syncer.SyncOnce(context.Background())
	require.ErrorIs(t, err, errors.ErrSyncUnreachable)
	require.True(t, snapshot.Contains("a"))
}

func TestSyncUnreachableIssuer(t *testing.T) {
	snapshot := revocation.NewSnapshot()
	snapshot.Replace([]string{"a"})
	syncer := revocation.NewSyncer(revocation.NewHTTPSource("http://127.0.0.1:1"), snapshot, 30*time.Second, zerolog.Nop())

	err := syncer.SyncOnce(context.Background())
	require.ErrorIs(t, err, errors.ErrSyncUnreachable)
	require.True(t, snapshot.Contains("a"))
}

func TestRunStopsOnCancel(t *testing.T) {
	stub := newIssuerStub()
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	syncer := revocation.NewSyncer(revocation.NewHTTPSource(srv.URL), revocation.NewSnapshot(), time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		syncer.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("syncer did not stop on cancel")
	}
}

// A dependent service keeps honoring a revoked token until its next sync
// tick, then rejects it: staleness bounded by the interval, by contract.
func TestRevocationStalenessWindow(t *testing.T) {
	stub := newIssuerStub()
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	signer := token.NewHMACSigner("sync-test-secret")
	issuer := token.NewIssuer(signer, repofake.NewFakeRefreshRepo())
	snapshot := revocation.NewSnapshot()
	validator := token.NewValidator(signer, snapshot)
	syncer := revocation.NewSyncer(revocation.NewHTTPSource(srv.URL), snapshot, 30*time.Second, zerolog.Nop())

	ctx := context.Background()
	issued, err := issuer.Issue(ctx, "user-1", token.KindAccess, nil)
	require.NoError(t, err)

	// Issuer revokes, but the dependent service has not synced yet.
	stub.ids.Store([]string{issued.TokenID})
	_, err = validator.Validate(ctx, issued.Token, token.KindAccess)
	require.NoError(t, err)

	// One sync later the token is rejected everywhere.
	require.NoError(t, syncer.SyncOnce(ctx))
	_, err = validator.Validate(ctx, issued.Token, token.KindAccess)
	require.ErrorIs(t, err, errors.ErrTokenRevoked)
}
