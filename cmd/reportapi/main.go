// Command reportapi is a dependent service: it never talks to the
// credential store, validating bearer tokens locally against the
// revocation snapshot its sync loop keeps in step with the issuer.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/informesapp/go-auth-core/bearer"
	"github.com/informesapp/go-auth-core/internal/config"
	"github.com/informesapp/go-auth-core/token"
	"github.com/informesapp/go-auth-core/token/revocation"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running server: %s\n", err)
	}
	log.Printf("Server stopped\n")
}

func run() error {
	c := config.New()
	if c.GetJWTSecret() == "" {
		return errors.New("JWT_SECRET is not set")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "reportapi").Logger()

	signer := token.NewHMACSigner(c.GetJWTSecret())
	snapshot := revocation.NewSnapshot()
	source := revocation.NewHTTPSource(c.GetAuthServiceURL())
	syncer := revocation.NewSyncer(source, snapshot, c.GetSyncInterval(), logger)
	validator := token.NewValidator(signer, snapshot)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// One sync before accepting traffic. In strict deployments a cold
	// issuer is fatal; otherwise we serve against an empty snapshot
	// until the loop catches up (documented staleness).
	if err := syncer.SyncOnce(ctx); err != nil {
		if c.GetStrictFirstSync() {
			return fmt.Errorf("first revocation sync: %w", err)
		}
		logger.Warn().Err(err).Msg("first revocation sync failed, serving with empty snapshot")
	}
	go syncer.Run(ctx)

	httpServer := &http.Server{Addr: c.GetPort(), Handler: newMux(validator, logger)}
	go func() {
		log.Printf("Server listening on %s\n", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("listen failed")
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newMux(validator *token.Validator, logger zerolog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := bearer.RequireAuth(validator, logger)

	mux.HandleFunc("GET /reports", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := bearer.ClaimsFromContext(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{
			"subject": claims.Subject,
			"email":   claims.Email,
			"reports": []string{},
		})
	}))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "reportapi"})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
