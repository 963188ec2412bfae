// Command authserver runs the issuing service: it owns the credential
// store, mints and rotates token pairs, and serves the revoked-token
// list dependent services poll.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/informesapp/go-auth-core/auth"
	"github.com/informesapp/go-auth-core/internal/config"
	"github.com/informesapp/go-auth-core/migrations"
	"github.com/informesapp/go-auth-core/ratelimit"
	"github.com/informesapp/go-auth-core/server"
	"github.com/informesapp/go-auth-core/token"
	"github.com/informesapp/go-auth-core/token/refresh"
	"github.com/informesapp/go-auth-core/token/revocation"
	"github.com/informesapp/go-auth-core/users"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running server: %s\n", err)
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	if c.GetJWTSecret() == "" {
		return errors.New("JWT_SECRET is not set")
	}
	displayAppname(c.GetAppName())

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "authserver").Logger()

	db, err := sql.Open("pgx", c.GetDatabaseDSN())
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer db.Close()

	if c.GetRunMigrations() {
		if err := migrations.Up(context.Background(), db); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	signer := token.NewHMACSigner(c.GetJWTSecret())
	refreshRepo := refresh.NewPostgresRepo(db)
	userRepo := users.NewPostgresRepo(db)
	registry := revocation.NewRegistry(revocation.NewPostgresStore(db), logger)

	issuer := token.NewIssuer(signer, refreshRepo,
		token.WithTTL(c.GetAccessTokenTTL(), c.GetRefreshTokenTTL()))
	validator := token.NewValidator(signer, registry)
	limiter := ratelimit.New(c.GetLoginMaxAttempts(), c.GetLoginWindow())

	authService, err := auth.NewService(
		auth.Repos{Users: userRepo, Refresh: refreshRepo},
		issuer, validator, registry, limiter, logger,
	)
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: server.New(c, authService, logger)}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("server.ListenAndServe: %v\n", err)
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
