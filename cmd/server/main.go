// The notamente server: an authenticated HTTP/JSON API for notes organized
// into categories, with soft deletion and full-text search.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notamente/backend/cmd/server/handlers"
	"github.com/notamente/backend/internal/auth"
	"github.com/notamente/backend/internal/config"
	"github.com/notamente/backend/internal/db"
	"github.com/notamente/backend/internal/events"
	"github.com/notamente/backend/internal/logging"
)

func main() {
	if err := run(); err != nil {
		logging.L().WithError(err).Fatal("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(os.Stdout, cfg.LogLevel)
	log := logging.L()

	if cfg.UsingDefaultSecret() {
		log.Warn("JWT_SECRET not set; using the built-in development secret")
	}

	database, err := db.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.NewMigrator(database.DB).Up(); err != nil {
		return err
	}

	repo := db.NewRepository(database.DB)
	defer repo.Close()

	hasher := auth.NewHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(repo, hasher, tokens)
	guard := handlers.NewGuard(tokens)
	hub := events.NewHub(log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handlers.NewRouter(repo, authSvc, guard, hub, log),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
