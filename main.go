package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"scour/adapters/memstore"
	"scour/adapters/postgres"
	"scour/app"
	"scour/internal"
	"scour/internal/config"
	"scour/ports"
	"scour/ui"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()

	store, ready, cleanup, err := buildStore(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer cleanup()

	service := app.NewCleaningService(store)
	apiServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: ui.NewServer(service, cfg, logger).Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API server listening on %s", apiServer.Addr)
		if err := apiServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	var adminServer *http.Server
	if cfg.Admin.Enabled {
		adminServer = &http.Server{
			Addr:    ":" + cfg.Admin.Port,
			Handler: ui.NewAdminHandler(ready, logger),
		}
		g.Go(func() error {
			logger.Info("Admin server listening on %s", adminServer.Addr)
			if err := adminServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if adminServer != nil {
			_ = adminServer.Shutdown(shutdownCtx)
		}
		return apiServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// buildStore selects the session store: PostgreSQL when DATABASE_URL is set,
// otherwise in-memory. The readiness checker is nil for the memory store.
func buildStore(cfg *config.Config, logger *internal.Logger) (ports.SessionStore, ui.ReadyChecker, func(), error) {
	if cfg.Database.URL == "" {
		logger.Info("DATABASE_URL not set, sessions are kept in memory")
		return memstore.New(), nil, func() {}, nil
	}

	db, err := postgres.Connect(cfg.Database.URL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := postgres.Migrate(db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	logger.Info("Using PostgreSQL session store")
	store := postgres.NewSessionStore(db)
	return store, store, func() { db.Close() }, nil
}
