package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/DeborahScali/travelapp-sub000/internal/config"
	"github.com/DeborahScali/travelapp-sub000/internal/handler"
	"github.com/DeborahScali/travelapp-sub000/internal/maps"
	"github.com/DeborahScali/travelapp-sub000/internal/middleware"
	"github.com/DeborahScali/travelapp-sub000/internal/repo"
	"github.com/DeborahScali/travelapp-sub000/internal/service"
	"github.com/DeborahScali/travelapp-sub000/internal/workspace"
)

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	cmd.Flags().String("port", "8080", "TCP port to listen on (overrides PORT)")
	cmd.Flags().String("store", config.StorePostgres, "persistence backend: postgres or memory (overrides STORE)")
	return cmd
}

func serve(cfg config.Config) error {
	logger := newLogger(cfg.LogLevel)

	// --- Storage ----------------------------------------------------------
	repos, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open store", "store", cfg.Store, "error", err)
		return err
	}
	defer closeStore()

	// --- Services ---------------------------------------------------------
	mapsClient := maps.NewClient(cfg.Maps, maps.NewSlogObserver(logger))
	if !cfg.Maps.Enabled() {
		logger.Warn("MAPS_API_KEY not set; place lookups and leg computation are disabled")
	}
	spaces := workspace.NewManager(repos.Trips, repos.DayPlans, logger, cfg.AutosaveDebounce)

	srv := handler.NewServer(handler.Services{
		Trips:     service.NewTripService(repos.Trips, repos.DayPlans, spaces),
		Itinerary: service.NewItineraryService(spaces, mapsClient),
		Expenses:  service.NewExpenseService(repos.Trips, repos.Expenses),
		Flights:   service.NewFlightService(repos.Trips, repos.Flights),
		Analytics: service.NewAnalyticsService(repos.Trips, repos.DayPlans, repos.Expenses, repos.Flights, spaces),
		Export:    service.NewExportService(repos.Trips, repos.DayPlans, spaces),
	}, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → MaxBodySize.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for a maps lookup with one retry.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2*cfg.Maps.Timeout() + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", httpSrv.Addr, "store", cfg.Store)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		logger.Error("server error", "error", err)
		return err
	}
	logger.Info("shutting down server")

	// Graceful shutdown: in-flight requests get 15 seconds, then pending
	// itinerary edits are saved before the store closes.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	if err := spaces.Close(ctx); err != nil {
		logger.Error("failed to save pending itinerary edits", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

// openStore returns the repositories selected by cfg.Store and a func that
// releases them.
func openStore(cfg config.Config) (repo.Repos, func(), error) {
	if cfg.Store == config.StoreMemory {
		slog.Warn("using in-memory store; data is lost on restart")
		return repo.NewMemory(), func() {}, nil
	}

	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return repo.Repos{}, nil, fmt.Errorf("create database pool: %w", err)
	}

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return repo.Repos{}, nil, fmt.Errorf("connect to database: %w", err)
	}
	slog.Info("database connection established")
	return repo.NewPostgres(pool), pool.Close, nil
}
