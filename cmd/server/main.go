// Package main is the entry point for the billing API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"billing/internal/app"
	"billing/internal/config"
	v1 "billing/internal/infrastructure/http/v1"
	"billing/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting billing server")

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize application", "error", err)
	}
	defer a.Close()

	if n, err := a.Status.Seed(ctx); err != nil {
		log.Warnw("failed to seed statuses", "error", err)
	} else if n > 0 {
		log.Infow("seeded default statuses", "count", n)
	}

	if !cfg.Auth.Enabled {
		log.Warn("authentication disabled, every request runs as the development user")
	}

	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		DB:           a.Pool,
		JWTValidator: a.JWT,
		AuthEnabled:  cfg.Auth.Enabled,
		Debug:        cfg.Log.Development,
		Services: v1.Services{
			Activities:  a.Activities,
			Clients:     a.Clients,
			Areas:       a.Areas,
			Statuses:    a.Status,
			Company:     a.Company,
			Plans:       a.Plans,
			Offers:      a.Offers,
			Invoices:    a.Invoices,
			Drafts:      a.Drafts,
			Reports:     a.Reports,
			Auth:        a.Auth,
			ActivityLog: a.ActivityLog,
		},
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
