package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/inventory/internal/app"
	"github.com/Skotchmaster/inventory/internal/config"
	"github.com/Skotchmaster/inventory/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	config.MustNonEmpty(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", "inventory")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	stores, err := app.OpenStores(ctx, cfg.StoreOptions())
	cancel()
	if err != nil {
		log.Fatalf("open stores: %v", err)
	}

	a, err := app.New(cfg, logger, stores)
	if err != nil {
		_ = stores.Close()
		log.Fatalf("init: %v", err)
	}

	if cfg.AdminPassword != "" {
		u, created, err := a.Users.SeedAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail)
		if err != nil {
			logger.Error("seed_admin_error", "error", err)
		} else if created {
			logger.Info("admin user created", "username", u.Username)
		}
	}

	runCtx, stopRun := context.WithCancel(context.Background())
	a.Start(runCtx)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.Echo,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	sig := <-stop
	logger.Info("shutting down", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	stopRun()

	if err := a.Close(); err != nil {
		logger.Error("close stores", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
