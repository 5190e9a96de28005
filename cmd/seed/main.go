// Command seed creates the initial admin account and exits.
package main

import (
	"context"
	"log"
	"os"
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
	password := cfg.AdminPassword
	if password == "" {
		password = "admin123"
	}

	logger := logging.New(cfg.LogLevel).With("cmd", "seed")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, err := app.OpenStores(ctx, cfg.StoreOptions())
	if err != nil {
		log.Fatalf("open stores: %v", err)
	}
	defer stores.Close()

	users := app.NewUserService(stores)
	u, created, err := users.SeedAdmin(ctx, cfg.AdminUsername, password, cfg.AdminEmail)
	if err != nil {
		logger.Error("error creating admin user", "error", err)
		_ = stores.Close()
		os.Exit(1)
	}
	if !created {
		logger.Info("admin user already exists", "username", u.Username)
		return
	}
	logger.Info("admin user created successfully", "username", u.Username, "email", u.Email, "role", u.Role)
}
