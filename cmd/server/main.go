package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/pharmvigil/medreport-be/internal/auth"
	"github.com/pharmvigil/medreport-be/internal/config"
	"github.com/pharmvigil/medreport-be/internal/models"
	"github.com/pharmvigil/medreport-be/internal/server"
	"github.com/pharmvigil/medreport-be/internal/storage"
	"github.com/pharmvigil/medreport-be/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	store, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer store.Close()

	if cfg.CreateAdmin {
		if err := seedAdmin(ctx, store, cfg); err != nil {
			log.Fatalf("seed admin: %v", err)
		}
	}

	srv := server.New(cfg, store)

	go func() {
		log.Printf("medreport backend listening on %s", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

// seedAdmin creates the configured admin account on first boot. An existing
// account with the same email is left untouched.
func seedAdmin(ctx context.Context, store storage.UserStore, cfg config.Config) error {
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	_, err = store.CreateUser(ctx, models.User{
		ID:           uuid.NewString(),
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if errors.Is(err, storage.ErrDuplicateEmail) {
		return nil
	}
	if err == nil {
		log.Printf("created admin account %s", cfg.AdminEmail)
	}
	return err
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
