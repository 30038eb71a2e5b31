package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/hospital-portal/internal/apiclient"
	"github.com/hackgods/hospital-portal/internal/config"
	"github.com/hackgods/hospital-portal/internal/logging"
	"github.com/hackgods/hospital-portal/internal/seed"
)

// seed registers demo staff and patient accounts through the hospital API,
// signed in as an existing admin.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}
	logging.Init("seed", cfg.Env)

	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal().Msg("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}
	password := getEnv("SEED_PASSWORD", "password123")
	patients := getInt("SEED_PATIENTS", 20)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	api := apiclient.New(cfg.APIBaseURL, &http.Client{Timeout: 10 * time.Second})
	adminCtx, err := seed.SignIn(ctx, api, adminEmail, adminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("sign in")
	}

	accounts := seed.Accounts(gofakeit.New(0), password, patients)
	log.Info().Int("accounts", len(accounts)).Msg("seeding accounts")

	res, err := seed.Run(adminCtx, api, accounts)
	if err != nil {
		log.Fatal().Err(err).Int("created", res.Created).Msg("seed aborted")
	}
	log.Info().Int("created", res.Created).Int("failed", res.Failed).Msg("seed complete")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		log.Warn().Str("key", key).Str("value", v).Int("default", fallback).Msg("invalid int, using default")
	}
	return fallback
}
