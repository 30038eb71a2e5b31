package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/hospital-portal/internal/apiclient"
	"github.com/hackgods/hospital-portal/internal/config"
	"github.com/hackgods/hospital-portal/internal/db"
	"github.com/hackgods/hospital-portal/internal/debounce"
	"github.com/hackgods/hospital-portal/internal/logging"
	"github.com/hackgods/hospital-portal/internal/notify"
	redisclient "github.com/hackgods/hospital-portal/internal/redis"
	"github.com/hackgods/hospital-portal/internal/session"
	"github.com/hackgods/hospital-portal/internal/web"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	logging.Init("portal", cfg.Env)
	log.Info().
		Str("env", cfg.Env).
		Str("http_port", cfg.HTTPPort).
		Str("api", cfg.APIBaseURL).
		Str("sessions", cfg.SessionBackend).
		Str("alerts", cfg.NotifySource).
		Msg("portal starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Redis
	var rdb *redis.Client
	if cfg.NeedsRedis() {
		rdb, err = redisclient.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection error")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("error closing redis")
			}
		}()
		log.Info().Msg("connected to Redis")
	}

	var store session.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		store = session.NewRedisStore(rdb, cfg.SessionTTL)
	case config.SessionBackendPostgres:
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pg, closePg, err := db.OpenSessionStore(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			log.Fatal().Err(err).Msg("postgres session store")
		}
		defer closePg()
		log.Info().Msg("connected to Postgres")
		store = pg
	default:
		log.Warn().Msg("using in-memory sessions, they are lost on restart")
		store = session.NewMemoryStore()
	}

	var (
		alerts    notify.Source
		publisher web.AlertPublisher
	)
	switch cfg.NotifySource {
	case config.NotifySourceRedis:
		src := notify.NewRedisSource(rdb, cfg.NotifyChannel)
		alerts, publisher = src, src
	default:
		alerts = notify.NewSimulatedSource(cfg.NotifyInterval, nil)
	}

	search := debounce.New(cfg.SearchDebounce)
	defer search.Stop()

	// Live notification streams are closed as soon as shutdown starts; other
	// requests are left to drain.
	streams, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()

	router, err := web.NewRouter(web.RouterConfig{
		Sessions:        session.NewManager(store, cfg.CookieSecure),
		API:             apiclient.New(cfg.APIBaseURL, &http.Client{}),
		Alerts:          alerts,
		Publisher:       publisher,
		Search:          search,
		Redis:           rdb,
		Env:             cfg.Env,
		Version:         version,
		BookingRedirect: cfg.BookingRedirect,
		Streams:         streams,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(stopStreams)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("portal stopped")
}
