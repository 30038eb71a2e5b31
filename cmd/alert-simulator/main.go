package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hackgods/hospital-portal/internal/config"
	"github.com/hackgods/hospital-portal/internal/logging"
	"github.com/hackgods/hospital-portal/internal/notify"
	redisclient "github.com/hackgods/hospital-portal/internal/redis"
)

const lockName = "alert-simulator"

// alert-simulator publishes random "token called" alerts onto the Redis
// channel the portal streams to patients.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	logging.Init("alert-simulator", cfg.Env)
	log.Info().
		Str("env", cfg.Env).
		Str("channel", cfg.NotifyChannel).
		Dur("interval", cfg.NotifyInterval).
		Msg("alert simulator starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redisclient.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis")
		}
	}()
	log.Info().Msg("connected to Redis")

	sim := notify.NewSimulatedSource(cfg.NotifyInterval, nil)
	feed := notify.NewRedisSource(rdb, cfg.NotifyChannel)
	locker := redisclient.NewRedisLocker(rdb, cfg.NotifyInterval)

	ticker := time.NewTicker(cfg.NotifyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Info().Msg("shutdown signal received, stopping alert simulator")
			return
		case <-ticker.C:
			runOnce(rootCtx, sim, feed, locker)
		}
	}
}

func runOnce(ctx context.Context, sim *notify.SimulatedSource, feed *notify.RedisSource, locker redisclient.Locker) {
	err := locker.WithLock(ctx, lockName, func(ctx context.Context) error {
		msg, ok := sim.Roll()
		if !ok {
			return nil
		}
		if err := feed.Publish(ctx, msg); err != nil {
			return err
		}
		log.Info().Str("alert", msg).Msg("alert published")
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, redisclient.ErrLockNotAcquired):
		log.Debug().Msg("another simulator holds the lock, skipping tick")
	default:
		log.Error().Err(err).Msg("alert tick failed")
	}
}
