package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clinichq/clinic-management/internal/config"
	"github.com/clinichq/clinic-management/internal/db"
	"github.com/clinichq/clinic-management/internal/jobs"
	"github.com/clinichq/clinic-management/internal/redisclient"
	"github.com/clinichq/clinic-management/internal/sweep"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Msg("sweep-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}
	if cfg.Env == "prod" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	log.Info().Str("env", cfg.Env).Dur("interval", cfg.SweepInterval).Msg("configuration loaded")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.NewPool(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	rdb, err := redisclient.New(cfg.RedisAddr, cfg.RedisUser, cfg.RedisPass)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis")
		}
	}()
	log.Info().Msg("connected to Redis")

	repo := sweep.NewPgRepository(pgPool)
	queue := jobs.NewQueue(rdb)
	sweeper := sweep.NewSweeper(repo, queue, cfg.ReminderOffsetDays, cfg.AutoCancelOffsetDays, cfg.JobAttempts)

	// Run once at startup, then re-arm a fixed delay after each run
	// completes so overlapping sweeps cannot happen.
	for {
		runOnce(rootCtx, sweeper)

		select {
		case <-rootCtx.Done():
			log.Info().Msg("shutdown signal received, stopping sweep worker")
			return
		case <-time.After(cfg.SweepInterval):
		}
	}
}

func runOnce(ctx context.Context, sweeper *sweep.Sweeper) {
	runCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	start := time.Now()
	if err := sweeper.RunDailySweeps(runCtx, start); err != nil {
		log.Error().Err(err).Msg("sweep run error")
		return
	}
	log.Info().Dur("took", time.Since(start)).Msg("sweep run complete")
}
