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
	"github.com/clinichq/clinic-management/internal/mail"
	"github.com/clinichq/clinic-management/internal/redisclient"
	"github.com/clinichq/clinic-management/internal/sweep"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Msg("mail-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}
	if cfg.Env == "prod" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

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
	mailer := mail.NewLogMailer(cfg.MailFrom, log.Logger)

	worker := jobs.NewWorker(rdb)
	if err := sweep.NewHandlers(repo, mailer).Register(worker); err != nil {
		log.Fatal().Err(err).Msg("handler registration error")
	}

	log.Info().Msg("consuming job queues")
	worker.Run(rootCtx)

	log.Info().Msg("mail-worker stopped")
}
