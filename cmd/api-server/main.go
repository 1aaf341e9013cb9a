package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clinichq/clinic-management/internal/api"
	"github.com/clinichq/clinic-management/internal/clinic"
	"github.com/clinichq/clinic-management/internal/clinical"
	"github.com/clinichq/clinic-management/internal/config"
	"github.com/clinichq/clinic-management/internal/consultation"
	"github.com/clinichq/clinic-management/internal/db"
	"github.com/clinichq/clinic-management/internal/files"
	"github.com/clinichq/clinic-management/internal/jobs"
	"github.com/clinichq/clinic-management/internal/redisclient"
	"github.com/clinichq/clinic-management/internal/timetable"
	"github.com/clinichq/clinic-management/internal/user"
)

const version = "1.0.0"

// directory adapts the user and clinic repositories to the lookup
// surface the booking flow needs.
type directory struct {
	users   user.Repository
	clinics clinic.Repository
}

func (d directory) ClinicExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return d.clinics.Exists(ctx, id)
}

func (d directory) UserRoles(ctx context.Context, id uuid.UUID) ([]string, bool, error) {
	if _, err := d.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	roles, err := d.users.UserRoles(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return roles, true, nil
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Msg("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}
	if cfg.Env == "prod" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("configuration loaded")

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

	migrateCtx, cancelMigrate := context.WithTimeout(rootCtx, 30*time.Second)
	err = db.Migrate(migrateCtx, pgPool)
	cancelMigrate()
	if err != nil {
		log.Fatal().Err(err).Msg("migration error")
	}

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

	blobStore, err := files.NewDiskStore(cfg.BlobDir)
	if err != nil {
		log.Fatal().Err(err).Msg("blob store error")
	}

	userRepo := user.NewPgRepository(pgPool)
	clinicRepo := clinic.NewPgRepository(pgPool)
	timetableRepo := timetable.NewPgRepository(pgPool)
	consultationRepo := consultation.NewPgRepository(pgPool)
	clinicalRepo := clinical.NewPgRepository(pgPool)
	fileRepo := files.NewPgRepository(pgPool)

	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	queue := jobs.NewQueue(rdb)

	fileSvc := files.NewService(fileRepo, blobStore)
	userSvc := user.NewService(userRepo)
	clinicSvc := clinic.NewService(clinicRepo)
	timetableSvc := timetable.NewService(timetableRepo)
	consultationSvc := consultation.NewService(
		consultationRepo,
		directory{users: userRepo, clinics: clinicRepo},
		locker,
		queue,
		cfg.CancelNoticeDays,
		cfg.JobAttempts,
	)
	clinicalSvc := clinical.NewService(clinicalRepo, fileSvc)

	router := api.NewRouter(api.RouterConfig{
		Users:         userSvc,
		Clinics:       clinicSvc,
		Timetables:    timetableSvc,
		Consultations: consultationSvc,
		Clinical:      clinicalSvc,
		Files:         fileSvc,
		Loader:        api.UserPrincipalLoader{Repo: userRepo},
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      cfg.TokenTTL,
		PgPool:        pgPool,
		Redis:         rdb,
		Env:           cfg.Env,
		Version:       version,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
}
