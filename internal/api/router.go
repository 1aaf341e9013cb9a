package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/clinichq/clinic-management/internal/clinic"
	"github.com/clinichq/clinic-management/internal/clinical"
	"github.com/clinichq/clinic-management/internal/consultation"
	"github.com/clinichq/clinic-management/internal/files"
	"github.com/clinichq/clinic-management/internal/timetable"
	"github.com/clinichq/clinic-management/internal/user"
)

type RouterConfig struct {
	Users         *user.Service
	Clinics       *clinic.Service
	Timetables    *timetable.Service
	Consultations *consultation.Service
	Clinical      *clinical.Service
	Files         *files.Service
	Loader        PrincipalLoader
	JWTSecret     string
	TokenTTL      time.Duration
	PgPool        *pgxpool.Pool
	Redis         *redis.Client
	Env           string
	Version       string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Post("/auth/login", loginHandler(cfg.Users, cfg.JWTSecret, cfg.TokenTTL))

	r.Group(func(r chi.Router) {
		r.Use(OptionalAuthMiddleware(cfg.Loader, cfg.JWTSecret))
		r.Post("/users", registerUserHandler(cfg.Users))
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Loader, cfg.JWTSecret))

		r.Get("/users", listUsersHandler(cfg.Users))
		r.Get("/users/{id}", getUserHandler(cfg.Users))
		r.Patch("/users/{id}", updateUserHandler(cfg.Users))
		r.Delete("/users/{id}", deleteUserHandler(cfg.Users))
		r.Put("/users/{id}/roles", syncUserRolesHandler(cfg.Users))

		r.Post("/clinics", createClinicHandler(cfg.Clinics))
		r.Get("/clinics", listClinicsHandler(cfg.Clinics))
		r.Get("/clinics/{id}", getClinicHandler(cfg.Clinics))
		r.Patch("/clinics/{id}", updateClinicHandler(cfg.Clinics))
		r.Delete("/clinics/{id}", deleteClinicHandler(cfg.Clinics))

		r.Post("/timetables", createSlotHandler(cfg.Timetables))
		r.Get("/timetables", listSlotsHandler(cfg.Timetables))
		r.Patch("/timetables/{id}", updateSlotHandler(cfg.Timetables))
		r.Delete("/timetables/{id}", deleteSlotHandler(cfg.Timetables))

		r.Post("/consultations", bookConsultationHandler(cfg.Consultations))
		r.Get("/consultations", listConsultationsHandler(cfg.Consultations))
		r.Delete("/consultations/{id}", cancelConsultationHandler(cfg.Consultations))
		r.Patch("/confirmations/consultation/{id}", confirmConsultationHandler(cfg.Consultations))

		r.Post("/diagnostics", createDiagnosticHandler(cfg.Clinical))
		r.Post("/prescriptions", createPrescriptionHandler(cfg.Clinical))
		r.Post("/referrals", createReferralHandler(cfg.Clinical))
		r.Patch("/referrals/{id}", updateReferralHandler(cfg.Clinical))
		r.Delete("/referrals/{id}", deleteReferralHandler(cfg.Clinical))
		r.Put("/consultation/{id}/exams", syncExamsHandler(cfg.Clinical))
		r.Post("/exam/results", createExamResultHandler(cfg.Clinical))
		r.Patch("/exam/results/{id}", updateExamResultHandler(cfg.Clinical))
		r.Delete("/exam/results/{id}", deleteExamResultHandler(cfg.Clinical))

		r.Post("/files", uploadFileHandler(cfg.Files))
		r.Get("/files/{id}", downloadFileHandler(cfg.Files))
		r.Delete("/files/{id}", deleteFileHandler(cfg.Files))
	})

	return r
}
