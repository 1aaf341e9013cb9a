package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema. Every statement is idempotent so the
// bootstrap can run on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id         uuid PRIMARY KEY,
		slug       text NOT NULL UNIQUE,
		name       text NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS permissions (
		id         uuid PRIMARY KEY,
		slug       text NOT NULL UNIQUE,
		name       text NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS role_permissions (
		role_id       uuid NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
		permission_id uuid NOT NULL REFERENCES permissions(id) ON DELETE CASCADE,
		PRIMARY KEY (role_id, permission_id)
	)`,
	`CREATE TABLE IF NOT EXISTS files (
		id          uuid PRIMARY KEY,
		stored_name text NOT NULL,
		name        text NOT NULL,
		type        text NOT NULL,
		subtype     text NOT NULL,
		created_at  timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS specialties (
		id   uuid PRIMARY KEY,
		name text NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id             uuid PRIMARY KEY,
		name           text NOT NULL,
		email          text NOT NULL UNIQUE,
		password       text NOT NULL,
		clinic_id      uuid,
		specialty_id   uuid REFERENCES specialties(id),
		avatar_file_id uuid REFERENCES files(id),
		created_at     timestamptz NOT NULL DEFAULT now(),
		updated_at     timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role_id uuid NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, role_id)
	)`,
	`CREATE TABLE IF NOT EXISTS clinics (
		id         uuid PRIMARY KEY,
		name       text NOT NULL,
		owner_id   uuid NOT NULL REFERENCES users(id),
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id        uuid PRIMARY KEY,
		clinic_id uuid NOT NULL UNIQUE REFERENCES clinics(id) ON DELETE CASCADE,
		street    text NOT NULL,
		number    text NOT NULL,
		district  text NOT NULL,
		city      text NOT NULL,
		state     text NOT NULL,
		zip_code  text NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS timetable_slots (
		id         uuid PRIMARY KEY,
		doctor_id  uuid NOT NULL REFERENCES users(id),
		clinic_id  uuid NOT NULL REFERENCES clinics(id),
		start_time timestamptz NOT NULL,
		scheduled  boolean NOT NULL DEFAULT false,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now(),
		UNIQUE (doctor_id, start_time)
	)`,
	`CREATE TABLE IF NOT EXISTS consultations (
		id         uuid PRIMARY KEY,
		start_time timestamptz NOT NULL,
		is_return  boolean NOT NULL DEFAULT false,
		confirmed  boolean NOT NULL DEFAULT false,
		clinic_id  uuid NOT NULL REFERENCES clinics(id),
		doctor_id  uuid NOT NULL REFERENCES users(id),
		patient_id uuid NOT NULL REFERENCES users(id),
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_consultations_start_time ON consultations (start_time)`,
	`CREATE TABLE IF NOT EXISTS conditions (
		id   uuid PRIMARY KEY,
		name text NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS surgeries (
		id   uuid PRIMARY KEY,
		name text NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS medicines (
		id              uuid PRIMARY KEY,
		name            text NOT NULL,
		leaflet_file_id uuid REFERENCES files(id)
	)`,
	`CREATE TABLE IF NOT EXISTS exams (
		id   uuid PRIMARY KEY,
		name text NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS diagnostics (
		id              uuid PRIMARY KEY,
		report          text NOT NULL,
		consultation_id uuid NOT NULL UNIQUE REFERENCES consultations(id) ON DELETE CASCADE,
		condition_id    uuid NOT NULL REFERENCES conditions(id),
		surgery_id      uuid REFERENCES surgeries(id),
		operation_date  timestamptz,
		created_at      timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS prescriptions (
		id                      uuid PRIMARY KEY,
		issued_on               timestamptz NOT NULL,
		expires_on              timestamptz NOT NULL,
		medicine_amount         integer NOT NULL,
		medicine_frequency      integer NOT NULL,
		medicine_frequency_unit text NOT NULL,
		medicine_id             uuid NOT NULL REFERENCES medicines(id),
		diagnostic_id           uuid NOT NULL REFERENCES diagnostics(id) ON DELETE CASCADE,
		created_at              timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS referrals (
		id              uuid PRIMARY KEY,
		date            timestamptz NOT NULL,
		specialty_id    uuid NOT NULL REFERENCES specialties(id),
		consultation_id uuid NOT NULL REFERENCES consultations(id) ON DELETE CASCADE,
		created_at      timestamptz NOT NULL DEFAULT now(),
		updated_at      timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS exam_requests (
		id              uuid PRIMARY KEY,
		date            timestamptz NOT NULL,
		exam_id         uuid NOT NULL REFERENCES exams(id),
		consultation_id uuid NOT NULL REFERENCES consultations(id) ON DELETE CASCADE,
		UNIQUE (consultation_id, exam_id)
	)`,
	`CREATE TABLE IF NOT EXISTS exam_results (
		id              uuid PRIMARY KEY,
		short_report    text NOT NULL,
		date            timestamptz NOT NULL,
		exam_request_id uuid NOT NULL REFERENCES exam_requests(id) ON DELETE CASCADE,
		report_file_id  uuid REFERENCES files(id),
		created_at      timestamptz NOT NULL DEFAULT now(),
		updated_at      timestamptz NOT NULL DEFAULT now()
	)`,
}
