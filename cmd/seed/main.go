package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinichq/clinic-management/internal/auth"
	"github.com/clinichq/clinic-management/internal/db"
	"github.com/clinichq/clinic-management/internal/user"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(context.Background(), pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	users := user.NewPgRepository(pool)

	if err := seedRoles(context.Background(), users); err != nil {
		log.Fatalf("seed roles: %v", err)
	}
	if err := seedCatalogs(context.Background(), pool); err != nil {
		log.Fatalf("seed catalogs: %v", err)
	}

	admin, err := seedUser(context.Background(), users, "Admin", "admin@clinichq.local", nil, nil, auth.RoleAdministrator)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	clinicIDs, err := seedClinics(context.Background(), pool, admin, 5)
	if err != nil {
		log.Fatalf("seed clinics: %v", err)
	}
	if err := seedDoctors(context.Background(), pool, users, clinicIDs, 20); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(context.Background(), users, 200); err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedAssistants(context.Background(), users, clinicIDs, 10); err != nil {
		log.Fatalf("seed assistants: %v", err)
	}

	log.Println("seed complete")
}

func seedRoles(ctx context.Context, users user.Repository) error {
	for slug, name := range map[string]string{
		auth.RoleAdministrator: "Administrator",
		auth.RoleDoctor:        "Doctor",
		auth.RolePatient:       "Patient",
		auth.RoleAssistant:     "Assistant",
	} {
		if _, err := users.EnsureRole(ctx, slug, name); err != nil {
			return err
		}
	}
	log.Println("roles seeded")
	return nil
}

func seedCatalogs(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for table, names := range map[string][]string{
		"specialties": {
			"Dermatology", "Cardiology", "General Practice", "Orthopedics",
			"Endocrinology", "Neurology", "Pediatrics", "Psychiatry",
		},
		"conditions": {
			"Hypertension", "Type 2 Diabetes", "Asthma", "Migraine",
			"Osteoarthritis", "Gastritis",
		},
		"surgeries": {
			"Appendectomy", "Knee Arthroscopy", "Cataract Surgery",
			"Gallbladder Removal",
		},
		"medicines": {
			"Amoxicillin", "Ibuprofen", "Metformin", "Losartan",
			"Omeprazole", "Salbutamol",
		},
		"exams": {
			"Complete Blood Count", "Chest X-Ray", "Electrocardiogram",
			"Abdominal Ultrasound", "Lipid Panel",
		},
	} {
		for _, name := range names {
			_, err := tx.Exec(ctx,
				`INSERT INTO `+table+` (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				uuid.New(), name)
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	log.Println("catalogs seeded")
	return nil
}

func seedUser(ctx context.Context, users user.Repository, name, email string, clinicID, specialtyID *uuid.UUID, roles ...string) (*user.User, error) {
	hash, err := auth.HashPassword("password123")
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:          uuid.New(),
		Name:        name,
		Email:       email,
		Password:    hash,
		ClinicID:    clinicID,
		SpecialtyID: specialtyID,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	if _, _, err := users.SyncRoles(ctx, u.ID, roles); err != nil {
		return nil, err
	}
	return u, nil
}

func seedClinics(ctx context.Context, pool *pgxpool.Pool, owner *user.User, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d clinics", count)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		_, err := pool.Exec(ctx, `
			INSERT INTO clinics (id, name, owner_id, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, id, gofakeit.Company()+" Clinic", owner.ID)
		if err != nil {
			return nil, err
		}

		_, err = pool.Exec(ctx, `
			INSERT INTO addresses (id, clinic_id, street, number, district, city, state, zip_code)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, uuid.New(), id, gofakeit.Street(), gofakeit.DigitN(3), gofakeit.City(),
			gofakeit.City(), gofakeit.StateAbr(), gofakeit.Zip())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	log.Println("clinics seeded")
	return ids, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, users user.Repository, clinicIDs []uuid.UUID, count int) error {
	log.Printf("seeding %d doctors", count)

	var specialtyID uuid.UUID
	if err := pool.QueryRow(ctx, `SELECT id FROM specialties LIMIT 1`).Scan(&specialtyID); err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		clinicID := clinicIDs[gofakeit.Number(0, len(clinicIDs)-1)]
		doctor, err := seedUser(ctx, users, gofakeit.Name(), gofakeit.Email(), &clinicID, &specialtyID, auth.RoleDoctor)
		if err != nil {
			return err
		}

		// A week of morning slots starting tomorrow.
		day := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
		for d := 0; d < 7; d++ {
			for hour := 8; hour < 12; hour++ {
				start := day.AddDate(0, 0, d).Add(time.Duration(hour) * time.Hour)
				_, err := pool.Exec(ctx, `
					INSERT INTO timetable_slots (id, doctor_id, clinic_id, start_time, scheduled, created_at, updated_at)
					VALUES ($1, $2, $3, $4, false, now(), now())
					ON CONFLICT DO NOTHING
				`, uuid.New(), doctor.ID, clinicID, start)
				if err != nil {
					return err
				}
			}
		}
	}

	log.Println("doctors seeded")
	return nil
}

func seedPatients(ctx context.Context, users user.Repository, count int) error {
	log.Printf("seeding %d patients", count)

	for i := 0; i < count; i++ {
		if _, err := seedUser(ctx, users, gofakeit.Name(), gofakeit.Email(), nil, nil, auth.RolePatient); err != nil {
			return err
		}
	}

	log.Println("patients seeded")
	return nil
}

func seedAssistants(ctx context.Context, users user.Repository, clinicIDs []uuid.UUID, count int) error {
	log.Printf("seeding %d assistants", count)

	for i := 0; i < count; i++ {
		clinicID := clinicIDs[gofakeit.Number(0, len(clinicIDs)-1)]
		if _, err := seedUser(ctx, users, gofakeit.Name(), gofakeit.Email(), &clinicID, nil, auth.RoleAssistant); err != nil {
			return err
		}
	}

	log.Println("assistants seeded")
	return nil
}
