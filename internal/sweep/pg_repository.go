package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const detailQuery = `
	SELECT c.id, c.start_time, c.confirmed,
	       d.id, d.name, d.email, ds.name,
	       p.id, p.name, p.email,
	       k.id, k.name,
	       o.id, o.name, o.email
	FROM consultations c
	JOIN users d ON d.id = c.doctor_id
	LEFT JOIN specialties ds ON ds.id = d.specialty_id
	JOIN users p ON p.id = c.patient_id
	JOIN clinics k ON k.id = c.clinic_id
	JOIN users o ON o.id = k.owner_id
`

func scanDetail(row pgx.Row) (*ConsultationDetail, error) {
	var d ConsultationDetail
	err := row.Scan(
		&d.ID, &d.StartTime, &d.Confirmed,
		&d.Doctor.ID, &d.Doctor.Name, &d.Doctor.Email, &d.Doctor.Specialty,
		&d.Patient.ID, &d.Patient.Name, &d.Patient.Email,
		&d.Clinic.ID, &d.Clinic.Name,
		&d.Clinic.Owner.ID, &d.Clinic.Owner.Name, &d.Clinic.Owner.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *PgRepository) ListInWindow(ctx context.Context, from, to time.Time) ([]ConsultationDetail, error) {
	return r.list(ctx, detailQuery+`
		WHERE c.start_time BETWEEN $1 AND $2
		ORDER BY c.start_time
	`, from, to)
}

func (r *PgRepository) ListUnconfirmedInWindow(ctx context.Context, from, to time.Time) ([]ConsultationDetail, error) {
	return r.list(ctx, detailQuery+`
		WHERE c.start_time BETWEEN $1 AND $2
		  AND c.confirmed = false
		ORDER BY c.start_time
	`, from, to)
}

func (r *PgRepository) list(ctx context.Context, query string, args ...any) ([]ConsultationDetail, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ConsultationDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, rows.Err()
}

func (r *PgRepository) GetDetail(ctx context.Context, id uuid.UUID) (*ConsultationDetail, error) {
	row := r.pool.QueryRow(ctx, detailQuery+` WHERE c.id = $1`, id)
	return scanDetail(row)
}

func (r *PgRepository) DeleteConsultation(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM consultations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete consultation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConsultationNotFound
	}
	return nil
}
