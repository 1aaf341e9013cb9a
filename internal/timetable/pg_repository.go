package timetable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanSlot(row pgx.Row) (*Slot, error) {
	var s Slot

	err := row.Scan(
		&s.ID,
		&s.DoctorID,
		&s.ClinicID,
		&s.StartTime,
		&s.Scheduled,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &s, nil
}

const slotColumns = `id, doctor_id, clinic_id, start_time, scheduled, created_at, updated_at`

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+slotColumns+`
		FROM timetable_slots
		WHERE id = $1
	`, id)
	return scanSlot(row)
}

func (r *PgRepository) List(ctx context.Context, f Filter) ([]Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM timetable_slots
		WHERE ($1::uuid IS NULL OR doctor_id = $1)
		  AND ($2::uuid IS NULL OR clinic_id = $2)
		  AND ($3::timestamptz IS NULL OR start_time >= $3)
		  AND ($4::timestamptz IS NULL OR start_time <= $4)
		ORDER BY start_time
	`
	rows, err := r.pool.Query(ctx, query, f.DoctorID, f.ClinicID, f.From, f.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (r *PgRepository) Create(ctx context.Context, s *Slot) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO timetable_slots (id, doctor_id, clinic_id, start_time, scheduled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, now(), now())
	`, s.ID, s.DoctorID, s.ClinicID, s.StartTime)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("insert slot: %w", err)
	}
	return nil
}

func (r *PgRepository) UpdateStartTime(ctx context.Context, id uuid.UUID, startTime time.Time) (*Slot, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE timetable_slots
		SET start_time = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+slotColumns+`
	`, id, startTime)

	s, err := scanSlot(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	return s, nil
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM timetable_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
