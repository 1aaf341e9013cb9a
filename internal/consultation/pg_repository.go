package consultation

import (
	"context"
	"errors"
	"fmt"

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

func scanConsultation(row pgx.Row) (*Consultation, error) {
	var c Consultation

	err := row.Scan(
		&c.ID,
		&c.StartTime,
		&c.IsReturn,
		&c.Confirmed,
		&c.ClinicID,
		&c.DoctorID,
		&c.PatientID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}

	return &c, nil
}

const consultationColumns = `id, start_time, is_return, confirmed, clinic_id, doctor_id, patient_id, created_at, updated_at`

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+consultationColumns+`
		FROM consultations
		WHERE id = $1
	`, id)
	return scanConsultation(row)
}

// List filters consultations. Omitted time bounds fall back to the
// min/max start time over the whole table.
func (r *PgRepository) List(ctx context.Context, f Filter) ([]Consultation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+consultationColumns+`
		FROM consultations
		WHERE ($1::uuid IS NULL OR doctor_id = $1)
		  AND ($2::uuid IS NULL OR clinic_id = $2)
		  AND ($3::uuid IS NULL OR patient_id = $3)
		  AND ($4::boolean IS NULL OR is_return = $4)
		  AND start_time >= COALESCE($5::timestamptz, (SELECT min(start_time) FROM consultations))
		  AND start_time <= COALESCE($6::timestamptz, (SELECT max(start_time) FROM consultations))
		ORDER BY start_time
	`, f.DoctorID, f.ClinicID, f.PatientID, f.IsReturn, f.From, f.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

// Book runs the critical section: the slot row is locked, re-checked
// and flipped in the same transaction that inserts the consultation,
// so two concurrent bookings can never both observe a free slot.
func (r *PgRepository) Book(ctx context.Context, c *Consultation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var slotID uuid.UUID
	var scheduled bool
	err = tx.QueryRow(ctx, `
		SELECT id, scheduled
		FROM timetable_slots
		WHERE doctor_id = $1 AND start_time = $2
		FOR UPDATE
	`, c.DoctorID, c.StartTime).Scan(&slotID, &scheduled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDateNotAvailable
		}
		return fmt.Errorf("lock slot: %w", err)
	}
	if scheduled {
		return ErrAlreadyScheduled
	}

	_, err = tx.Exec(ctx, `
		UPDATE timetable_slots
		SET scheduled = true, updated_at = now()
		WHERE id = $1
	`, slotID)
	if err != nil {
		return fmt.Errorf("mark slot scheduled: %w", err)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO consultations (id, start_time, is_return, confirmed, clinic_id, doctor_id, patient_id, created_at, updated_at)
		VALUES ($1, $2, $3, false, $4, $5, $6, now(), now())
		RETURNING `+consultationColumns+`
	`, c.ID, c.StartTime, c.IsReturn, c.ClinicID, c.DoctorID, c.PatientID)

	inserted, err := scanConsultation(row)
	if err != nil {
		return fmt.Errorf("insert consultation: %w", err)
	}
	*c = *inserted

	return tx.Commit(ctx)
}

// Cancel removes the consultation and frees the slot it claimed,
// matched by (doctor id, start time), in one transaction.
func (r *PgRepository) Cancel(ctx context.Context, c *Consultation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM consultations WHERE id = $1`, c.ID)
	if err != nil {
		return fmt.Errorf("delete consultation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConsultationNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE timetable_slots
		SET scheduled = false, updated_at = now()
		WHERE doctor_id = $1 AND start_time = $2
	`, c.DoctorID, c.StartTime)
	if err != nil {
		return fmt.Errorf("free slot: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PgRepository) SetConfirmed(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE consultations
		SET confirmed = true, updated_at = now()
		WHERE id = $1
		RETURNING `+consultationColumns+`
	`, id)
	return scanConsultation(row)
}
