package clinical

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

func (r *PgRepository) GetConsultationRef(ctx context.Context, id uuid.UUID) (*ConsultationRef, error) {
	var ref ConsultationRef
	err := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id
		FROM consultations
		WHERE id = $1
	`, id).Scan(&ref.ID, &ref.DoctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}
	return &ref, nil
}

func (r *PgRepository) HasDiagnostic(ctx context.Context, consultationID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM diagnostics WHERE consultation_id = $1)
	`, consultationID).Scan(&exists)
	return exists, err
}

func (r *PgRepository) CreateDiagnostic(ctx context.Context, d *Diagnostic) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO diagnostics (id, report, consultation_id, condition_id, surgery_id, operation_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`, d.ID, d.Report, d.ConsultationID, d.ConditionID, d.SurgeryID, d.OperationDate)
	if err != nil {
		return fmt.Errorf("insert diagnostic: %w", err)
	}
	return nil
}

func (r *PgRepository) GetDiagnostic(ctx context.Context, id uuid.UUID) (*Diagnostic, error) {
	var d Diagnostic
	err := r.pool.QueryRow(ctx, `
		SELECT id, report, consultation_id, condition_id, surgery_id, operation_date, created_at
		FROM diagnostics
		WHERE id = $1
	`, id).Scan(&d.ID, &d.Report, &d.ConsultationID, &d.ConditionID, &d.SurgeryID, &d.OperationDate, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDiagnosticNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *PgRepository) CreatePrescription(ctx context.Context, p *Prescription) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO prescriptions (id, issued_on, expires_on, medicine_amount, medicine_frequency, medicine_frequency_unit, medicine_id, diagnostic_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	`, p.ID, p.IssuedOn, p.ExpiresOn, p.MedicineAmount, p.MedicineFrequency, p.MedicineFrequencyUnit, p.MedicineID, p.DiagnosticID)
	if err != nil {
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

func (r *PgRepository) CreateReferral(ctx context.Context, ref *Referral) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO referrals (id, date, specialty_id, consultation_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
	`, ref.ID, ref.Date, ref.SpecialtyID, ref.ConsultationID)
	if err != nil {
		return fmt.Errorf("insert referral: %w", err)
	}
	return nil
}

func (r *PgRepository) GetReferral(ctx context.Context, id uuid.UUID) (*Referral, error) {
	var ref Referral
	err := r.pool.QueryRow(ctx, `
		SELECT id, date, specialty_id, consultation_id
		FROM referrals
		WHERE id = $1
	`, id).Scan(&ref.ID, &ref.Date, &ref.SpecialtyID, &ref.ConsultationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	return &ref, nil
}

func (r *PgRepository) UpdateReferral(ctx context.Context, ref *Referral) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE referrals
		SET date = $2, specialty_id = $3, updated_at = now()
		WHERE id = $1
	`, ref.ID, ref.Date, ref.SpecialtyID)
	if err != nil {
		return fmt.Errorf("update referral: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReferralNotFound
	}
	return nil
}

// diffExamIDs splits the desired exam ids against the current set into
// the rows to insert, the rows that survive, and the rows to delete.
func diffExamIDs(current map[uuid.UUID]bool, desired []uuid.UUID) (added, kept, removed []uuid.UUID) {
	seen := make(map[uuid.UUID]bool, len(desired))
	for _, id := range desired {
		if seen[id] {
			continue
		}
		seen[id] = true
		if current[id] {
			kept = append(kept, id)
		} else {
			added = append(added, id)
		}
	}
	for id := range current {
		if !seen[id] {
			removed = append(removed, id)
		}
	}
	return added, kept, removed
}

// SyncExamRequests replaces the consultation's exam set wholesale:
// rows for exams no longer wanted are deleted, missing ones inserted,
// surviving ones re-stamped with the sync date, all inside one
// transaction.
func (r *PgRepository) SyncExamRequests(ctx context.Context, consultationID uuid.UUID, examIDs []uuid.UUID, date time.Time) (added, removed []uuid.UUID, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT exam_id FROM exam_requests WHERE consultation_id = $1
	`, consultationID)
	if err != nil {
		return nil, nil, err
	}

	current := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, nil, err
		}
		current[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	added, kept, removed := diffExamIDs(current, examIDs)

	for _, examID := range removed {
		_, err := tx.Exec(ctx, `
			DELETE FROM exam_requests WHERE consultation_id = $1 AND exam_id = $2
		`, consultationID, examID)
		if err != nil {
			return nil, nil, fmt.Errorf("remove exam request: %w", err)
		}
	}

	if len(kept) > 0 {
		_, err := tx.Exec(ctx, `
			UPDATE exam_requests SET date = $2 WHERE consultation_id = $1 AND exam_id = ANY($3)
		`, consultationID, date, kept)
		if err != nil {
			return nil, nil, fmt.Errorf("restamp exam requests: %w", err)
		}
	}

	for _, examID := range added {
		_, err := tx.Exec(ctx, `
			INSERT INTO exam_requests (id, date, exam_id, consultation_id)
			VALUES ($1, $2, $3, $4)
		`, uuid.New(), date, examID, consultationID)
		if err != nil {
			return nil, nil, fmt.Errorf("insert exam request: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return added, removed, nil
}

func (r *PgRepository) GetExamRequest(ctx context.Context, id uuid.UUID) (*ExamRequest, error) {
	var er ExamRequest
	err := r.pool.QueryRow(ctx, `
		SELECT id, date, exam_id, consultation_id
		FROM exam_requests
		WHERE id = $1
	`, id).Scan(&er.ID, &er.Date, &er.ExamID, &er.ConsultationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamRequestNotFound
		}
		return nil, err
	}
	return &er, nil
}

func (r *PgRepository) ListExamRequests(ctx context.Context, consultationID uuid.UUID) ([]ExamRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, date, exam_id, consultation_id
		FROM exam_requests
		WHERE consultation_id = $1
		ORDER BY date
	`, consultationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ExamRequest
	for rows.Next() {
		var er ExamRequest
		if err := rows.Scan(&er.ID, &er.Date, &er.ExamID, &er.ConsultationID); err != nil {
			return nil, err
		}
		result = append(result, er)
	}
	return result, rows.Err()
}

func (r *PgRepository) CreateExamResult(ctx context.Context, res *ExamResult) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO exam_results (id, short_report, date, exam_request_id, report_file_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`, res.ID, res.ShortReport, res.Date, res.ExamRequestID, res.ReportFileID)
	if err != nil {
		return fmt.Errorf("insert exam result: %w", err)
	}
	return nil
}

func (r *PgRepository) GetExamResult(ctx context.Context, id uuid.UUID) (*ExamResult, error) {
	var res ExamResult
	err := r.pool.QueryRow(ctx, `
		SELECT id, short_report, date, exam_request_id, report_file_id, created_at, updated_at
		FROM exam_results
		WHERE id = $1
	`, id).Scan(&res.ID, &res.ShortReport, &res.Date, &res.ExamRequestID, &res.ReportFileID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamResultNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *PgRepository) UpdateExamResult(ctx context.Context, res *ExamResult) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE exam_results
		SET short_report = $2, date = $3, report_file_id = $4, updated_at = now()
		WHERE id = $1
	`, res.ID, res.ShortReport, res.Date, res.ReportFileID)
	if err != nil {
		return fmt.Errorf("update exam result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExamResultNotFound
	}
	return nil
}

func (r *PgRepository) DeleteExamResult(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exam_results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete exam result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExamResultNotFound
	}
	return nil
}

func (r *PgRepository) ConditionExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM conditions WHERE id = $1)`, id)
}

func (r *PgRepository) SurgeryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM surgeries WHERE id = $1)`, id)
}

func (r *PgRepository) MedicineExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM medicines WHERE id = $1)`, id)
}

func (r *PgRepository) SpecialtyExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM specialties WHERE id = $1)`, id)
}

// ExamsExist reports whether every id names a known exam.
func (r *PgRepository) ExamsExist(ctx context.Context, ids []uuid.UUID) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(DISTINCT id) FROM exams WHERE id = ANY($1)
	`, ids).Scan(&count)
	if err != nil {
		return false, err
	}
	distinct := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		distinct[id] = true
	}
	return count == len(distinct), nil
}

func (r *PgRepository) exists(ctx context.Context, query string, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, query, id).Scan(&exists)
	return exists, err
}
