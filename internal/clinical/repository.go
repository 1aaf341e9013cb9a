package clinical

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrDiagnosticNotFound   = errors.New("diagnostic not found")
	ErrConditionNotFound    = errors.New("condition not found")
	ErrSurgeryNotFound      = errors.New("surgery not found")
	ErrMedicineNotFound     = errors.New("medicine not found")
	ErrSpecialtyNotFound    = errors.New("specialty not found")
	ErrExamNotFound         = errors.New("exam not found")
	ErrReferralNotFound     = errors.New("referral not found")
	ErrExamRequestNotFound  = errors.New("exam request not found")
	ErrExamResultNotFound   = errors.New("exam result not found")
)

type Repository interface {
	GetConsultationRef(ctx context.Context, id uuid.UUID) (*ConsultationRef, error)

	HasDiagnostic(ctx context.Context, consultationID uuid.UUID) (bool, error)
	CreateDiagnostic(ctx context.Context, d *Diagnostic) error
	GetDiagnostic(ctx context.Context, id uuid.UUID) (*Diagnostic, error)

	CreatePrescription(ctx context.Context, p *Prescription) error

	CreateReferral(ctx context.Context, r *Referral) error
	GetReferral(ctx context.Context, id uuid.UUID) (*Referral, error)
	UpdateReferral(ctx context.Context, r *Referral) error

	// SyncExamRequests reconciles the consultation's exam set to the
	// desired exam ids in one transaction and reports the change.
	// Every surviving row, kept or inserted, carries the given date.
	SyncExamRequests(ctx context.Context, consultationID uuid.UUID, examIDs []uuid.UUID, date time.Time) (added, removed []uuid.UUID, err error)
	GetExamRequest(ctx context.Context, id uuid.UUID) (*ExamRequest, error)
	ListExamRequests(ctx context.Context, consultationID uuid.UUID) ([]ExamRequest, error)

	CreateExamResult(ctx context.Context, r *ExamResult) error
	GetExamResult(ctx context.Context, id uuid.UUID) (*ExamResult, error)
	UpdateExamResult(ctx context.Context, r *ExamResult) error
	DeleteExamResult(ctx context.Context, id uuid.UUID) error

	ConditionExists(ctx context.Context, id uuid.UUID) (bool, error)
	SurgeryExists(ctx context.Context, id uuid.UUID) (bool, error)
	MedicineExists(ctx context.Context, id uuid.UUID) (bool, error)
	SpecialtyExists(ctx context.Context, id uuid.UUID) (bool, error)
	ExamsExist(ctx context.Context, ids []uuid.UUID) (bool, error)
}

// FileStore is the slice of the file service the record chain needs:
// report attachments are checked on create and cascade-deleted with
// their exam result.
type FileStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Remove(ctx context.Context, id uuid.UUID) error
}
