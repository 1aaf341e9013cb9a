package clinical

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinichq/clinic-management/internal/auth"
)

var (
	ErrNotConsultationDoctor = errors.New("only the consultation's doctor may do this")
	ErrDiagnosticExists      = errors.New("diagnostic already exists")
	ErrOperationDateRequired = errors.New("operation date is required when a surgery is given")
	ErrExpiresInPast         = errors.New("expiry date must not be in the past")
	ErrInvalidAmount         = errors.New("medicine amount must be positive")
	ErrInvalidFrequency      = errors.New("medicine frequency must be positive")
	ErrInvalidFrequencyUnit  = errors.New("medicine frequency unit is invalid")
	ErrExamsRequired         = errors.New("exams are required")
	ErrReportFileNotFound    = errors.New("report file not found")
)

type Service struct {
	repo  Repository
	files FileStore
	now   func() time.Time
}

func NewService(repo Repository, files FileStore) *Service {
	return &Service{repo: repo, files: files, now: time.Now}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// guardDoctor resolves the consultation and rejects any requester who
// is not its doctor. Every mutation in the record chain goes through
// this, directly or via diagnostic/exam-request resolution.
func (s *Service) guardDoctor(ctx context.Context, consultationID, requesterID uuid.UUID) (*ConsultationRef, error) {
	ref, err := s.repo.GetConsultationRef(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if ref.DoctorID != requesterID {
		return nil, ErrNotConsultationDoctor
	}
	return ref, nil
}

type DiagnosticInput struct {
	Report         string
	ConsultationID uuid.UUID
	ConditionID    uuid.UUID
	SurgeryID      *uuid.UUID
	OperationDate  *time.Time
}

func (s *Service) CreateDiagnostic(ctx context.Context, requester auth.Principal, in DiagnosticInput) (*Diagnostic, error) {
	if _, err := s.guardDoctor(ctx, in.ConsultationID, requester.ID); err != nil {
		return nil, err
	}

	exists, err := s.repo.HasDiagnostic(ctx, in.ConsultationID)
	if err != nil {
		return nil, fmt.Errorf("check diagnostic: %w", err)
	}
	if exists {
		return nil, ErrDiagnosticExists
	}

	ok, err := s.repo.ConditionExists(ctx, in.ConditionID)
	if err != nil {
		return nil, fmt.Errorf("load condition: %w", err)
	}
	if !ok {
		return nil, ErrConditionNotFound
	}

	if in.SurgeryID != nil {
		ok, err := s.repo.SurgeryExists(ctx, *in.SurgeryID)
		if err != nil {
			return nil, fmt.Errorf("load surgery: %w", err)
		}
		if !ok {
			return nil, ErrSurgeryNotFound
		}
		if in.OperationDate == nil {
			return nil, ErrOperationDateRequired
		}
	}

	d := &Diagnostic{
		ID:             uuid.New(),
		Report:         in.Report,
		ConsultationID: in.ConsultationID,
		ConditionID:    in.ConditionID,
		SurgeryID:      in.SurgeryID,
		OperationDate:  in.OperationDate,
	}
	if err := s.repo.CreateDiagnostic(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

type PrescriptionInput struct {
	ExpiresOn             time.Time
	MedicineAmount        int
	MedicineFrequency     int
	MedicineFrequencyUnit FrequencyUnit
	MedicineID            uuid.UUID
	DiagnosticID          uuid.UUID
}

func (s *Service) CreatePrescription(ctx context.Context, requester auth.Principal, in PrescriptionInput) (*Prescription, error) {
	d, err := s.repo.GetDiagnostic(ctx, in.DiagnosticID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guardDoctor(ctx, d.ConsultationID, requester.ID); err != nil {
		return nil, err
	}

	ok, err := s.repo.MedicineExists(ctx, in.MedicineID)
	if err != nil {
		return nil, fmt.Errorf("load medicine: %w", err)
	}
	if !ok {
		return nil, ErrMedicineNotFound
	}

	now := s.now()
	if in.ExpiresOn.Before(now) {
		return nil, ErrExpiresInPast
	}
	if in.MedicineAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.MedicineFrequency <= 0 {
		return nil, ErrInvalidFrequency
	}
	if !in.MedicineFrequencyUnit.Valid() {
		return nil, ErrInvalidFrequencyUnit
	}

	p := &Prescription{
		ID:                    uuid.New(),
		IssuedOn:              now,
		ExpiresOn:             in.ExpiresOn,
		MedicineAmount:        in.MedicineAmount,
		MedicineFrequency:     in.MedicineFrequency,
		MedicineFrequencyUnit: in.MedicineFrequencyUnit,
		MedicineID:            in.MedicineID,
		DiagnosticID:          in.DiagnosticID,
	}
	if err := s.repo.CreatePrescription(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) CreateReferral(ctx context.Context, requester auth.Principal, consultationID, specialtyID uuid.UUID) (*Referral, error) {
	if _, err := s.guardDoctor(ctx, consultationID, requester.ID); err != nil {
		return nil, err
	}

	ok, err := s.repo.SpecialtyExists(ctx, specialtyID)
	if err != nil {
		return nil, fmt.Errorf("load specialty: %w", err)
	}
	if !ok {
		return nil, ErrSpecialtyNotFound
	}

	ref := &Referral{
		ID:             uuid.New(),
		Date:           s.now(),
		SpecialtyID:    specialtyID,
		ConsultationID: consultationID,
	}
	if err := s.repo.CreateReferral(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *Service) UpdateReferral(ctx context.Context, requester auth.Principal, id, specialtyID uuid.UUID) (*Referral, error) {
	ref, err := s.repo.GetReferral(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.guardDoctor(ctx, ref.ConsultationID, requester.ID); err != nil {
		return nil, err
	}

	ok, err := s.repo.SpecialtyExists(ctx, specialtyID)
	if err != nil {
		return nil, fmt.Errorf("load specialty: %w", err)
	}
	if !ok {
		return nil, ErrSpecialtyNotFound
	}

	ref.SpecialtyID = specialtyID
	ref.Date = s.now()
	if err := s.repo.UpdateReferral(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// DeleteReferral authorizes the request but does not remove anything.
// TODO: wire actual deletion once the destroy semantics are settled.
func (s *Service) DeleteReferral(ctx context.Context, requester auth.Principal, id uuid.UUID) error {
	ref, err := s.repo.GetReferral(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.guardDoctor(ctx, ref.ConsultationID, requester.ID); err != nil {
		return err
	}
	log.Warn().Str("referral_id", id.String()).Msg("referral delete requested, no-op")
	return nil
}

// SyncExams replaces the consultation's requested exam set wholesale.
func (s *Service) SyncExams(ctx context.Context, requester auth.Principal, consultationID uuid.UUID, examIDs []uuid.UUID) (added, removed []uuid.UUID, err error) {
	if examIDs == nil {
		return nil, nil, ErrExamsRequired
	}
	if _, err := s.guardDoctor(ctx, consultationID, requester.ID); err != nil {
		return nil, nil, err
	}

	ok, err := s.repo.ExamsExist(ctx, examIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load exams: %w", err)
	}
	if !ok {
		return nil, nil, ErrExamNotFound
	}

	return s.repo.SyncExamRequests(ctx, consultationID, examIDs, s.now())
}

type ExamResultInput struct {
	ShortReport   string
	ExamRequestID uuid.UUID
	ReportFileID  *uuid.UUID
}

func (s *Service) guardExamRequest(ctx context.Context, examRequestID, requesterID uuid.UUID) (*ExamRequest, error) {
	er, err := s.repo.GetExamRequest(ctx, examRequestID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guardDoctor(ctx, er.ConsultationID, requesterID); err != nil {
		return nil, err
	}
	return er, nil
}

func (s *Service) CreateExamResult(ctx context.Context, requester auth.Principal, in ExamResultInput) (*ExamResult, error) {
	if _, err := s.guardExamRequest(ctx, in.ExamRequestID, requester.ID); err != nil {
		return nil, err
	}
	if err := s.checkReportFile(ctx, in.ReportFileID); err != nil {
		return nil, err
	}

	res := &ExamResult{
		ID:            uuid.New(),
		ShortReport:   in.ShortReport,
		Date:          s.now(),
		ExamRequestID: in.ExamRequestID,
		ReportFileID:  in.ReportFileID,
	}
	if err := s.repo.CreateExamResult(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) UpdateExamResult(ctx context.Context, requester auth.Principal, id uuid.UUID, in ExamResultInput) (*ExamResult, error) {
	res, err := s.repo.GetExamResult(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.guardExamRequest(ctx, res.ExamRequestID, requester.ID); err != nil {
		return nil, err
	}
	if err := s.checkReportFile(ctx, in.ReportFileID); err != nil {
		return nil, err
	}

	res.ShortReport = in.ShortReport
	res.Date = s.now()
	if in.ReportFileID != nil {
		res.ReportFileID = in.ReportFileID
	}
	if err := s.repo.UpdateExamResult(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// DeleteExamResult removes the result and cascades to its attached
// report file, row and bytes both.
func (s *Service) DeleteExamResult(ctx context.Context, requester auth.Principal, id uuid.UUID) error {
	res, err := s.repo.GetExamResult(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.guardExamRequest(ctx, res.ExamRequestID, requester.ID); err != nil {
		return err
	}

	if err := s.repo.DeleteExamResult(ctx, id); err != nil {
		return err
	}

	if res.ReportFileID != nil {
		if err := s.files.Remove(ctx, *res.ReportFileID); err != nil {
			log.Error().Err(err).Str("file_id", res.ReportFileID.String()).Msg("failed to remove report file")
		}
	}
	return nil
}

func (s *Service) checkReportFile(ctx context.Context, fileID *uuid.UUID) error {
	if fileID == nil {
		return nil
	}
	ok, err := s.files.Exists(ctx, *fileID)
	if err != nil {
		return fmt.Errorf("load report file: %w", err)
	}
	if !ok {
		return ErrReportFileNotFound
	}
	return nil
}
