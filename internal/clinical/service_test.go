package clinical

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/clinic-management/internal/auth"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetConsultationRef(ctx context.Context, id uuid.UUID) (*ConsultationRef, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ConsultationRef), args.Error(1)
}

func (m *MockRepository) HasDiagnostic(ctx context.Context, consultationID uuid.UUID) (bool, error) {
	args := m.Called(ctx, consultationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CreateDiagnostic(ctx context.Context, d *Diagnostic) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockRepository) GetDiagnostic(ctx context.Context, id uuid.UUID) (*Diagnostic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Diagnostic), args.Error(1)
}

func (m *MockRepository) CreatePrescription(ctx context.Context, p *Prescription) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) CreateReferral(ctx context.Context, r *Referral) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) GetReferral(ctx context.Context, id uuid.UUID) (*Referral, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Referral), args.Error(1)
}

func (m *MockRepository) UpdateReferral(ctx context.Context, r *Referral) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) SyncExamRequests(ctx context.Context, consultationID uuid.UUID, examIDs []uuid.UUID, date time.Time) ([]uuid.UUID, []uuid.UUID, error) {
	args := m.Called(ctx, consultationID, examIDs, date)
	added, _ := args.Get(0).([]uuid.UUID)
	removed, _ := args.Get(1).([]uuid.UUID)
	return added, removed, args.Error(2)
}

func (m *MockRepository) GetExamRequest(ctx context.Context, id uuid.UUID) (*ExamRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ExamRequest), args.Error(1)
}

func (m *MockRepository) ListExamRequests(ctx context.Context, consultationID uuid.UUID) ([]ExamRequest, error) {
	args := m.Called(ctx, consultationID)
	return args.Get(0).([]ExamRequest), args.Error(1)
}

func (m *MockRepository) CreateExamResult(ctx context.Context, r *ExamResult) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) GetExamResult(ctx context.Context, id uuid.UUID) (*ExamResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ExamResult), args.Error(1)
}

func (m *MockRepository) UpdateExamResult(ctx context.Context, r *ExamResult) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) DeleteExamResult(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ConditionExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) SurgeryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) MedicineExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) SpecialtyExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ExamsExist(ctx context.Context, ids []uuid.UUID) (bool, error) {
	args := m.Called(ctx, ids)
	return args.Bool(0), args.Error(1)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockFileStore) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setup() (*Service, *MockRepository, *MockFileStore, auth.Principal, *ConsultationRef) {
	repo := &MockRepository{}
	store := &MockFileStore{}
	svc := NewService(repo, store)

	doctor := auth.Principal{ID: uuid.New(), Roles: []string{auth.RoleDoctor}}
	ref := &ConsultationRef{ID: uuid.New(), DoctorID: doctor.ID}
	return svc, repo, store, doctor, ref
}

func TestCreateDiagnostic_OnlyTheConsultationDoctor(t *testing.T) {
	svc, repo, _, _, ref := setup()
	stranger := auth.Principal{ID: uuid.New(), Roles: []string{auth.RoleDoctor}}

	repo.On("GetConsultationRef", mock.Anything, ref.ID).Return(ref, nil)

	_, err := svc.CreateDiagnostic(context.Background(), stranger, DiagnosticInput{
		Report:         "stable",
		ConsultationID: ref.ID,
		ConditionID:    uuid.New(),
	})

	assert.ErrorIs(t, err, ErrNotConsultationDoctor)
	repo.AssertNotCalled(t, "CreateDiagnostic", mock.Anything, mock.Anything)
}

func TestCreateDiagnostic_OnePerConsultation(t *testing.T) {
	svc, repo, _, doctor, ref := setup()

	repo.On("GetConsultationRef", mock.Anything, ref.ID).Return(ref, nil)
	repo.On("HasDiagnostic", mock.Anything, ref.ID).Return(true, nil)

	_, err := svc.CreateDiagnostic(context.Background(), doctor, DiagnosticInput{
		Report:         "stable",
		ConsultationID: ref.ID,
		ConditionID:    uuid.New(),
	})

	assert.ErrorIs(t, err, ErrDiagnosticExists)
}

func TestCreateDiagnostic_SurgeryNeedsOperationDate(t *testing.T) {
	svc, repo, _, doctor, ref := setup()
	conditionID, surgeryID := uuid.New(), uuid.New()

	repo.On("GetConsultationRef", mock.Anything, ref.ID).Return(ref, nil)
	repo.On("HasDiagnostic", mock.Anything, ref.ID).Return(false, nil)
	repo.On("ConditionExists", mock.Anything, conditionID).Return(true, nil)
	repo.On("SurgeryExists", mock.Anything, surgeryID).Return(true, nil)

	_, err := svc.CreateDiagnostic(context.Background(), doctor, DiagnosticInput{
		Report:         "needs surgery",
		ConsultationID: ref.ID,
		ConditionID:    conditionID,
		SurgeryID:      &surgeryID,
	})

	assert.ErrorIs(t, err, ErrOperationDateRequired)
}

func TestCreateDiagnostic_Success(t *testing.T) {
	svc, repo, _, doctor, ref := setup()
	conditionID := uuid.New()

	repo.On("GetConsultationRef", mock.Anything, ref.ID).Return(ref, nil)
	repo.On("HasDiagnostic", mock.Anything, ref.ID).Return(false, nil)
	repo.On("ConditionExists", mock.Anything, conditionID).Return(true, nil)
	repo.On("CreateDiagnostic", mock.Anything, mock.AnythingOfType("*clinical.Diagnostic")).Return(nil)

	d, err := svc.CreateDiagnostic(context.Background(), doctor, DiagnosticInput{
		Report:         "stable",
		ConsultationID: ref.ID,
		ConditionID:    conditionID,
	})

	require.NoError(t, err)
	assert.Equal(t, ref.ID, d.ConsultationID)
	repo.AssertExpectations(t)
}

func prescriptionFixture(repo *MockRepository, ref *ConsultationRef) (PrescriptionInput, uuid.UUID) {
	diagnosticID, medicineID := uuid.New(), uuid.New()
	repo.On("GetDiagnostic", mock.Anything, diagnosticID).Return(&Diagnostic{
		ID:             diagnosticID,
		ConsultationID: ref.ID,
	}, nil)
	repo.On("GetConsultationRef", mock.Anything, ref.ID).Return(ref, nil)
	repo.On("MedicineExists", mock.Anything, medicineID).Return(true, nil)

	return PrescriptionInput{
		ExpiresOn:             time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		MedicineAmount:        2,
		MedicineFrequency:     8,
		MedicineFrequencyUnit: UnitHour,
		MedicineID:            medicineID,
		DiagnosticID:          diagnosticID,
	}, diagnosticID
}

func TestCreatePrescription_Success(t *testing.T) {
	svc, repo, _, doctor, ref := setup()
	svc.WithClock(func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) })

	in, diagnosticID := prescriptionFixture(repo, ref)
	repo.On("CreatePrescription", mock.Anything, mock.AnythingOfType("*clinical.Prescription")).Return(nil)

	p, err := svc.CreatePrescription(context.Background(), doctor, in)

	require.NoError(t, err)
	assert.Equal(t, diagnosticID, p.DiagnosticID)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), p.IssuedOn)
}

func TestCreatePrescription_RejectsPastExpiry(t *testing.T) {
	svc, repo, _, doctor, ref := setup()
	svc.WithClock(func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) })

	in, _ := prescriptionFixture(repo, ref)

	_, err := svc.CreatePrescription(context.Background(), doctor, in)

	assert.ErrorIs(t, err, ErrExpiresInPast)
}

func TestCreatePrescription_RejectsBadDosage(t *testing.T) {
	svc, repo, _, doctor, ref := setup()
	svc.WithClock(func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) })

	in, _ := prescriptionFixture(repo, ref)

	bad := in
	bad.MedicineAmount = 0
	_, err := svc.CreatePrescription(context.Background(), doctor, bad)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	bad = in
	bad.MedicineFrequency = -1
	_, err = svc.CreatePrescription(context.Background(), doctor, bad)
	assert.ErrorIs(t, err, ErrInvalidFrequency)

	bad = in
	bad.MedicineFrequencyUnit = FrequencyUnit("FORTNIGHT")
	_, err = svc.CreatePrescription(context.Background(), doctor, bad)
	assert.ErrorIs(t, err, ErrInvalidFrequencyUnit)
}

func TestSyncExams_NilSetRejected(t *testing.T) {
	svc, repo, _, doctor, _ := setup()

	_, _, err := svc.SyncExams(context.Background(), doctor, uuid.New(), nil)

	assert.ErrorIs(t, err, ErrExamsRequired)
	repo.AssertNotCalled(t, "SyncExamRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncExams_EmptySetClearsRequests(t *testing.T) {
	svc, repo, _, doctor, ref := setup()

	removed := []uuid.UUID{uuid.New()}
	repo.On("GetConsultationRef", mock.Anything, ref.ID).Return(ref, nil)
	repo.On("ExamsExist", mock.Anything, []uuid.UUID{}).Return(true, nil)
	repo.On("SyncExamRequests", mock.Anything, ref.ID, []uuid.UUID{}, mock.Anything).Return([]uuid.UUID{}, removed, nil)

	added, gotRemoved, err := svc.SyncExams(context.Background(), doctor, ref.ID, []uuid.UUID{})

	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, removed, gotRemoved)
}

func TestSyncExams_UnknownExamRejected(t *testing.T) {
	svc, repo, _, doctor, ref := setup()

	examIDs := []uuid.UUID{uuid.New()}
	repo.On("GetConsultationRef", mock.Anything, ref.ID).Return(ref, nil)
	repo.On("ExamsExist", mock.Anything, examIDs).Return(false, nil)

	_, _, err := svc.SyncExams(context.Background(), doctor, ref.ID, examIDs)

	assert.ErrorIs(t, err, ErrExamNotFound)
	repo.AssertNotCalled(t, "SyncExamRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDiffExamIDs(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	current := map[uuid.UUID]bool{a: true, c: true}
	added, kept, removed := diffExamIDs(current, []uuid.UUID{a, b})

	assert.Equal(t, []uuid.UUID{b}, added)
	assert.Equal(t, []uuid.UUID{a}, kept)
	assert.Equal(t, []uuid.UUID{c}, removed)
}

func TestDiffExamIDs_RepeatSyncKeepsRowsInKeptSet(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	// first sync: nothing exists yet
	added, kept, removed := diffExamIDs(map[uuid.UUID]bool{}, []uuid.UUID{a})
	assert.Equal(t, []uuid.UUID{a}, added)
	assert.Empty(t, kept)
	assert.Empty(t, removed)

	// second sync grows the set; the surviving row must land in kept
	// so the reconcile re-stamps its date
	added, kept, removed = diffExamIDs(map[uuid.UUID]bool{a: true}, []uuid.UUID{a, b})
	assert.Equal(t, []uuid.UUID{b}, added)
	assert.Equal(t, []uuid.UUID{a}, kept)
	assert.Empty(t, removed)
}

func TestDiffExamIDs_DuplicateDesiredIDsCollapse(t *testing.T) {
	a := uuid.New()

	added, kept, removed := diffExamIDs(map[uuid.UUID]bool{}, []uuid.UUID{a, a})

	assert.Equal(t, []uuid.UUID{a}, added)
	assert.Empty(t, kept)
	assert.Empty(t, removed)
}

func TestDeleteReferral_AuthorizedNoOp(t *testing.T) {
	svc, repo, _, doctor, ref := setup()

	referral := &Referral{ID: uuid.New(), ConsultationID: ref.ID}
	repo.On("GetReferral", mock.Anything, referral.ID).Return(referral, nil)
	repo.On("GetConsultationRef", mock.Anything, ref.ID).Return(ref, nil)

	require.NoError(t, svc.DeleteReferral(context.Background(), doctor, referral.ID))
	repo.AssertNotCalled(t, "UpdateReferral", mock.Anything, mock.Anything)
}

func TestCreateExamResult_MissingReportFile(t *testing.T) {
	svc, repo, store, doctor, ref := setup()

	examRequestID, fileID := uuid.New(), uuid.New()
	repo.On("GetExamRequest", mock.Anything, examRequestID).Return(&ExamRequest{
		ID:             examRequestID,
		ConsultationID: ref.ID,
	}, nil)
	repo.On("GetConsultationRef", mock.Anything, ref.ID).Return(ref, nil)
	store.On("Exists", mock.Anything, fileID).Return(false, nil)

	_, err := svc.CreateExamResult(context.Background(), doctor, ExamResultInput{
		ShortReport:   "all clear",
		ExamRequestID: examRequestID,
		ReportFileID:  &fileID,
	})

	assert.ErrorIs(t, err, ErrReportFileNotFound)
}

func TestDeleteExamResult_CascadesReportFile(t *testing.T) {
	svc, repo, store, doctor, ref := setup()

	fileID := uuid.New()
	examRequestID := uuid.New()
	res := &ExamResult{ID: uuid.New(), ExamRequestID: examRequestID, ReportFileID: &fileID}

	repo.On("GetExamResult", mock.Anything, res.ID).Return(res, nil)
	repo.On("GetExamRequest", mock.Anything, examRequestID).Return(&ExamRequest{
		ID:             examRequestID,
		ConsultationID: ref.ID,
	}, nil)
	repo.On("GetConsultationRef", mock.Anything, ref.ID).Return(ref, nil)
	repo.On("DeleteExamResult", mock.Anything, res.ID).Return(nil)
	store.On("Remove", mock.Anything, fileID).Return(nil)

	require.NoError(t, svc.DeleteExamResult(context.Background(), doctor, res.ID))
	store.AssertExpectations(t)
}
