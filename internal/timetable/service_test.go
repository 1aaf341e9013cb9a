package timetable

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

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Slot), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f Filter) ([]Slot, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]Slot), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, s *Slot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) UpdateStartTime(ctx context.Context, id uuid.UUID, startTime time.Time) (*Slot, error) {
	args := m.Called(ctx, id, startTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Slot), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func doctor() auth.Principal {
	return auth.Principal{ID: uuid.New(), Roles: []string{auth.RoleDoctor}}
}

func admin() auth.Principal {
	return auth.Principal{ID: uuid.New(), Roles: []string{auth.RoleAdministrator}}
}

func TestCreate_DoctorCreatesOwnSlot(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)
	requester := doctor()

	repo.On("Create", mock.Anything, mock.AnythingOfType("*timetable.Slot")).Return(nil)

	slot, err := svc.Create(context.Background(), requester, nil, uuid.New(), time.Now().AddDate(0, 0, 1))

	require.NoError(t, err)
	assert.Equal(t, requester.ID, slot.DoctorID)
	assert.False(t, slot.Scheduled)
}

func TestCreate_AdminMustNameDoctor(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), admin(), nil, uuid.New(), time.Now())

	assert.ErrorIs(t, err, ErrDoctorIDRequired)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_AdminCreatesForDoctor(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)
	doctorID := uuid.New()

	repo.On("Create", mock.Anything, mock.AnythingOfType("*timetable.Slot")).Return(nil)

	slot, err := svc.Create(context.Background(), admin(), &doctorID, uuid.New(), time.Now())

	require.NoError(t, err)
	assert.Equal(t, doctorID, slot.DoctorID)
}

func TestCreate_DoctorCannotCreateForAnother(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)
	other := uuid.New()

	_, err := svc.Create(context.Background(), doctor(), &other, uuid.New(), time.Now())

	assert.ErrorIs(t, err, ErrNotSlotOwner)
}

func TestList_NonAdminSeesOnlyOwnSlots(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)
	requester := doctor()

	repo.On("List", mock.Anything, mock.MatchedBy(func(f Filter) bool {
		return f.DoctorID != nil && *f.DoctorID == requester.ID
	})).Return([]Slot{}, nil)

	_, err := svc.List(context.Background(), requester, Filter{})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestList_AdminFilterPassesThrough(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)

	repo.On("List", mock.Anything, Filter{}).Return([]Slot{}, nil)

	_, err := svc.List(context.Background(), admin(), Filter{})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdate_RejectsScheduledSlot(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)
	requester := doctor()

	slot := &Slot{ID: uuid.New(), DoctorID: requester.ID, Scheduled: true}
	repo.On("GetByID", mock.Anything, slot.ID).Return(slot, nil)

	_, err := svc.Update(context.Background(), requester, slot.ID, time.Now())

	assert.ErrorIs(t, err, ErrSlotScheduled)
	repo.AssertNotCalled(t, "UpdateStartTime", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_OtherDoctorForbidden(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)

	slot := &Slot{ID: uuid.New(), DoctorID: uuid.New()}
	repo.On("GetByID", mock.Anything, slot.ID).Return(slot, nil)

	_, err := svc.Update(context.Background(), doctor(), slot.ID, time.Now())

	assert.ErrorIs(t, err, ErrNotSlotOwner)
}

func TestDelete_OwnerDeletesFreeSlot(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)
	requester := doctor()

	slot := &Slot{ID: uuid.New(), DoctorID: requester.ID}
	repo.On("GetByID", mock.Anything, slot.ID).Return(slot, nil)
	repo.On("Delete", mock.Anything, slot.ID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), requester, slot.ID))
	repo.AssertExpectations(t)
}

func TestDelete_RejectsScheduledSlot(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)
	requester := doctor()

	slot := &Slot{ID: uuid.New(), DoctorID: requester.ID, Scheduled: true}
	repo.On("GetByID", mock.Anything, slot.ID).Return(slot, nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), requester, slot.ID), ErrSlotScheduled)
}
