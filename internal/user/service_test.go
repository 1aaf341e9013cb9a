package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/clinic-management/internal/auth"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) UserRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	roles, _ := args.Get(0).([]string)
	return roles, args.Error(1)
}

func (m *MockRepository) SyncRoles(ctx context.Context, userID uuid.UUID, desired []string) ([]string, []string, error) {
	args := m.Called(ctx, userID, desired)
	added, _ := args.Get(0).([]string)
	removed, _ := args.Get(1).([]string)
	return added, removed, args.Error(2)
}

func (m *MockRepository) EnsureRole(ctx context.Context, slug, name string) (uuid.UUID, error) {
	args := m.Called(ctx, slug, name)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func TestRegister_AnonymousBecomesPatient(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil)
	repo.On("SyncRoles", mock.Anything, mock.Anything, []string{auth.RolePatient}).Return([]string{auth.RolePatient}, nil, nil)

	u, err := svc.Register(context.Background(), nil, RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.test",
		Password: "longenough",
		Roles:    []string{auth.RoleAdministrator},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{auth.RolePatient}, u.Roles)
	repo.AssertExpectations(t)
}

func TestRegister_AdminGrantsRoles(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)
	admin := auth.Principal{ID: uuid.New(), Roles: []string{auth.RoleAdministrator}}

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("SyncRoles", mock.Anything, mock.Anything, []string{auth.RoleDoctor}).Return([]string{auth.RoleDoctor}, nil, nil)

	u, err := svc.Register(context.Background(), &admin, RegisterInput{
		Name:     "Dr. Silva",
		Email:    "silva@example.test",
		Password: "longenough",
		Roles:    []string{auth.RoleDoctor},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{auth.RoleDoctor}, u.Roles)
}

func TestRegister_NonAdminGrantIgnored(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)
	requester := auth.Principal{ID: uuid.New(), Roles: []string{auth.RolePatient}}

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("SyncRoles", mock.Anything, mock.Anything, []string{auth.RolePatient}).Return([]string{auth.RolePatient}, nil, nil)

	u, err := svc.Register(context.Background(), &requester, RegisterInput{
		Name:     "Maria",
		Email:    "maria@example.test",
		Password: "longenough",
		Roles:    []string{auth.RoleAdministrator},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{auth.RolePatient}, u.Roles)
}

func TestRegister_ValidationMessages(t *testing.T) {
	svc := NewService(&MockRepository{})

	_, err := svc.Register(context.Background(), nil, RegisterInput{
		Name:     "  ",
		Email:    "not-an-email",
		Password: "short",
	})

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "email is invalid")
	assert.Contains(t, err.Error(), "password must be at least 8 characters")
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)

	hash, err := auth.HashPassword("the-real-password")
	require.NoError(t, err)
	repo.On("GetByEmail", mock.Anything, "ana@example.test").Return(&User{
		ID:       uuid.New(),
		Email:    "ana@example.test",
		Password: hash,
	}, nil)

	_, err = svc.Authenticate(context.Background(), "ana@example.test", "a guess")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthenticate_UnknownEmailMapsToBadCredentials(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)

	repo.On("GetByEmail", mock.Anything, "ghost@example.test").Return(nil, ErrUserNotFound)

	_, err := svc.Authenticate(context.Background(), "ghost@example.test", "whatever")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestGet_SelfOrAdminOnly(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)
	target := uuid.New()

	_, err := svc.Get(context.Background(), auth.Principal{ID: uuid.New()}, target)
	assert.ErrorIs(t, err, ErrForbidden)

	repo.On("GetByID", mock.Anything, target).Return(&User{ID: target}, nil)
	repo.On("UserRoles", mock.Anything, target).Return([]string{auth.RolePatient}, nil)

	u, err := svc.Get(context.Background(), auth.Principal{ID: uuid.New(), Roles: []string{auth.RoleAdministrator}}, target)
	require.NoError(t, err)
	assert.Equal(t, target, u.ID)
}

func TestDelete_AdminOnly(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)
	target := uuid.New()

	err := svc.Delete(context.Background(), auth.Principal{ID: target}, target)
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestReconcileRoles_AdminOnly(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo)

	_, _, err := svc.ReconcileRoles(context.Background(), auth.Principal{ID: uuid.New()}, uuid.New(), []string{auth.RoleDoctor})
	assert.ErrorIs(t, err, ErrForbidden)
}
