package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-management/internal/auth"
)

var (
	ErrForbidden      = errors.New("not allowed to manage this user")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrValidation     = errors.New("validation failed")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	ClinicID    *uuid.UUID
	SpecialtyID *uuid.UUID
	Roles       []string
}

// Register creates a user. Unauthenticated registrations always become
// patients; only an administrator may grant other roles up front.
func (s *Service) Register(ctx context.Context, requester *auth.Principal, in RegisterInput) (*User, error) {
	if msgs := validateRegister(in); len(msgs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
	}

	roles := []string{auth.RolePatient}
	if requester != nil && requester.HasRole(auth.RoleAdministrator) && len(in.Roles) > 0 {
		roles = in.Roles
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:          uuid.New(),
		Name:        in.Name,
		Email:       in.Email,
		Password:    hash,
		ClinicID:    in.ClinicID,
		SpecialtyID: in.SpecialtyID,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	if _, _, err := s.repo.SyncRoles(ctx, u.ID, roles); err != nil {
		return nil, fmt.Errorf("assign roles: %w", err)
	}
	u.Roles = roles
	return u, nil
}

// Authenticate checks credentials and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.Password, password) {
		return nil, ErrBadCredentials
	}

	roles, err := s.repo.UserRoles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return u, nil
}

func (s *Service) Get(ctx context.Context, requester auth.Principal, id uuid.UUID) (*User, error) {
	if requester.ID != id && !requester.HasRole(auth.RoleAdministrator) {
		return nil, ErrForbidden
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Roles, err = s.repo.UserRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, requester auth.Principal) ([]User, error) {
	if !requester.HasRole(auth.RoleAdministrator) {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, requester auth.Principal, id uuid.UUID, in UpdateInput) (*User, error) {
	if requester.ID != id && !requester.HasRole(auth.RoleAdministrator) {
		return nil, ErrForbidden
	}

	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		in.Password = &hash
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, requester auth.Principal, id uuid.UUID) error {
	if !requester.HasRole(auth.RoleAdministrator) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// ReconcileRoles replaces the user's role set, administrator only.
func (s *Service) ReconcileRoles(ctx context.Context, requester auth.Principal, id uuid.UUID, desired []string) (added, removed []string, err error) {
	if !requester.HasRole(auth.RoleAdministrator) {
		return nil, nil, ErrForbidden
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, nil, err
	}
	return s.repo.SyncRoles(ctx, id, desired)
}

func validateRegister(in RegisterInput) []string {
	var msgs []string
	if strings.TrimSpace(in.Name) == "" {
		msgs = append(msgs, "name is required")
	}
	if !strings.Contains(in.Email, "@") {
		msgs = append(msgs, "email is invalid")
	}
	if len(in.Password) < 8 {
		msgs = append(msgs, "password must be at least 8 characters")
	}
	return msgs
}
