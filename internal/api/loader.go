package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-management/internal/auth"
	"github.com/clinichq/clinic-management/internal/user"
)

// UserPrincipalLoader builds the request principal from the user store.
type UserPrincipalLoader struct {
	Repo user.Repository
}

func (l UserPrincipalLoader) LoadPrincipal(ctx context.Context, id uuid.UUID) (auth.Principal, error) {
	u, err := l.Repo.GetByID(ctx, id)
	if err != nil {
		return auth.Principal{}, err
	}
	roles, err := l.Repo.UserRoles(ctx, id)
	if err != nil {
		return auth.Principal{}, err
	}
	return auth.Principal{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		ClinicID: u.ClinicID,
		Roles:    roles,
	}, nil
}
