package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrRoleNotFound = errors.New("role not found")
	ErrEmailTaken   = errors.New("email already in use")
)

// Repository contains all DB interactions needed by the user service
// and the auth middleware.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)

	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// UserRoles returns the role slugs currently attached to the user.
	UserRoles(ctx context.Context, userID uuid.UUID) ([]string, error)

	// SyncRoles reconciles user_roles to exactly the desired slugs in
	// one transaction and reports what changed.
	SyncRoles(ctx context.Context, userID uuid.UUID, desired []string) (added, removed []string, err error)

	EnsureRole(ctx context.Context, slug, name string) (uuid.UUID, error)
}

// DiffSlugs computes the reconciliation between a current and a desired
// set: which members must be added and which removed.
func DiffSlugs(current, desired []string) (toAdd, toRemove []string) {
	have := make(map[string]bool, len(current))
	for _, s := range current {
		have[s] = true
	}
	want := make(map[string]bool, len(desired))
	for _, s := range desired {
		want[s] = true
	}

	for _, s := range desired {
		if !have[s] {
			toAdd = append(toAdd, s)
		}
	}
	for _, s := range current {
		if !want[s] {
			toRemove = append(toRemove, s)
		}
	}
	return toAdd, toRemove
}
