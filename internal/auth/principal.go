package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role slugs known to the access control guard.
const (
	RoleAdministrator = "administrator"
	RoleDoctor        = "doctor"
	RolePatient       = "patient"
	RoleAssistant     = "assistant"
)

// Principal is the authenticated requester. Roles are loaded from the
// role relation on every request, never carried inside the token, so a
// role change takes effect on the next request.
type Principal struct {
	ID       uuid.UUID
	Name     string
	Email    string
	ClinicID *uuid.UUID
	Roles    []string
}

func (p Principal) HasRole(slug string) bool {
	for _, r := range p.Roles {
		if r == slug {
			return true
		}
	}
	return false
}

func (p Principal) HasAnyRole(slugs ...string) bool {
	for _, s := range slugs {
		if p.HasRole(s) {
			return true
		}
	}
	return false
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal stores the authenticated requester in the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// CurrentUser retrieves the authenticated requester from the context.
func CurrentUser(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
