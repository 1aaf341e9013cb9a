package consultation

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrDateNotAvailable     = errors.New("date not available")
	ErrAlreadyScheduled     = errors.New("already scheduled")
)

// Repository contains all DB interactions needed by the service. Book
// and Cancel are transactional: the consultation row mutation and the
// slot flip commit or roll back together.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	List(ctx context.Context, f Filter) ([]Consultation, error)

	// Book locks the slot row for (doctor, start time), verifies it is
	// free, inserts the consultation and marks the slot scheduled.
	Book(ctx context.Context, c *Consultation) error

	// Cancel deletes the consultation and frees its slot.
	Cancel(ctx context.Context, c *Consultation) error

	SetConfirmed(ctx context.Context, id uuid.UUID) (*Consultation, error)
}

// Directory resolves the users and clinics a booking references.
type Directory interface {
	ClinicExists(ctx context.Context, id uuid.UUID) (bool, error)
	// UserRoles reports the role slugs of a user; found is false when
	// no such user exists.
	UserRoles(ctx context.Context, id uuid.UUID) (roles []string, found bool, err error)
}

// Dispatcher enqueues durable background jobs.
type Dispatcher interface {
	Dispatch(ctx context.Context, jobKey string, payload any, attempts int) error
}
