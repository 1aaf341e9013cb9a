package sweep

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrConsultationNotFound = errors.New("consultation not found")

// Person is the contact slice of a user the mail templates need.
type Person struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Specialty *string
}

// ClinicInfo carries the clinic and its owner for the mail envelope.
type ClinicInfo struct {
	ID    uuid.UUID
	Name  string
	Owner Person
}

// ConsultationDetail is a consultation with doctor, patient and clinic
// eagerly loaded, as the notification templates consume it.
type ConsultationDetail struct {
	ID        uuid.UUID
	StartTime time.Time
	Confirmed bool
	Doctor    Person
	Patient   Person
	Clinic    ClinicInfo
}

type Repository interface {
	// ListInWindow returns consultations starting inside [from, to]
	// with their relations loaded.
	ListInWindow(ctx context.Context, from, to time.Time) ([]ConsultationDetail, error)

	// ListUnconfirmedInWindow is ListInWindow restricted to
	// consultations the patient has not confirmed.
	ListUnconfirmedInWindow(ctx context.Context, from, to time.Time) ([]ConsultationDetail, error)

	GetDetail(ctx context.Context, id uuid.UUID) (*ConsultationDetail, error)

	// DeleteConsultation removes only the consultation row. The slot
	// it claimed keeps scheduled=true; the user-initiated cancel path
	// is the one that frees slots.
	DeleteConsultation(ctx context.Context, id uuid.UUID) error
}

// Dispatcher enqueues durable background jobs.
type Dispatcher interface {
	Dispatch(ctx context.Context, jobKey string, payload any, attempts int) error
}
