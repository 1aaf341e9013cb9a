package clinic

import (
	"time"

	"github.com/google/uuid"
)

type Clinic struct {
	ID        uuid.UUID
	Name      string
	OwnerID   uuid.UUID
	Address   *Address
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Address is owned by exactly one clinic.
type Address struct {
	ID       uuid.UUID
	ClinicID uuid.UUID
	Street   string
	Number   string
	District string
	City     string
	State    string
	ZipCode  string
}
