package consultation

import (
	"time"

	"github.com/google/uuid"
)

// Consultation is a booked appointment claiming exactly one timetable
// slot, matched by (doctor id, start time).
type Consultation struct {
	ID        uuid.UUID
	StartTime time.Time
	IsReturn  bool
	Confirmed bool
	ClinicID  uuid.UUID
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter narrows consultation listings. An absent time bound defaults
// to the min/max start time across all consultations.
type Filter struct {
	DoctorID  *uuid.UUID
	ClinicID  *uuid.UUID
	PatientID *uuid.UUID
	IsReturn  *bool
	From      *time.Time
	To        *time.Time
}

type BookInput struct {
	ClinicID  uuid.UUID
	DoctorID  uuid.UUID
	PatientID *uuid.UUID
	StartTime time.Time
	IsReturn  bool
}
