package timetable

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a doctor's bookable time unit at a clinic. At most one slot
// exists per (doctor, start time); scheduled is true while exactly one
// live consultation claims it.
type Slot struct {
	ID        uuid.UUID
	DoctorID  uuid.UUID
	ClinicID  uuid.UUID
	StartTime time.Time
	Scheduled bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter narrows slot listings.
type Filter struct {
	DoctorID *uuid.UUID
	ClinicID *uuid.UUID
	From     *time.Time
	To       *time.Time
}
