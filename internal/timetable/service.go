package timetable

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-management/internal/auth"
)

var (
	ErrNotSlotOwner     = errors.New("slot belongs to another doctor")
	ErrDoctorIDRequired = errors.New("doctor id is required")
	ErrSlotScheduled    = errors.New("slot has a consultation scheduled")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create opens a new unscheduled slot. Administrators create on a
// doctor's behalf and must name the doctor; everyone else may only
// create slots for themselves.
func (s *Service) Create(ctx context.Context, requester auth.Principal, doctorID *uuid.UUID, clinicID uuid.UUID, startTime time.Time) (*Slot, error) {
	owner := requester.ID
	if requester.HasRole(auth.RoleAdministrator) {
		if doctorID == nil {
			return nil, ErrDoctorIDRequired
		}
		owner = *doctorID
	} else if doctorID != nil && *doctorID != requester.ID {
		return nil, ErrNotSlotOwner
	}

	slot := &Slot{
		ID:        uuid.New(),
		DoctorID:  owner,
		ClinicID:  clinicID,
		StartTime: startTime,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// List shows all slots to administrators and only the requester's own
// slots to everyone else.
func (s *Service) List(ctx context.Context, requester auth.Principal, f Filter) ([]Slot, error) {
	if !requester.HasRole(auth.RoleAdministrator) {
		id := requester.ID
		f.DoctorID = &id
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, requester auth.Principal, id uuid.UUID, startTime time.Time) (*Slot, error) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot.DoctorID != requester.ID && !requester.HasRole(auth.RoleAdministrator) {
		return nil, ErrNotSlotOwner
	}
	if slot.Scheduled {
		return nil, ErrSlotScheduled
	}
	return s.repo.UpdateStartTime(ctx, id, startTime)
}

func (s *Service) Delete(ctx context.Context, requester auth.Principal, id uuid.UUID) error {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slot.DoctorID != requester.ID && !requester.HasRole(auth.RoleAdministrator) {
		return ErrNotSlotOwner
	}
	if slot.Scheduled {
		return ErrSlotScheduled
	}
	return s.repo.Delete(ctx, id)
}
