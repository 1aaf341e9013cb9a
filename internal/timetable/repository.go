package timetable

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrSlotTaken    = errors.New("slot already exists for this doctor and time")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Slot, error)
	List(ctx context.Context, f Filter) ([]Slot, error)

	Create(ctx context.Context, s *Slot) error
	UpdateStartTime(ctx context.Context, id uuid.UUID, startTime time.Time) (*Slot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
