package clinic

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrClinicNotFound = errors.New("clinic not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context) ([]Clinic, error)

	Create(ctx context.Context, c *Clinic) error
	Update(ctx context.Context, c *Clinic) error
	Delete(ctx context.Context, id uuid.UUID) error

	UpsertAddress(ctx context.Context, a *Address) error
}
