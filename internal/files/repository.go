package files

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrFileNotFound = errors.New("file not found")

// File is the metadata row for a stored attachment (avatar, leaflet,
// exam report). The bytes live in the blob store under StoredName.
type File struct {
	ID         uuid.UUID
	StoredName string
	Name       string
	Type       string
	Subtype    string
	CreatedAt  time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*File, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, f *File) error
	Delete(ctx context.Context, id uuid.UUID) error
}
