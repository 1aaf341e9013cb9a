package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Password     string // bcrypt hash, never serialized
	ClinicID     *uuid.UUID
	SpecialtyID  *uuid.UUID
	AvatarFileID *uuid.UUID
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role struct {
	ID   uuid.UUID
	Slug string
	Name string
}

type Permission struct {
	ID   uuid.UUID
	Slug string
	Name string
}

// UpdateInput carries the mutable user fields. Nil means "leave as is".
type UpdateInput struct {
	Name         *string
	Email        *string
	Password     *string
	ClinicID     *uuid.UUID
	SpecialtyID  *uuid.UUID
	AvatarFileID *uuid.UUID
}
