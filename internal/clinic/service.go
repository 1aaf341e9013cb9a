package clinic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-management/internal/auth"
)

var (
	ErrForbidden  = errors.New("not allowed to manage this clinic")
	ErrValidation = errors.New("validation failed")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type AddressInput struct {
	Street   string
	Number   string
	District string
	City     string
	State    string
	ZipCode  string
}

type CreateInput struct {
	Name    string
	Address *AddressInput
}

func (s *Service) Create(ctx context.Context, requester auth.Principal, in CreateInput) (*Clinic, error) {
	if msgs := validate(in.Name, in.Address); len(msgs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
	}

	c := &Clinic{
		ID:      uuid.New(),
		Name:    in.Name,
		OwnerID: requester.ID,
	}
	if in.Address != nil {
		c.Address = &Address{
			ID:       uuid.New(),
			ClinicID: c.ID,
			Street:   in.Address.Street,
			Number:   in.Address.Number,
			District: in.Address.District,
			City:     in.Address.City,
			State:    in.Address.State,
			ZipCode:  in.Address.ZipCode,
		}
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Clinic, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, requester auth.Principal, id uuid.UUID, name string, addr *AddressInput) (*Clinic, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != requester.ID && !requester.HasRole(auth.RoleAdministrator) {
		return nil, ErrForbidden
	}

	if name != "" {
		c.Name = name
	}
	if msgs := validate(c.Name, addr); len(msgs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	if addr != nil {
		a := &Address{
			ID:       uuid.New(),
			ClinicID: c.ID,
			Street:   addr.Street,
			Number:   addr.Number,
			District: addr.District,
			City:     addr.City,
			State:    addr.State,
			ZipCode:  addr.ZipCode,
		}
		if err := s.repo.UpsertAddress(ctx, a); err != nil {
			return nil, err
		}
		c.Address = a
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, requester auth.Principal, id uuid.UUID) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.OwnerID != requester.ID && !requester.HasRole(auth.RoleAdministrator) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func validate(name string, addr *AddressInput) []string {
	var msgs []string
	if strings.TrimSpace(name) == "" {
		msgs = append(msgs, "name is required")
	}
	if addr != nil {
		if strings.TrimSpace(addr.Street) == "" {
			msgs = append(msgs, "address street is required")
		}
		if strings.TrimSpace(addr.City) == "" {
			msgs = append(msgs, "address city is required")
		}
		if strings.TrimSpace(addr.State) == "" {
			msgs = append(msgs, "address state is required")
		}
		if strings.TrimSpace(addr.ZipCode) == "" {
			msgs = append(msgs, "address zip code is required")
		}
	}
	return msgs
}
