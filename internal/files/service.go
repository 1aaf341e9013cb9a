package files

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Service struct {
	repo  Repository
	store Store
}

func NewService(repo Repository, store Store) *Service {
	return &Service{repo: repo, store: store}
}

// Upload stores the bytes and records the metadata row. The stored
// name is the file id plus the original extension.
func (s *Service) Upload(ctx context.Context, name, contentType string, r io.Reader) (*File, error) {
	id := uuid.New()

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "application/octet-stream"
	}
	typ, subtype, _ := strings.Cut(mediaType, "/")

	f := &File{
		ID:         id,
		StoredName: id.String() + filepath.Ext(name),
		Name:       name,
		Type:       typ,
		Subtype:    subtype,
	}

	if err := s.store.Save(f.StoredName, r); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, f); err != nil {
		if rmErr := s.store.Remove(f.StoredName); rmErr != nil {
			log.Error().Err(rmErr).Str("stored_name", f.StoredName).Msg("failed to clean up orphan blob")
		}
		return nil, err
	}
	return f, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*File, error) {
	return s.repo.GetByID(ctx, id)
}

// Open returns the metadata and a reader over the stored bytes.
func (s *Service) Open(ctx context.Context, id uuid.UUID) (*File, io.ReadCloser, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(f.StoredName)
	if err != nil {
		return nil, nil, fmt.Errorf("open stored file: %w", err)
	}
	return f, rc, nil
}

func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Remove deletes the metadata row and the backing bytes.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Remove(f.StoredName); err != nil {
		log.Error().Err(err).Str("stored_name", f.StoredName).Msg("failed to remove blob bytes")
	}
	return nil
}
