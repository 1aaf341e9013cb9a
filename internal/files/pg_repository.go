package files

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*File, error) {
	var f File
	err := r.pool.QueryRow(ctx, `
		SELECT id, stored_name, name, type, subtype, created_at
		FROM files
		WHERE id = $1
	`, id).Scan(&f.ID, &f.StoredName, &f.Name, &f.Type, &f.Subtype, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PgRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM files WHERE id = $1)
	`, id).Scan(&exists)
	return exists, err
}

func (r *PgRepository) Create(ctx context.Context, f *File) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO files (id, stored_name, name, type, subtype, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`, f.ID, f.StoredName, f.Name, f.Type, f.Subtype)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFileNotFound
	}
	return nil
}
