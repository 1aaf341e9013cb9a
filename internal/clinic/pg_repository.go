package clinic

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

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT c.id, c.name, c.owner_id, c.created_at, c.updated_at,
		       a.id, a.street, a.number, a.district, a.city, a.state, a.zip_code
		FROM clinics c
		LEFT JOIN addresses a ON a.clinic_id = c.id
		WHERE c.id = $1
	`, id)
	return scanClinicWithAddress(row)
}

func scanClinicWithAddress(row pgx.Row) (*Clinic, error) {
	var c Clinic
	var addrID *uuid.UUID
	var street, number, district, city, state, zip *string

	err := row.Scan(
		&c.ID, &c.Name, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt,
		&addrID, &street, &number, &district, &city, &state, &zip,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClinicNotFound
		}
		return nil, err
	}

	if addrID != nil {
		c.Address = &Address{
			ID:       *addrID,
			ClinicID: c.ID,
			Street:   *street,
			Number:   *number,
			District: *district,
			City:     *city,
			State:    *state,
			ZipCode:  *zip,
		}
	}
	return &c, nil
}

func (r *PgRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM clinics WHERE id = $1)
	`, id).Scan(&exists)
	return exists, err
}

func (r *PgRepository) List(ctx context.Context) ([]Clinic, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.owner_id, c.created_at, c.updated_at,
		       a.id, a.street, a.number, a.district, a.city, a.state, a.zip_code
		FROM clinics c
		LEFT JOIN addresses a ON a.clinic_id = c.id
		ORDER BY c.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Clinic
	for rows.Next() {
		c, err := scanClinicWithAddress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *PgRepository) Create(ctx context.Context, c *Clinic) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO clinics (id, name, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
	`, c.ID, c.Name, c.OwnerID)
	if err != nil {
		return fmt.Errorf("insert clinic: %w", err)
	}

	if c.Address != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO addresses (id, clinic_id, street, number, district, city, state, zip_code)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, c.Address.ID, c.ID, c.Address.Street, c.Address.Number, c.Address.District,
			c.Address.City, c.Address.State, c.Address.ZipCode)
		if err != nil {
			return fmt.Errorf("insert address: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PgRepository) Update(ctx context.Context, c *Clinic) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE clinics
		SET name = $2, updated_at = now()
		WHERE id = $1
	`, c.ID, c.Name)
	if err != nil {
		return fmt.Errorf("update clinic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClinicNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clinics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete clinic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClinicNotFound
	}
	return nil
}

func (r *PgRepository) UpsertAddress(ctx context.Context, a *Address) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO addresses (id, clinic_id, street, number, district, city, state, zip_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (clinic_id) DO UPDATE
		SET street = EXCLUDED.street,
		    number = EXCLUDED.number,
		    district = EXCLUDED.district,
		    city = EXCLUDED.city,
		    state = EXCLUDED.state,
		    zip_code = EXCLUDED.zip_code
	`, a.ID, a.ClinicID, a.Street, a.Number, a.District, a.City, a.State, a.ZipCode)
	if err != nil {
		return fmt.Errorf("upsert address: %w", err)
	}
	return nil
}
