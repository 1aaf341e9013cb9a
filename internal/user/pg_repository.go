package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Password,
		&u.ClinicID,
		&u.SpecialtyID,
		&u.AvatarFileID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

const userColumns = `id, name, email, password, clinic_id, specialty_id, avatar_file_id, created_at, updated_at`

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *PgRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func (r *PgRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	return result, rows.Err()
}

func (r *PgRepository) Create(ctx context.Context, u *User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password, clinic_id, specialty_id, avatar_file_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	`, u.ID, u.Name, u.Email, u.Password, u.ClinicID, u.SpecialtyID, u.AvatarFileID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PgRepository) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name           = COALESCE($2, name),
		    email          = COALESCE($3, email),
		    password       = COALESCE($4, password),
		    clinic_id      = COALESCE($5, clinic_id),
		    specialty_id   = COALESCE($6, specialty_id),
		    avatar_file_id = COALESCE($7, avatar_file_id),
		    updated_at     = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, in.Name, in.Email, in.Password, in.ClinicID, in.SpecialtyID, in.AvatarFileID)

	u, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgRepository) UserRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.slug
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.slug
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slugs = append(slugs, s)
	}
	return slugs, rows.Err()
}

// SyncRoles reconciles the user_roles pivot to exactly the desired
// slugs. Lookup, diff, insert and delete run inside one transaction.
func (r *PgRepository) SyncRoles(ctx context.Context, userID uuid.UUID, desired []string) (added, removed []string, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT r.slug
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
	`, userID)
	if err != nil {
		return nil, nil, err
	}

	var current []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			rows.Close()
			return nil, nil, err
		}
		current = append(current, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	added, removed = DiffSlugs(current, desired)

	for _, slug := range added {
		tag, err := tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE slug = $2
		`, userID, slug)
		if err != nil {
			return nil, nil, fmt.Errorf("attach role %s: %w", slug, err)
		}
		if tag.RowsAffected() == 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrRoleNotFound, slug)
		}
	}

	for _, slug := range removed {
		_, err := tx.Exec(ctx, `
			DELETE FROM user_roles
			WHERE user_id = $1
			  AND role_id = (SELECT id FROM roles WHERE slug = $2)
		`, userID, slug)
		if err != nil {
			return nil, nil, fmt.Errorf("detach role %s: %w", slug, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return added, removed, nil
}

func (r *PgRepository) EnsureRole(ctx context.Context, slug, name string) (uuid.UUID, error) {
	id := uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO roles (id, slug, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, id, slug, name)
	if err := row.Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("ensure role %s: %w", slug, err)
	}
	return id, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
