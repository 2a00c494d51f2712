package staff

import (
	"context"
	"errors"

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

const userColumns = `id, username, email, first_name, last_name, role, two_factor_enabled, phone_number, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.TwoFactorEnabled,
		&u.PhoneNumber,
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

func (r *PgRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *PgRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1
	`, username)
	return scanUser(row)
}

func (r *PgRepository) CreateUser(ctx context.Context, u User) (*User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, email, first_name, last_name, role, two_factor_enabled, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING `+userColumns+`
	`, u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Role, u.TwoFactorEnabled, u.PhoneNumber)

	return scanUser(row)
}

func (r *PgRepository) UpdateUserRole(ctx context.Context, id uuid.UUID, role Role) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET role = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, role)

	return scanUser(row)
}

func (r *PgRepository) SetTwoFactorEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET two_factor_enabled = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, enabled)

	return scanUser(row)
}

func (r *PgRepository) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY username
		LIMIT $1 OFFSET $2
	`, limit, offset)
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

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
