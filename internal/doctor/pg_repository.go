package doctor

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

const doctorColumns = `id, first_name, last_name, specialization, phone_number, email, schedule, is_available, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.FirstName,
		&d.LastName,
		&d.Specialization,
		&d.PhoneNumber,
		&d.Email,
		&d.Schedule,
		&d.IsAvailable,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) Create(ctx context.Context, d Doctor) (*Doctor, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (id, first_name, last_name, specialization, phone_number, email, schedule, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING `+doctorColumns+`
	`, d.ID, d.FirstName, d.LastName, d.Specialization, d.PhoneNumber, d.Email, d.Schedule, d.IsAvailable)

	return scanDoctor(row)
}

func (r *PgRepository) Update(ctx context.Context, d Doctor) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE doctors
		SET first_name = $2,
		    last_name = $3,
		    specialization = $4,
		    phone_number = $5,
		    email = $6,
		    schedule = $7,
		    is_available = $8,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+doctorColumns+`
	`, d.ID, d.FirstName, d.LastName, d.Specialization, d.PhoneNumber, d.Email, d.Schedule, d.IsAvailable)

	return scanDoctor(row)
}

func (r *PgRepository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors
		WHERE 1=1`
	args := []any{}
	argn := 0

	if filter.AvailableOnly {
		query += ` AND is_available = true`
	}
	if filter.Specialization != nil {
		argn++
		query += fmt.Sprintf(` AND specialization = $%d`, argn)
		args = append(args, *filter.Specialization)
	}

	query += fmt.Sprintf(` ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`, argn+1, argn+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
