package patient

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

const patientColumns = `id, first_name, last_name, date_of_birth, gender, blood_group, phone_number, email, address, medical_history, photo_url, registered_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var bloodGroup, email, photoURL *string

	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&p.Gender,
		&bloodGroup,
		&p.PhoneNumber,
		&email,
		&p.Address,
		&p.MedicalHistory,
		&photoURL,
		&p.RegisteredAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	p.BloodGroup = bloodGroup
	p.Email = email
	p.PhotoURL = photoURL
	return &p, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) Create(ctx context.Context, p Patient) (*Patient, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, first_name, last_name, date_of_birth, gender, blood_group, phone_number, email, address, medical_history, photo_url, registered_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING `+patientColumns+`
	`, p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.BloodGroup, p.PhoneNumber, p.Email, p.Address, p.MedicalHistory, p.PhotoURL)

	return scanPatient(row)
}

func (r *PgRepository) Update(ctx context.Context, p Patient) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE patients
		SET first_name = $2,
		    last_name = $3,
		    date_of_birth = $4,
		    gender = $5,
		    blood_group = $6,
		    phone_number = $7,
		    email = $8,
		    address = $9,
		    medical_history = $10,
		    photo_url = $11,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+patientColumns+`
	`, p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.BloodGroup, p.PhoneNumber, p.Email, p.Address, p.MedicalHistory, p.PhotoURL)

	return scanPatient(row)
}

func (r *PgRepository) List(ctx context.Context, limit, offset int) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		ORDER BY registered_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
