package staff

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// PgAuthenticator verifies staff credentials against the users table. The
// password hash never leaves this type; the User struct stays hash-free so
// profile reads cannot leak it.
type PgAuthenticator struct {
	pool *pgxpool.Pool
}

func NewPgAuthenticator(pool *pgxpool.Pool) *PgAuthenticator {
	return &PgAuthenticator{pool: pool}
}

func (a *PgAuthenticator) Authenticate(ctx context.Context, username, password string) (*User, error) {
	var (
		u    User
		hash string
	)

	row := a.pool.QueryRow(ctx, `
		SELECT `+userColumns+`, password_hash
		FROM users
		WHERE username = $1
	`, username)

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
		&hash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	if hash == "" {
		// Account exists but has never been issued a password.
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &u, nil
}

// SetPassword stores a fresh bcrypt hash for the account.
func (a *PgAuthenticator) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tag, err := a.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $2,
		    updated_at = now()
		WHERE id = $1
	`, id, string(hash))
	if err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
