package staff

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleDoctor Role = "DOCTOR"
	RoleNurse  Role = "NURSE"
	RoleStaff  Role = "STAFF"
)

// Valid reports whether r is one of the known roles. Unknown roles carry an
// empty allow-set and are denied everywhere.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RoleStaff:
		return true
	}
	return false
}

// User is a staff-side authentication identity. Doctors and patients own their
// demographic records; only staff actors log in.
type User struct {
	ID               uuid.UUID
	Username         string
	Email            string
	FirstName        string
	LastName         string
	Role             Role
	TwoFactorEnabled bool
	PhoneNumber      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Actor is the authenticated identity attached to a request. It is supplied by
// the auth middleware from token claims; the policy evaluator only reads it.
type Actor struct {
	ID               uuid.UUID
	Name             string
	Role             Role
	TwoFactorEnabled bool
}
