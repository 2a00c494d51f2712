package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrDoctorNotFound = errors.New("doctor not found")

// ListFilter narrows the roster listing. AvailableOnly backs the booking form's
// doctor pool; availability is advisory and never blocks a booking outright.
type ListFilter struct {
	AvailableOnly  bool
	Specialization *Specialization
}

// Repository contains the DB interactions needed by the doctor service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Create(ctx context.Context, d Doctor) (*Doctor, error)
	Update(ctx context.Context, d Doctor) (*Doctor, error)
	// List returns doctors ordered by last name then first name.
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]Doctor, error)
}
