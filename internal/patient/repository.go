package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrPatientNotFound = errors.New("patient not found")

// Repository contains the DB interactions needed by the patient service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Create(ctx context.Context, p Patient) (*Patient, error)
	Update(ctx context.Context, p Patient) (*Patient, error)
	// List returns patients newest-registration-first.
	List(ctx context.Context, limit, offset int) ([]Patient, error)
}
