package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// ListFilter narrows appointment listings. Zero-value fields are ignored.
type ListFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    *Status
	// From/To bound ScheduledAt when set.
	From *time.Time
	To   *time.Time
}

// Repository contains all DB interactions needed by the lifecycle manager.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error)

	// HasScheduledAt is the validator's conflict probe: does doctorID already
	// hold a SCHEDULED appointment at exactly this instant?
	HasScheduledAt(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error)

	// Create persists a new appointment. A unique-index violation on the
	// (doctor, slot) pair surfaces as ErrSlotTaken so a concurrent double
	// booking loses cleanly.
	Create(ctx context.Context, a Appointment) (*Appointment, error)

	// UpdateStatus moves id from one of the given states to `to`, returning
	// ErrAppointmentNotFound if the row is missing or no longer in any `from`
	// state.
	UpdateStatus(ctx context.Context, id uuid.UUID, to Status, from ...Status) (*Appointment, error)

	// Reschedule moves id to a new slot, guarded the same way as UpdateStatus
	// and subject to the same uniqueness constraint as Create.
	Reschedule(ctx context.Context, id uuid.UUID, at time.Time, from ...Status) (*Appointment, error)

	List(ctx context.Context, filter ListFilter, limit, offset int) ([]Detail, error)
}
