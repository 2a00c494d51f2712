package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	// StatusPending is the patient-requested state awaiting front-desk
	// confirmation. StatusScheduled is a confirmed booking holding its slot.
	StatusPending   Status = "PENDING"
	StatusScheduled Status = "SCHEDULED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	// ScheduledAt is the slot under conflict consideration, minute precision.
	ScheduledAt time.Time
	Reason      string
	Status      Status
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Detail is an appointment hydrated with the names shown on list pages.
type Detail struct {
	Appointment
	PatientName          string
	DoctorName           string
	DoctorSpecialization string
}
