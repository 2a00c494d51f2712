package doctor

import (
	"time"

	"github.com/google/uuid"
)

type Specialization string

const (
	SpecCardiology  Specialization = "CARDIOLOGY"
	SpecDermatology Specialization = "DERMATOLOGY"
	SpecNeurology   Specialization = "NEUROLOGY"
	SpecPediatrics  Specialization = "PEDIATRICS"
	SpecOrthopedics Specialization = "ORTHOPEDICS"
)

var Specializations = []Specialization{
	SpecCardiology,
	SpecDermatology,
	SpecNeurology,
	SpecPediatrics,
	SpecOrthopedics,
}

func (s Specialization) Valid() bool {
	for _, known := range Specializations {
		if s == known {
			return true
		}
	}
	return false
}

type Doctor struct {
	ID             uuid.UUID
	FirstName      string
	LastName       string
	Specialization Specialization
	PhoneNumber    string
	Email          string
	// Schedule is the free-text working-hours description shown on the roster,
	// e.g. "Monday-Friday: 9:00 AM - 5:00 PM". It is informational only.
	Schedule    string
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
