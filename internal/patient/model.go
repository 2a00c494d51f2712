package patient

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Blood groups recognised by the registration form. Optional on intake.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

func ValidBloodGroup(bg string) bool {
	for _, known := range BloodGroups {
		if bg == known {
			return true
		}
	}
	return false
}

type Patient struct {
	ID             uuid.UUID
	FirstName      string
	LastName       string
	DateOfBirth    time.Time
	Gender         Gender
	BloodGroup     *string
	PhoneNumber    string
	Email          *string
	Address        string
	MedicalHistory string
	PhotoURL       *string
	RegisteredAt   time.Time
	UpdatedAt      time.Time
}
