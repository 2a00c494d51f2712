package report

import "time"

// Summary is one consistent snapshot of the front-office counters, produced
// inside a single read-only transaction.
type Summary struct {
	GeneratedAt  time.Time         `json:"generated_at"`
	Appointments AppointmentStats  `json:"appointments"`
	Doctors      DoctorStats       `json:"doctors"`
	Patients     PatientStats      `json:"patients"`
}

type AppointmentStats struct {
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"by_status"`
	Today     int            `json:"today"`
	ThisMonth int            `json:"this_month"`
}

type DoctorStats struct {
	Total            int            `json:"total"`
	Available        int            `json:"available"`
	BySpecialization map[string]int `json:"by_specialization"`
}

type PatientStats struct {
	Total        int            `json:"total"`
	ByGender     map[string]int `json:"by_gender"`
	ByBloodGroup map[string]int `json:"by_blood_group"`
}
