package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/careops/hospital-frontdesk/internal/appointment"
	"github.com/careops/hospital-frontdesk/internal/audit"
	"github.com/careops/hospital-frontdesk/internal/doctor"
	"github.com/careops/hospital-frontdesk/internal/patient"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	// Fields carries field-level validation messages so the form can be
	// re-rendered with the user's input preserved.
	Fields []FieldErrorResponse `json:"fields,omitempty"`
	// Redirect points the client at a safe next view (dashboard on a role
	// denial, the enrollment flow on a missing-2FA denial).
	Redirect string `json:"redirect,omitempty"`
}

type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	TwoFactor bool      `json:"two_factor_enabled"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RegisterPatientRequest struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	DateOfBirth    string  `json:"date_of_birth"` // YYYY-MM-DD
	Gender         string  `json:"gender"`
	BloodGroup     *string `json:"blood_group,omitempty"`
	PhoneNumber    string  `json:"phone_number"`
	Email          *string `json:"email,omitempty"`
	Address        string  `json:"address"`
	MedicalHistory string  `json:"medical_history"`
	PhotoURL       *string `json:"photo_url,omitempty"`
}

type PatientResponse struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	DateOfBirth    string    `json:"date_of_birth"`
	Gender         string    `json:"gender"`
	BloodGroup     *string   `json:"blood_group,omitempty"`
	PhoneNumber    string    `json:"phone_number"`
	Email          *string   `json:"email,omitempty"`
	Address        string    `json:"address"`
	MedicalHistory string    `json:"medical_history"`
	PhotoURL       *string   `json:"photo_url,omitempty"`
	RegisteredAt   time.Time `json:"registered_at"`
}

func toPatientResponse(p *patient.Patient) PatientResponse {
	return PatientResponse{
		ID:             p.ID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		DateOfBirth:    p.DateOfBirth.Format("2006-01-02"),
		Gender:         string(p.Gender),
		BloodGroup:     p.BloodGroup,
		PhoneNumber:    p.PhoneNumber,
		Email:          p.Email,
		Address:        p.Address,
		MedicalHistory: p.MedicalHistory,
		PhotoURL:       p.PhotoURL,
		RegisteredAt:   p.RegisteredAt,
	}
}

type DoctorRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Specialization string `json:"specialization"`
	PhoneNumber    string `json:"phone_number"`
	Email          string `json:"email"`
	Schedule       string `json:"schedule"`
	IsAvailable    bool   `json:"is_available"`
}

type DoctorResponse struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Specialization string    `json:"specialization"`
	PhoneNumber    string    `json:"phone_number"`
	Email          string    `json:"email"`
	Schedule       string    `json:"schedule"`
	IsAvailable    bool      `json:"is_available"`
}

func toDoctorResponse(d *doctor.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:             d.ID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Specialization: string(d.Specialization),
		PhoneNumber:    d.PhoneNumber,
		Email:          d.Email,
		Schedule:       d.Schedule,
		IsAvailable:    d.IsAvailable,
	}
}

type DoctorDetailResponse struct {
	DoctorResponse
	UpcomingAppointments []AppointmentResponse `json:"upcoming_appointments"`
}

type BookAppointmentRequest struct {
	PatientID   string `json:"patient_id"`
	DoctorID    string `json:"doctor_id"`
	ScheduledAt string `json:"scheduled_at"` // RFC 3339
	Reason      string `json:"reason"`
	Notes       string `json:"notes,omitempty"`
	// Pending requests a PENDING appointment awaiting staff confirmation.
	Pending bool `json:"pending,omitempty"`
}

type RescheduleRequest struct {
	ScheduledAt string `json:"scheduled_at"` // RFC 3339
}

type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		PatientID:   a.PatientID,
		DoctorID:    a.DoctorID,
		ScheduledAt: a.ScheduledAt,
		Reason:      a.Reason,
		Status:      string(a.Status),
		Notes:       a.Notes,
	}
}

type AppointmentDetailResponse struct {
	AppointmentResponse
	PatientName          string `json:"patient_name"`
	DoctorName           string `json:"doctor_name"`
	DoctorSpecialization string `json:"doctor_specialization"`
}

func toAppointmentDetailResponse(d *appointment.Detail) AppointmentDetailResponse {
	return AppointmentDetailResponse{
		AppointmentResponse:  toAppointmentResponse(&d.Appointment),
		PatientName:          d.PatientName,
		DoctorName:           d.DoctorName,
		DoctorSpecialization: d.DoctorSpecialization,
	}
}

type AuditEntryResponse struct {
	ID        int64     `json:"id"`
	ActorID   *string   `json:"actor_id,omitempty"`
	ActorName string    `json:"actor_name"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id,omitempty"`
	Outcome   string    `json:"outcome"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

func toAuditEntryResponse(e audit.Entry) AuditEntryResponse {
	resp := AuditEntryResponse{
		ID:        e.ID,
		ActorName: e.ActorName,
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		Outcome:   e.Outcome,
		IP:        e.IP,
		UserAgent: e.UserAgent,
		CreatedAt: e.CreatedAt,
	}
	if e.ActorID != nil {
		id := e.ActorID.String()
		resp.ActorID = &id
	}
	return resp
}

type SettingsResponse struct {
	MaintenanceMode       bool `json:"maintenance_mode"`
	RequireTwoFactor      bool `json:"require_two_factor"`
	SessionTimeoutMinutes int  `json:"session_timeout_minutes"`
	AllowedLoginAttempts  int  `json:"allowed_login_attempts"`
}

type UpdateSettingsRequest struct {
	MaintenanceMode *bool `json:"maintenance_mode,omitempty"`
}
