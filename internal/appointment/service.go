package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careops/hospital-frontdesk/internal/doctor"
	"github.com/careops/hospital-frontdesk/internal/patient"
	"github.com/careops/hospital-frontdesk/internal/validation"
)

var (
	ErrCancelCompleted   = errors.New("cannot cancel a completed appointment")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type patientGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type doctorGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}

// Service is the appointment lifecycle manager. Every transition runs the
// scheduling validator where a slot is involved, and a failed transition
// leaves the persisted state untouched.
type Service struct {
	repo      Repository
	patients  patientGetter
	doctors   doctorGetter
	validator *Validator
	now       func() time.Time
}

func NewService(repo Repository, patients patientGetter, doctors doctorGetter) *Service {
	return &Service{
		repo:      repo,
		patients:  patients,
		doctors:   doctors,
		validator: NewValidator(repo),
		now:       time.Now,
	}
}

type BookInput struct {
	PatientID   uuid.UUID
	DoctorID    uuid.UUID
	ScheduledAt time.Time
	Reason      string
	Notes       string
	// AsPending books a patient-requested appointment awaiting confirmation
	// rather than an immediately held SCHEDULED slot.
	AsPending bool
}

func (in BookInput) validate() error {
	var errs validation.Errors

	if in.PatientID == uuid.Nil {
		errs.Add("patient_id", "patient is required")
	}
	if in.DoctorID == uuid.Nil {
		errs.Add("doctor_id", "doctor is required")
	}
	if in.ScheduledAt.IsZero() {
		errs.Add("scheduled_at", "appointment date is required")
	}
	if strings.TrimSpace(in.Reason) == "" {
		errs.Add("reason", "reason for visit is required")
	}

	return errs.Err()
}

// Book validates the slot and persists the appointment. On any rejection
// nothing is written.
func (s *Service) Book(ctx context.Context, in BookInput) (*Appointment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.patients.GetByID(ctx, in.PatientID); err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}
	if _, err := s.doctors.GetByID(ctx, in.DoctorID); err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	if err := s.validator.Validate(ctx, in.DoctorID, in.ScheduledAt, s.now()); err != nil {
		return nil, err
	}

	status := StatusScheduled
	if in.AsPending {
		status = StatusPending
	}

	appt, err := s.repo.Create(ctx, Appointment{
		PatientID:   in.PatientID,
		DoctorID:    in.DoctorID,
		ScheduledAt: Slot(in.ScheduledAt),
		Reason:      strings.TrimSpace(in.Reason),
		Notes:       in.Notes,
		Status:      status,
	})
	if err != nil {
		// The partial unique index closes the validate-then-insert race.
		if errors.Is(err, ErrSlotTaken) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	return appt, nil
}

// Confirm moves a PENDING appointment to SCHEDULED, re-running the validator
// since the slot was not held while pending.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	if err := s.validator.Validate(ctx, appt.DoctorID, appt.ScheduledAt, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, StatusScheduled, StatusPending)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("confirm appointment: %w", err)
	}
	return updated, nil
}

// Cancel is permitted only from PENDING or SCHEDULED. A completed appointment
// stays completed.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status == StatusCompleted {
		return nil, ErrCancelCompleted
	}
	if appt.Status == StatusCancelled {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, id, StatusCancelled, StatusPending, StatusScheduled)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	return updated, nil
}

// Complete marks a SCHEDULED appointment COMPLETED, after which no transition
// is permitted.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != StatusScheduled {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, id, StatusCompleted, StatusScheduled)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("complete appointment: %w", err)
	}
	return updated, nil
}

// Reschedule moves a live appointment to a new slot. Validation failure
// leaves the prior slot untouched.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newAt time.Time) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status.Terminal() {
		return nil, ErrInvalidTransition
	}

	if err := s.validator.Validate(ctx, appt.DoctorID, newAt, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.repo.Reschedule(ctx, id, Slot(newAt), StatusPending, StatusScheduled)
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return nil, ErrSlotTaken
		}
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("reschedule appointment: %w", err)
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Detail, error) {
	if limit <= 0 {
		limit = 20 // default
	}
	if limit > 100 {
		limit = 100 // max
	}
	if offset < 0 {
		offset = 0
	}

	appointments, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}
