package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/careops/hospital-frontdesk/internal/appointment"
	"github.com/careops/hospital-frontdesk/internal/doctor"
	"github.com/careops/hospital-frontdesk/internal/patient"
	"github.com/careops/hospital-frontdesk/internal/validation"
)

func (s *Server) bookAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var req BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	in := appointment.BookInput{
		Reason:    req.Reason,
		Notes:     req.Notes,
		AsPending: req.Pending,
	}
	if req.PatientID != "" {
		id, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "patient_id must be a UUID")
			return
		}
		in.PatientID = id
	}
	if req.DoctorID != "" {
		id, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "doctor_id must be a UUID")
			return
		}
		in.DoctorID = id
	}
	if req.ScheduledAt != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_scheduled_at", "scheduled_at must be RFC 3339")
			return
		}
		in.ScheduledAt = at
	}

	appt, err := s.appts.Book(r.Context(), in)
	if err != nil {
		s.writeAppointmentError(w, err, "could not book appointment")
		return
	}

	setAuditEntityID(r, appt.ID.String())
	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (s *Server) getAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "appointment id must be a UUID")
		return
	}

	detail, err := s.appts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, appointment.ErrAppointmentNotFound) {
			writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
			return
		}
		s.logger.Error("get appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not load appointment")
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentDetailResponse(detail))
}

func (s *Server) confirmAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	s.transitionAppointment(w, r, s.appts.Confirm, "could not confirm appointment")
}

func (s *Server) cancelAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	s.transitionAppointment(w, r, s.appts.Cancel, "could not cancel appointment")
}

func (s *Server) completeAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	s.transitionAppointment(w, r, s.appts.Complete, "could not complete appointment")
}

func (s *Server) transitionAppointment(
	w http.ResponseWriter,
	r *http.Request,
	transition func(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error),
	failMsg string,
) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "appointment id must be a UUID")
		return
	}

	appt, err := transition(r.Context(), id)
	if err != nil {
		s.writeAppointmentError(w, err, failMsg)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (s *Server) rescheduleAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "appointment id must be a UUID")
		return
	}

	var req RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}
	at, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_scheduled_at", "scheduled_at must be RFC 3339")
		return
	}

	appt, err := s.appts.Reschedule(r.Context(), id, at)
	if err != nil {
		s.writeAppointmentError(w, err, "could not reschedule appointment")
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (s *Server) listAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	var filter appointment.ListFilter

	if v := r.URL.Query().Get("doctor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "doctor_id must be a UUID")
			return
		}
		filter.DoctorID = &id
	}
	if v := r.URL.Query().Get("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "patient_id must be a UUID")
			return
		}
		filter.PatientID = &id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		st := appointment.Status(strings.ToUpper(v))
		if !st.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_status", "unrecognised appointment status")
			return
		}
		filter.Status = &st
	}
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_from", "from must be RFC 3339")
			return
		}
		filter.From = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_to", "to must be RFC 3339")
			return
		}
		filter.To = &t
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	details, err := s.appts.List(r.Context(), filter, limit, offset)
	if err != nil {
		s.logger.Error("list appointments", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not list appointments")
		return
	}

	out := make([]AppointmentDetailResponse, 0, len(details))
	for i := range details {
		out = append(out, toAppointmentDetailResponse(&details[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeAppointmentError maps lifecycle errors onto stable HTTP codes. Slot
// conflicts feed the conflict counter so repeated contention is visible.
func (s *Server) writeAppointmentError(w http.ResponseWriter, err error, fallback string) {
	var verr *validation.Errors
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, appointment.ErrSlotTaken):
		s.metrics.ObserveSlotConflict()
		writeError(w, http.StatusConflict, "slot_taken", err.Error())
	case errors.Is(err, appointment.ErrPastSlot):
		writeError(w, http.StatusUnprocessableEntity, "past_slot", err.Error())
	case errors.Is(err, appointment.ErrCancelCompleted):
		writeError(w, http.StatusConflict, "cancel_completed", err.Error())
	case errors.Is(err, appointment.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, patient.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, doctor.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	default:
		s.logger.Error("appointment operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}
