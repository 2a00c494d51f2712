package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/careops/hospital-frontdesk/internal/appointment"
	"github.com/careops/hospital-frontdesk/internal/doctor"
	"github.com/careops/hospital-frontdesk/internal/validation"
)

func decodeDoctorInput(r *http.Request) (doctor.Input, error) {
	var req DoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return doctor.Input{}, err
	}
	return doctor.Input{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Specialization: doctor.Specialization(strings.ToUpper(req.Specialization)),
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		Schedule:       req.Schedule,
		IsAvailable:    req.IsAvailable,
	}, nil
}

func (s *Server) createDoctorHandler(w http.ResponseWriter, r *http.Request) {
	in, err := decodeDoctorInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	d, err := s.doctors.Create(r.Context(), in)
	if err != nil {
		var verr *validation.Errors
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return
		}
		s.logger.Error("create doctor", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not create doctor")
		return
	}

	setAuditEntityID(r, d.ID.String())
	writeJSON(w, http.StatusCreated, toDoctorResponse(d))
}

// getDoctorHandler returns the roster entry together with its upcoming live
// appointments, matching what the detail screen shows.
func (s *Server) getDoctorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "doctor id must be a UUID")
		return
	}

	d, err := s.doctors.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
			return
		}
		s.logger.Error("get doctor", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not load doctor")
		return
	}

	from := time.Now().UTC()
	upcoming, err := s.appts.List(r.Context(), appointment.ListFilter{
		DoctorID: &id,
		From:     &from,
	}, 20, 0)
	if err != nil {
		s.logger.Error("list doctor appointments", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not load doctor appointments")
		return
	}

	resp := DoctorDetailResponse{
		DoctorResponse:       toDoctorResponse(d),
		UpcomingAppointments: make([]AppointmentResponse, 0, len(upcoming)),
	}
	for i := range upcoming {
		if upcoming[i].Status.Terminal() {
			continue
		}
		resp.UpcomingAppointments = append(resp.UpcomingAppointments, toAppointmentResponse(&upcoming[i].Appointment))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) updateDoctorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "doctor id must be a UUID")
		return
	}

	in, err := decodeDoctorInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	d, err := s.doctors.Update(r.Context(), id, in)
	if err != nil {
		var verr *validation.Errors
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return
		}
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
			return
		}
		s.logger.Error("update doctor", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not update doctor")
		return
	}

	writeJSON(w, http.StatusOK, toDoctorResponse(d))
}

func (s *Server) listDoctorsHandler(w http.ResponseWriter, r *http.Request) {
	filter := doctor.ListFilter{
		AvailableOnly: r.URL.Query().Get("available") == "true",
	}
	if spec := r.URL.Query().Get("specialization"); spec != "" {
		sp := doctor.Specialization(strings.ToUpper(spec))
		if !sp.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_specialization", "unrecognised specialization")
			return
		}
		filter.Specialization = &sp
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	doctors, err := s.doctors.List(r.Context(), filter, limit, offset)
	if err != nil {
		s.logger.Error("list doctors", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not list doctors")
		return
	}

	out := make([]DoctorResponse, 0, len(doctors))
	for i := range doctors {
		out = append(out, toDoctorResponse(&doctors[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
