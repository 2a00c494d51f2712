package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/careops/hospital-frontdesk/internal/patient"
	"github.com/careops/hospital-frontdesk/internal/validation"
)

func (s *Server) decodePatientInput(r *http.Request) (patient.RegisterInput, error) {
	var req RegisterPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return patient.RegisterInput{}, err
	}

	in := patient.RegisterInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Gender:         patient.Gender(req.Gender),
		BloodGroup:     req.BloodGroup,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
		PhotoURL:       req.PhotoURL,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return patient.RegisterInput{}, errors.New("date_of_birth must be YYYY-MM-DD")
		}
		in.DateOfBirth = dob
	}
	return in, nil
}

func (s *Server) createPatientHandler(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodePatientInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	p, err := s.patients.Register(r.Context(), in)
	if err != nil {
		var verr *validation.Errors
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return
		}
		s.logger.Error("register patient", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not register patient")
		return
	}

	setAuditEntityID(r, p.ID.String())
	writeJSON(w, http.StatusCreated, toPatientResponse(p))
}

func (s *Server) getPatientHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "patient id must be a UUID")
		return
	}

	p, err := s.patients.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
			return
		}
		s.logger.Error("get patient", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not load patient")
		return
	}

	writeJSON(w, http.StatusOK, toPatientResponse(p))
}

func (s *Server) updatePatientHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "patient id must be a UUID")
		return
	}

	in, err := s.decodePatientInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	p, err := s.patients.Update(r.Context(), id, in)
	if err != nil {
		var verr *validation.Errors
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return
		}
		if errors.Is(err, patient.ErrPatientNotFound) {
			writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
			return
		}
		s.logger.Error("update patient", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not update patient")
		return
	}

	writeJSON(w, http.StatusOK, toPatientResponse(p))
}

func (s *Server) listPatientsHandler(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	patients, err := s.patients.List(r.Context(), limit, offset)
	if err != nil {
		s.logger.Error("list patients", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not list patients")
		return
	}

	out := make([]PatientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, toPatientResponse(&patients[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
