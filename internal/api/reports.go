package api

import (
	"net/http"

	"github.com/careops/hospital-frontdesk/internal/report"
)

func (s *Server) report(w http.ResponseWriter, r *http.Request) (*report.Summary, bool) {
	summary, err := s.reports.Summary(r.Context())
	if err != nil {
		s.logger.Error("report summary", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not compute report")
		return nil, false
	}
	return summary, true
}

func (s *Server) reportSummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.report(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) reportAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.report(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summary.Appointments)
}

func (s *Server) reportDoctorsHandler(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.report(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summary.Doctors)
}

func (s *Server) reportPatientsHandler(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.report(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summary.Patients)
}
