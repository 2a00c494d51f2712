package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/careops/hospital-frontdesk/internal/staff"
)

// Router assembles the HTTP surface. Health, metrics and login are public;
// everything else sits behind authentication, the maintenance gate and the
// per-route access policy.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(s.requestLogger)

	r.Get("/health/live", s.livenessHandler)
	r.Get("/health/ready", s.readinessHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", s.loginHandler)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		// Logout and 2FA enrollment stay reachable during maintenance.
		r.Post("/auth/logout", s.logoutHandler)
		r.Post("/auth/2fa/setup", s.twoFactorSetupHandler)

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(s.maintenanceGate)

			r.Route("/patients", func(r chi.Router) {
				r.Get("/", s.protect(staff.ActionReadPatient, "patient", s.listPatientsHandler))
				r.Post("/", s.protect(staff.ActionCreatePatient, "patient", s.createPatientHandler))
				r.Get("/{id}", s.protect(staff.ActionReadPatient, "patient", s.getPatientHandler))
				r.Put("/{id}", s.protect(staff.ActionUpdatePatient, "patient", s.updatePatientHandler))
			})

			r.Route("/doctors", func(r chi.Router) {
				r.Get("/", s.protect(staff.ActionReadDoctor, "doctor", s.listDoctorsHandler))
				r.Post("/", s.protect(staff.ActionCreateDoctor, "doctor", s.createDoctorHandler))
				r.Get("/{id}", s.protect(staff.ActionReadDoctor, "doctor", s.getDoctorHandler))
				r.Put("/{id}", s.protect(staff.ActionUpdateDoctor, "doctor", s.updateDoctorHandler))
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", s.protect(staff.ActionReadAppointment, "appointment", s.listAppointmentsHandler))
				r.Post("/", s.protect(staff.ActionCreateAppointment, "appointment", s.bookAppointmentHandler))
				r.Get("/{id}", s.protect(staff.ActionReadAppointment, "appointment", s.getAppointmentHandler))
				r.Post("/{id}/confirm", s.protect(staff.ActionUpdateAppointment, "appointment", s.confirmAppointmentHandler))
				r.Post("/{id}/cancel", s.protect(staff.ActionCancelAppointment, "appointment", s.cancelAppointmentHandler))
				r.Post("/{id}/complete", s.protect(staff.ActionCompleteAppointment, "appointment", s.completeAppointmentHandler))
				r.Put("/{id}/reschedule", s.protect(staff.ActionUpdateAppointment, "appointment", s.rescheduleAppointmentHandler))
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/summary", s.protect(staff.ActionReadReport, "report", s.reportSummaryHandler))
				r.Get("/appointments", s.protect(staff.ActionReadReport, "report", s.reportAppointmentsHandler))
				r.Get("/doctors", s.protect(staff.ActionReadReport, "report", s.reportDoctorsHandler))
				r.Get("/patients", s.protect(staff.ActionReadReport, "report", s.reportPatientsHandler))
			})

			r.Get("/audit", s.protect(staff.ActionReadAudit, "audit", s.listAuditHandler))

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", s.protect(staff.ActionManageSettings, "settings", s.getSettingsHandler))
				r.Put("/", s.protect(staff.ActionManageSettings, "settings", s.updateSettingsHandler))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.protect(staff.ActionManageUsers, "user", s.listUsersHandler))
				r.Post("/", s.protect(staff.ActionManageUsers, "user", s.createUserHandler))
				r.Put("/{id}/role", s.protect(staff.ActionManageUsers, "user", s.updateUserRoleHandler))
			})
		})
	})

	return r
}
