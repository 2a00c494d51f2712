package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/careops/hospital-frontdesk/internal/staff"
)

func (s *Server) listAuditHandler(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	entries, err := s.auditor.List(r.Context(), limit, offset)
	if err != nil {
		s.logger.Error("list audit entries", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not list audit entries")
		return
	}

	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toAuditEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.settings.snapshot())
}

// updateSettingsHandler flips the runtime toggles. Only maintenance mode is
// mutable while the service runs; the rest requires a restart and is rejected
// if sent.
func (s *Server) updateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	if req.MaintenanceMode != nil {
		s.settings.SetMaintenanceMode(*req.MaintenanceMode)
		s.logger.Info("maintenance mode changed", "enabled", *req.MaintenanceMode)
	}

	writeJSON(w, http.StatusOK, s.settings.snapshot())
}

type CreateUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

type UserResponse struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Role             string    `json:"role"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	PhoneNumber      string    `json:"phone_number,omitempty"`
}

func toUserResponse(u *staff.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Role:             string(u.Role),
		TwoFactorEnabled: u.TwoFactorEnabled,
		PhoneNumber:      u.PhoneNumber,
	}
}

func (s *Server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	users, err := s.users.ListUsers(r.Context(), limit, offset)
	if err != nil {
		s.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not list users")
		return
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	role := staff.Role(strings.ToUpper(req.Role))
	if !role.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_role", "role must be one of ADMIN, DOCTOR, NURSE, STAFF")
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "username and email are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "weak_password", "password must be at least 8 characters")
		return
	}

	u, err := s.users.CreateUser(r.Context(), staff.User{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        role,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		s.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not create user")
		return
	}

	if err := s.passwords.SetPassword(r.Context(), u.ID, req.Password); err != nil {
		s.logger.Error("set user password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not store user credentials")
		return
	}

	setAuditEntityID(r, u.ID.String())
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (s *Server) updateUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "user id must be a UUID")
		return
	}

	var req UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	role := staff.Role(strings.ToUpper(req.Role))
	if !role.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_role", "role must be one of ADMIN, DOCTOR, NURSE, STAFF")
		return
	}

	u, err := s.users.UpdateUserRole(r.Context(), id, role)
	if err != nil {
		if errors.Is(err, staff.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", err.Error())
			return
		}
		s.logger.Error("update user role", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not update user role")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}
