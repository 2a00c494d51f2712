package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/careops/hospital-frontdesk/internal/audit"
	"github.com/careops/hospital-frontdesk/internal/staff"
)

// Authenticator verifies staff credentials. Credential storage and
// verification live behind this boundary; handlers only see the account.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*staff.User, error)
}

// PasswordSetter issues or replaces an account password.
type PasswordSetter interface {
	SetPassword(ctx context.Context, id uuid.UUID, password string) error
}

const tokenTTL = 12 * time.Hour

// Claims carried by the bearer token: identity, role and 2FA status for the
// policy evaluator, plus the session id for the freshness check.
type Claims struct {
	Name             string `json:"name"`
	Role             string `json:"role"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
	SessionID        string `json:"sid"`
	jwt.RegisteredClaims
}

func (s *Server) parseToken(r *http.Request) (*Claims, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		return nil, errors.New("missing authorization header")
	}
	tokenString := strings.TrimPrefix(auth, "Bearer ")

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *Server) signToken(user *staff.User, sessionID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(tokenTTL)
	claims := Claims{
		Name:             user.FirstName + " " + user.LastName,
		Role:             string(user.Role),
		TwoFactorEnabled: user.TwoFactorEnabled,
		SessionID:        sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials", "username and password are required")
		return
	}

	locked, err := s.sessions.Locked(r.Context(), req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "login check failed")
		return
	}
	if locked {
		writeError(w, http.StatusTooManyRequests, "account_locked", "too many failed login attempts, try again later")
		return
	}

	user, err := s.authn.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, staff.ErrInvalidCredentials) {
			_, lockedNow, recErr := s.sessions.RecordLoginFailure(r.Context(), req.Username)
			if recErr != nil {
				s.logger.Error("record login failure", "error", recErr)
			}
			s.auditor.Record(r.Context(), audit.Entry{
				ActorName: req.Username,
				Action:    "login",
				Entity:    "session",
				Outcome:   audit.OutcomeFailure,
				IP:        clientIP(r),
				UserAgent: r.UserAgent(),
			})
			if lockedNow {
				writeError(w, http.StatusTooManyRequests, "account_locked", "too many failed login attempts, try again later")
				return
			}
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "login failed")
		return
	}

	if err := s.sessions.ClearLoginFailures(r.Context(), req.Username); err != nil {
		s.logger.Error("clear login failures", "error", err)
	}

	sessionID, err := s.sessions.Start(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not start session")
		return
	}

	token, expiresAt, err := s.signToken(user, sessionID, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not issue token")
		return
	}

	userID := user.ID
	s.auditor.Record(r.Context(), audit.Entry{
		ActorID:   &userID,
		ActorName: user.Username,
		Action:    "login",
		Entity:    "session",
		Outcome:   audit.OutcomeSuccess,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	})

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		Username:  user.Username,
		Role:      string(user.Role),
		TwoFactor: user.TwoFactorEnabled,
		ExpiresAt: expiresAt,
	})
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if sid := sessionIDFromContext(r.Context()); sid != "" {
		if err := s.sessions.End(r.Context(), sid); err != nil {
			s.logger.Error("end session", "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// twoFactorSetupHandler is the enrollment flow users are routed to when a
// sensitive action is blocked on a missing 2FA flag.
func (s *Server) twoFactorSetupHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	user, err := s.users.SetTwoFactorEnabled(r.Context(), actor.ID, true)
	if err != nil {
		if errors.Is(err, staff.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "could not enable two-factor authentication")
		return
	}

	actorID := actor.ID
	s.auditor.Record(r.Context(), audit.Entry{
		ActorID:   &actorID,
		ActorName: actor.Name,
		Action:    "enroll:two_factor",
		Entity:    "user",
		EntityID:  user.ID.String(),
		Outcome:   audit.OutcomeSuccess,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"two_factor_enabled": user.TwoFactorEnabled,
		"detail":             "two-factor authentication enabled; tokens issued after your next login carry the updated status",
	})
}
