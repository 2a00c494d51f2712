package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/careops/hospital-frontdesk/internal/audit"
	"github.com/careops/hospital-frontdesk/internal/session"
	"github.com/careops/hospital-frontdesk/internal/staff"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	actorKey     contextKey = "actor"
	sessionIDKey contextKey = "session_id"
	auditNoteKey contextKey = "audit_note"
)

// RequestIDMiddleware adds a unique request ID to each request context.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// requestLogger logs each request with method, route, status, duration and
// request ID, and feeds the request counter.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}

		s.metrics.ObserveRequest(r.Method, route, strconv.Itoa(wrapped.statusCode))
		s.logger.Info("http request",
			"method", r.Method,
			"route", route,
			"status", wrapped.statusCode,
			"duration", time.Since(start).String(),
			"request_id", GetRequestID(r.Context()),
		)
	})
}

// maintenanceGate rejects mutating requests while maintenance mode is on.
// Reads stay available so staff can still look records up, and the settings
// route is exempt so an admin can switch the mode back off.
func (s *Server) maintenanceGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/v1/settings") {
			next.ServeHTTP(w, r)
			return
		}
		if s.settings.MaintenanceMode() && r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeError(w, http.StatusServiceUnavailable, "maintenance_mode", "the system is under maintenance, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate validates the bearer token, touches the session so the idle
// timeout window slides, and attaches the actor to the context. An expired
// session forces re-authentication regardless of role.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.parseToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "a valid bearer token is required")
			return
		}

		if _, err := s.sessions.Touch(r.Context(), claims.SessionID); err != nil {
			if errors.Is(err, session.ErrSessionExpired) {
				writeJSON(w, http.StatusUnauthorized, ErrorResponse{
					Error:    "session_expired",
					Details:  "your session has expired, please login again",
					Redirect: "/auth/login",
				})
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "session check failed")
			return
		}

		actorID, err := uuid.Parse(claims.Subject)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "malformed token subject")
			return
		}

		actor := staff.Actor{
			ID:               actorID,
			Name:             claims.Name,
			Role:             staff.Role(claims.Role),
			TwoFactorEnabled: claims.TwoFactorEnabled,
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		ctx = context.WithValue(ctx, sessionIDKey, claims.SessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (staff.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(staff.Actor)
	return actor, ok
}

func sessionIDFromContext(ctx context.Context) string {
	if sid, ok := ctx.Value(sessionIDKey).(string); ok {
		return sid
	}
	return ""
}

// auditNote lets a handler report the id of the entity it created, since the
// URL carries none on creation.
type auditNote struct {
	entityID string
}

func setAuditEntityID(r *http.Request, id string) {
	if note, ok := r.Context().Value(auditNoteKey).(*auditNote); ok {
		note.entityID = id
	}
}

// protect evaluates the access policy for action, then runs the handler under
// the audit observer. Reads are policy-checked but only denials of them are
// audited; every mutating request gets exactly one audit entry, success or
// failure.
func (s *Server) protect(action staff.Action, entity string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		if err := s.policy.Authorize(actor, action); err != nil {
			s.recordAudit(r, actor, action, entity, chi.URLParam(r, "id"), audit.OutcomeDenied)
			if errors.Is(err, staff.ErrTwoFactorRequired) {
				s.metrics.ObserveAccessDenied(string(action), "two_factor")
				writeJSON(w, http.StatusForbidden, ErrorResponse{
					Error:    "two_factor_required",
					Details:  "two-factor authentication is required for this action",
					Redirect: "/auth/2fa/setup",
				})
				return
			}
			s.metrics.ObserveAccessDenied(string(action), "role")
			writeJSON(w, http.StatusForbidden, ErrorResponse{
				Error:    "forbidden",
				Details:  "you do not have permission to perform this action",
				Redirect: "/dashboard",
			})
			return
		}

		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			h(w, r)
			return
		}

		note := &auditNote{}
		r = r.WithContext(context.WithValue(r.Context(), auditNoteKey, note))

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		h(wrapped, r)

		outcome := audit.OutcomeSuccess
		if wrapped.statusCode >= 400 {
			outcome = audit.OutcomeFailure
		}
		entityID := note.entityID
		if entityID == "" {
			entityID = chi.URLParam(r, "id")
		}
		s.recordAudit(r, actor, action, entity, entityID, outcome)
	}
}

func (s *Server) recordAudit(r *http.Request, actor staff.Actor, action staff.Action, entity, entityID, outcome string) {
	actorID := actor.ID
	s.auditor.Record(r.Context(), audit.Entry{
		ActorID:   &actorID,
		ActorName: actor.Name,
		Action:    string(action),
		Entity:    entity,
		EntityID:  entityID,
		Outcome:   outcome,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
