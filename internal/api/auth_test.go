package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/hospital-frontdesk/internal/audit"
	"github.com/careops/hospital-frontdesk/internal/staff"
)

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t)
	f.authn.user = &staff.User{
		ID:       uuid.New(),
		Username: "frontdesk",
		Role:     staff.RoleStaff,
	}

	rec := f.do(t, http.MethodPost, "/auth/login", "", `{"username":"frontdesk","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "frontdesk", resp.Username)
	assert.Equal(t, "STAFF", resp.Role)
	assert.WithinDuration(t, time.Now().Add(tokenTTL), resp.ExpiresAt, time.Minute)

	entry, ok := f.audits.last()
	require.True(t, ok)
	assert.Equal(t, "login", entry.Action)
	assert.Equal(t, audit.OutcomeSuccess, entry.Outcome)

	// The issued token works against a protected route.
	rec = f.do(t, http.MethodGet, "/api/v1/patients", resp.Token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	f.authn.user = &staff.User{ID: uuid.New(), Username: "frontdesk", Role: staff.RoleStaff}

	rec := f.do(t, http.MethodPost, "/auth/login", "", `{"username":"frontdesk","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_credentials")

	entry, ok := f.audits.last()
	require.True(t, ok)
	assert.Equal(t, audit.OutcomeFailure, entry.Outcome)
	assert.Equal(t, "frontdesk", entry.ActorName)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	f := newFixture(t)
	f.authn.user = &staff.User{ID: uuid.New(), Username: "frontdesk", Role: staff.RoleStaff}

	body := `{"username":"frontdesk","password":"wrong"}`
	for i := 0; i < 2; i++ {
		rec := f.do(t, http.MethodPost, "/auth/login", "", body)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d", i+1)
	}

	// Third failure trips the limit.
	rec := f.do(t, http.MethodPost, "/auth/login", "", body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "account_locked")

	// Even the correct password is refused while locked.
	calls := f.authn.calls
	rec = f.do(t, http.MethodPost, "/auth/login", "", `{"username":"frontdesk","password":"correct-horse"}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, calls, f.authn.calls, "locked account must not reach the authenticator")
}

func TestLoginMissingCredentials(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/auth/login", "", `{"username":"frontdesk"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionIdleTimeout(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, staff.RoleStaff, false)

	rec := f.do(t, http.MethodGet, "/api/v1/patients", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Idle past the timeout: the Redis key expires and the next request is
	// forced back to login.
	f.redis.FastForward(2 * time.Hour)

	rec = f.do(t, http.MethodGet, "/api/v1/patients", token, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "session_expired", resp.Error)
	assert.Equal(t, "/auth/login", resp.Redirect)
}

func TestSessionActivitySlidesTimeout(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, staff.RoleStaff, false)

	// Keep touching the session just inside the window; it must stay alive
	// well past a single timeout span.
	for i := 0; i < 3; i++ {
		f.redis.FastForward(50 * time.Minute)
		rec := f.do(t, http.MethodGet, "/api/v1/patients", token, "")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, staff.RoleStaff, false)

	rec := f.do(t, http.MethodPost, "/auth/logout", token, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/patients", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMissingTokenRejected(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/patients", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGarbageTokenRejected(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/patients", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTwoFactorSetup(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, staff.RoleStaff, false)

	rec := f.do(t, http.MethodPost, "/auth/2fa/setup", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"two_factor_enabled":true`)

	users, err := f.users.ListUsers(context.Background(), 50, 0)
	require.NoError(t, err)
	enabled := false
	for _, u := range users {
		if u.TwoFactorEnabled {
			enabled = true
		}
	}
	assert.True(t, enabled, "enrollment must persist on the account")

	entry, ok := f.audits.last()
	require.True(t, ok)
	assert.Equal(t, "enroll:two_factor", entry.Action)
}

func TestExpiredTokenRejected(t *testing.T) {
	f := newFixture(t)

	user := &staff.User{ID: uuid.New(), Username: "old", Role: staff.RoleStaff}
	f.users.put(*user)
	sid, err := f.sessions.Start(context.Background(), user.ID)
	require.NoError(t, err)

	// Signed far enough in the past that the exp claim has lapsed.
	token, _, err := f.server.signToken(user, sid, time.Now().Add(-2*tokenTTL))
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/v1/patients", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginAuditTrailOrder(t *testing.T) {
	f := newFixture(t)
	f.authn.user = &staff.User{ID: uuid.New(), Username: "frontdesk", Role: staff.RoleStaff}

	f.do(t, http.MethodPost, "/auth/login", "", `{"username":"frontdesk","password":"wrong"}`)
	f.do(t, http.MethodPost, "/auth/login", "", `{"username":"frontdesk","password":"correct-horse"}`)

	entries, err := f.audits.List(context.Background(), 50, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, audit.OutcomeSuccess, entries[0].Outcome)
	assert.Equal(t, audit.OutcomeFailure, entries[1].Outcome)
	for _, e := range entries {
		assert.Equal(t, "login", e.Action)
	}
}
