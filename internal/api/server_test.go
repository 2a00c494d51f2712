package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/careops/hospital-frontdesk/internal/appointment"
	"github.com/careops/hospital-frontdesk/internal/audit"
	"github.com/careops/hospital-frontdesk/internal/config"
	"github.com/careops/hospital-frontdesk/internal/doctor"
	"github.com/careops/hospital-frontdesk/internal/metrics"
	"github.com/careops/hospital-frontdesk/internal/patient"
	"github.com/careops/hospital-frontdesk/internal/report"
	"github.com/careops/hospital-frontdesk/internal/session"
	"github.com/careops/hospital-frontdesk/internal/staff"
	"github.com/careops/hospital-frontdesk/pkg/logging"
)

// fixture wires a full server against in-memory stores so handler tests
// exercise the real router, middleware and policy stack.
type fixture struct {
	server   *Server
	handler  http.Handler
	sessions *session.Store
	redis    *miniredis.Miniredis

	users    *stubUserRepo
	patients *stubPatientRepo
	doctors  *stubDoctorRepo
	appts    *stubApptRepo
	audits   *stubAuditRepo
	authn    *stubAuthn
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.Config{
		Env:              "test",
		HTTPPort:         "8080",
		LogLevel:         "error",
		JWTSecret:        "test-secret",
		SessionTimeout:   time.Hour,
		LoginAttempts:    3,
		RequireTwoFactor: true,
	}

	f := &fixture{
		redis:    mr,
		users:    &stubUserRepo{users: map[uuid.UUID]staff.User{}},
		patients: &stubPatientRepo{patients: map[uuid.UUID]patient.Patient{}},
		doctors:  &stubDoctorRepo{doctors: map[uuid.UUID]doctor.Doctor{}},
		appts:    &stubApptRepo{appts: map[uuid.UUID]appointment.Appointment{}},
		audits:   &stubAuditRepo{},
		authn:    &stubAuthn{},
	}

	f.sessions = session.NewStore(rdb, cfg.SessionTimeout, cfg.LoginAttempts)

	logger := logging.New("error")
	patientSvc := patient.NewService(f.patients)
	doctorSvc := doctor.NewService(f.doctors)
	apptSvc := appointment.NewService(f.appts, f.patients, f.doctors)
	reportSvc := report.NewService(stubReportRepo{})

	f.server = NewServer(ServerConfig{
		Config:       cfg,
		Logger:       logger,
		Policy:       staff.NewPolicy(cfg.RequireTwoFactor),
		Sessions:     f.sessions,
		Users:        f.users,
		Patients:     patientSvc,
		Doctors:      doctorSvc,
		Appointments: apptSvc,
		Reports:      reportSvc,
		Auditor:      audit.NewRecorder(f.audits, logger.Logger, nil),
		Metrics:      metrics.New(prometheus.NewRegistry()),
		Authn:        f.authn,
		Passwords:    f.authn,
		Version:      "test",
	})
	f.handler = f.server.Router()
	return f
}

// token logs a fresh actor in: a live session plus a signed bearer token.
func (f *fixture) token(t *testing.T, role staff.Role, twoFactor bool) string {
	t.Helper()

	user := &staff.User{
		ID:               uuid.New(),
		Username:         strings.ToLower(string(role)) + "-user",
		FirstName:        "Test",
		LastName:         string(role),
		Role:             role,
		TwoFactorEnabled: twoFactor,
	}
	f.users.put(*user)

	sid, err := f.sessions.Start(context.Background(), user.ID)
	require.NoError(t, err)

	token, _, err := f.server.signToken(user, sid, time.Now())
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

// --- stubs ---

type stubAuthn struct {
	mu    sync.Mutex
	user  *staff.User
	calls int
}

func (a *stubAuthn) Authenticate(_ context.Context, username, password string) (*staff.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.user != nil && a.user.Username == username && password == "correct-horse" {
		u := *a.user
		return &u, nil
	}
	return nil, staff.ErrInvalidCredentials
}

func (a *stubAuthn) SetPassword(context.Context, uuid.UUID, string) error { return nil }

type stubUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]staff.User
}

func (r *stubUserRepo) put(u staff.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *stubUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (*staff.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, staff.ErrUserNotFound
	}
	return &u, nil
}

func (r *stubUserRepo) GetUserByUsername(_ context.Context, username string) (*staff.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, staff.ErrUserNotFound
}

func (r *stubUserRepo) CreateUser(_ context.Context, u staff.User) (*staff.User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.put(u)
	return &u, nil
}

func (r *stubUserRepo) UpdateUserRole(ctx context.Context, id uuid.UUID, role staff.Role) (*staff.User, error) {
	u, err := r.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	r.put(*u)
	return u, nil
}

func (r *stubUserRepo) SetTwoFactorEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*staff.User, error) {
	u, err := r.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.TwoFactorEnabled = enabled
	r.put(*u)
	return u, nil
}

func (r *stubUserRepo) ListUsers(context.Context, int, int) ([]staff.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]staff.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type stubPatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]patient.Patient
}

func (r *stubPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return &p, nil
}

func (r *stubPatientRepo) Create(_ context.Context, p patient.Patient) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New()
	p.RegisteredAt = time.Now().UTC()
	r.patients[p.ID] = p
	return &p, nil
}

func (r *stubPatientRepo) Update(_ context.Context, p patient.Patient) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[p.ID]; !ok {
		return nil, patient.ErrPatientNotFound
	}
	r.patients[p.ID] = p
	return &p, nil
}

func (r *stubPatientRepo) List(context.Context, int, int) ([]patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]patient.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.After(out[j].RegisteredAt) })
	return out, nil
}

type stubDoctorRepo struct {
	mu      sync.Mutex
	doctors map[uuid.UUID]doctor.Doctor
}

func (r *stubDoctorRepo) put(d doctor.Doctor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doctors[d.ID] = d
}

func (r *stubDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	return &d, nil
}

func (r *stubDoctorRepo) Create(_ context.Context, d doctor.Doctor) (*doctor.Doctor, error) {
	d.ID = uuid.New()
	r.put(d)
	return &d, nil
}

func (r *stubDoctorRepo) Update(_ context.Context, d doctor.Doctor) (*doctor.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doctors[d.ID]; !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	r.doctors[d.ID] = d
	return &d, nil
}

func (r *stubDoctorRepo) List(_ context.Context, filter doctor.ListFilter, _, _ int) ([]doctor.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]doctor.Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		if filter.AvailableOnly && !d.IsAvailable {
			continue
		}
		if filter.Specialization != nil && d.Specialization != *filter.Specialization {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

type stubApptRepo struct {
	mu    sync.Mutex
	appts map[uuid.UUID]appointment.Appointment
}

func (r *stubApptRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *stubApptRepo) GetDetail(ctx context.Context, id uuid.UUID) (*appointment.Detail, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &appointment.Detail{Appointment: *a}, nil
}

func (r *stubApptRepo) HasScheduledAt(_ context.Context, doctorID uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scheduledAtLocked(doctorID, at, uuid.Nil), nil
}

func (r *stubApptRepo) scheduledAtLocked(doctorID uuid.UUID, at time.Time, skip uuid.UUID) bool {
	for _, a := range r.appts {
		if a.ID != skip && a.DoctorID == doctorID && a.Status == appointment.StatusScheduled && a.ScheduledAt.Equal(at) {
			return true
		}
	}
	return false
}

func (r *stubApptRepo) Create(_ context.Context, a appointment.Appointment) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.Status == appointment.StatusScheduled && r.scheduledAtLocked(a.DoctorID, a.ScheduledAt, uuid.Nil) {
		return nil, appointment.ErrSlotTaken
	}
	a.ID = uuid.New()
	r.appts[a.ID] = a
	return &a, nil
}

func (r *stubApptRepo) UpdateStatus(_ context.Context, id uuid.UUID, to appointment.Status, from ...appointment.Status) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok || !statusIn(a.Status, from) {
		return nil, appointment.ErrAppointmentNotFound
	}
	a.Status = to
	r.appts[id] = a
	return &a, nil
}

func (r *stubApptRepo) Reschedule(_ context.Context, id uuid.UUID, at time.Time, from ...appointment.Status) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok || !statusIn(a.Status, from) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if a.Status == appointment.StatusScheduled && r.scheduledAtLocked(a.DoctorID, at, id) {
		return nil, appointment.ErrSlotTaken
	}
	a.ScheduledAt = at
	r.appts[id] = a
	return &a, nil
}

func (r *stubApptRepo) List(_ context.Context, filter appointment.ListFilter, _, _ int) ([]appointment.Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]appointment.Detail, 0, len(r.appts))
	for _, a := range r.appts {
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.From != nil && a.ScheduledAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && a.ScheduledAt.After(*filter.To) {
			continue
		}
		out = append(out, appointment.Detail{Appointment: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func statusIn(s appointment.Status, set []appointment.Status) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

type stubAuditRepo struct {
	mu      sync.Mutex
	entries []audit.Entry
	fail    bool
}

func (r *stubAuditRepo) Insert(_ context.Context, e audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("audit store down")
	}
	e.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, e)
	return nil
}

func (r *stubAuditRepo) List(context.Context, int, int) ([]audit.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]audit.Entry, len(r.entries))
	copy(out, r.entries)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *stubAuditRepo) last() (audit.Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return audit.Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

type stubReportRepo struct{}

func (stubReportRepo) Snapshot(context.Context, time.Time, time.Time) (*report.Summary, error) {
	return &report.Summary{
		Appointments: report.AppointmentStats{Total: 3, ByStatus: map[string]int{"SCHEDULED": 3}},
		Doctors:      report.DoctorStats{Total: 2, Available: 1, BySpecialization: map[string]int{"CARDIOLOGY": 2}},
		Patients:     report.PatientStats{Total: 5, ByGender: map[string]int{"F": 3, "M": 2}},
	}, nil
}
