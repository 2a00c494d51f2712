package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

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

// ServerConfig collects everything the HTTP layer needs.
type ServerConfig struct {
	Config       config.Config
	Logger       *logging.Logger
	Policy       *staff.Policy
	Sessions     *session.Store
	Users        staff.Repository
	Patients     *patient.Service
	Doctors      *doctor.Service
	Appointments *appointment.Service
	Reports      *report.Service
	Auditor      *audit.Recorder
	Metrics      *metrics.Metrics
	Authn        Authenticator
	Passwords    PasswordSetter
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Version      string
}

type Server struct {
	cfg       config.Config
	logger    *logging.Logger
	policy    *staff.Policy
	sessions  *session.Store
	users     staff.Repository
	patients  *patient.Service
	doctors   *doctor.Service
	appts     *appointment.Service
	reports   *report.Service
	auditor   *audit.Recorder
	metrics   *metrics.Metrics
	authn     Authenticator
	passwords PasswordSetter
	settings  *Settings
	pgPool    *pgxpool.Pool
	redis     *redis.Client
	version   string
}

func NewServer(sc ServerConfig) *Server {
	logger := sc.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Server{
		cfg:       sc.Config,
		logger:    logger,
		policy:    sc.Policy,
		sessions:  sc.Sessions,
		users:     sc.Users,
		patients:  sc.Patients,
		doctors:   sc.Doctors,
		appts:     sc.Appointments,
		reports:   sc.Reports,
		auditor:   sc.Auditor,
		metrics:   sc.Metrics,
		authn:     sc.Authn,
		passwords: sc.Passwords,
		settings:  NewSettings(sc.Config),
		pgPool:    sc.PgPool,
		redis:     sc.Redis,
		version:   sc.Version,
	}
}
