package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/careops/hospital-frontdesk/internal/api"
	"github.com/careops/hospital-frontdesk/internal/appointment"
	"github.com/careops/hospital-frontdesk/internal/audit"
	"github.com/careops/hospital-frontdesk/internal/config"
	"github.com/careops/hospital-frontdesk/internal/db"
	"github.com/careops/hospital-frontdesk/internal/doctor"
	"github.com/careops/hospital-frontdesk/internal/metrics"
	"github.com/careops/hospital-frontdesk/internal/patient"
	"github.com/careops/hospital-frontdesk/internal/report"
	"github.com/careops/hospital-frontdesk/internal/session"
	"github.com/careops/hospital-frontdesk/internal/staff"
	"github.com/careops/hospital-frontdesk/pkg/logging"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("config load error", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("api-server starting",
		"env", cfg.Env,
		"http_port", cfg.HTTPPort,
		"version", version,
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Error("postgres connection error", "error", err)
		os.Exit(1)
	}
	defer pgPool.Close()
	logger.Info("connected to postgres")

	rdb, err := session.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Error("redis connection error", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error("closing redis", "error", err)
		}
	}()
	logger.Info("connected to redis")

	m := metrics.New(prometheus.DefaultRegisterer)

	userRepo := staff.NewPgRepository(pgPool)
	authn := staff.NewPgAuthenticator(pgPool)
	policy := staff.NewPolicy(cfg.RequireTwoFactor)
	sessions := session.NewStore(rdb, cfg.SessionTimeout, cfg.LoginAttempts)

	auditor := audit.NewRecorder(audit.NewPgRepository(pgPool), logger.Logger, m.ObserveAuditFailure)

	patientRepo := patient.NewPgRepository(pgPool)
	doctorRepo := doctor.NewPgRepository(pgPool)
	patientSvc := patient.NewService(patientRepo)
	doctorSvc := doctor.NewService(doctorRepo)
	apptSvc := appointment.NewService(appointment.NewPgRepository(pgPool), patientRepo, doctorRepo)
	reportSvc := report.NewService(report.NewPgRepository(pgPool))

	server := api.NewServer(api.ServerConfig{
		Config:       cfg,
		Logger:       logger,
		Policy:       policy,
		Sessions:     sessions,
		Users:        userRepo,
		Patients:     patientSvc,
		Doctors:      doctorSvc,
		Appointments: apptSvc,
		Reports:      reportSvc,
		Auditor:      auditor,
		Metrics:      m,
		Authn:        authn,
		Passwords:    authn,
		PgPool:       pgPool,
		Redis:        rdb,
		Version:      version,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
