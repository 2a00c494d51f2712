package api

import (
	"sync"

	"github.com/careops/hospital-frontdesk/internal/config"
)

// Settings holds the runtime-toggleable system settings. Maintenance mode can
// be flipped by an admin while the service runs; the remaining knobs are
// deploy-time configuration and surface here read-only.
type Settings struct {
	mu              sync.RWMutex
	maintenanceMode bool

	requireTwoFactor bool
	sessionTimeout   int
	loginAttempts    int
}

func NewSettings(cfg config.Config) *Settings {
	return &Settings{
		maintenanceMode:  cfg.MaintenanceMode,
		requireTwoFactor: cfg.RequireTwoFactor,
		sessionTimeout:   int(cfg.SessionTimeout.Minutes()),
		loginAttempts:    cfg.LoginAttempts,
	}
}

func (s *Settings) MaintenanceMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maintenanceMode
}

func (s *Settings) SetMaintenanceMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenanceMode = on
}

func (s *Settings) snapshot() SettingsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SettingsResponse{
		MaintenanceMode:       s.maintenanceMode,
		RequireTwoFactor:      s.requireTwoFactor,
		SessionTimeoutMinutes: s.sessionTimeout,
		AllowedLoginAttempts:  s.loginAttempts,
	}
}
