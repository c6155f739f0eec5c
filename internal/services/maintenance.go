package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/axsec/backend/internal/infrastructure/history"
	"github.com/axsec/backend/repository"
)

// CreditResetter zeroes the daily usage counters across the directory.
type CreditResetter interface {
	ResetAllCredits(ctx context.Context) (int, error)
}

// MaintenanceConfig controls the scheduled jobs.
type MaintenanceConfig struct {
	// CreditResetSpec is a six-field cron expression; the default fires at
	// midnight UTC.
	CreditResetSpec  string
	SweepInterval    time.Duration
	HistoryRetention time.Duration
}

// Maintenance runs the periodic jobs the platform needs: the daily credit
// boundary, expired-session sweeps and history retention.
type Maintenance struct {
	credits  CreditResetter
	sessions repository.SessionRepository
	history  *history.Store
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      MaintenanceConfig
}

func NewMaintenance(
	credits CreditResetter,
	sessions repository.SessionRepository,
	hist *history.Store,
	logger *zap.Logger,
	cfg MaintenanceConfig,
) *Maintenance {
	if cfg.CreditResetSpec == "" {
		cfg.CreditResetSpec = "0 0 0 * * *"
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 10 * time.Minute
	}
	if cfg.HistoryRetention <= 0 {
		cfg.HistoryRetention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Maintenance{
		credits:  credits,
		sessions: sessions,
		history:  hist,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
	}

	_, _ = m.cron.AddFunc(cfg.CreditResetSpec, m.resetCredits)

	sweep := fmt.Sprintf("@every %ds", int(cfg.SweepInterval.Seconds()))
	_, _ = m.cron.AddFunc(sweep, m.sweep)

	return m
}

// Start launches the cron scheduler.
func (m *Maintenance) Start() {
	if m == nil || m.cron == nil {
		return
	}
	m.cron.Start()
	m.logger.Info("maintenance scheduler started")
}

// Stop gracefully stops the scheduler.
func (m *Maintenance) Stop(ctx context.Context) {
	if m == nil || m.cron == nil {
		return
	}
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	m.logger.Info("maintenance scheduler stopped")
}

func (m *Maintenance) resetCredits() {
	if m.credits == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	reset, err := m.credits.ResetAllCredits(ctx)
	if err != nil {
		m.logger.Error("daily credit reset failed", zap.Error(err))
		return
	}
	m.logger.Info("daily credit reset complete", zap.Int("accounts", reset))
}

func (m *Maintenance) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if m.sessions != nil {
		dropped, err := m.sessions.DeleteExpired(ctx)
		if err != nil {
			m.logger.Error("session sweep failed", zap.Error(err))
		} else if dropped > 0 {
			m.logger.Info("expired sessions removed", zap.Int("sessions", dropped))
		}
	}

	if m.history != nil {
		cutoff := time.Now().Add(-m.cfg.HistoryRetention)
		if err := m.history.Cleanup(cutoff); err != nil {
			m.logger.Error("history retention sweep failed", zap.Error(err))
		}
	}
}
