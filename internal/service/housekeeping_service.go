package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultHousekeepingSchedule runs every five minutes, seconds precision.
const DefaultHousekeepingSchedule = "0 */5 * * * *"

type sessionEvictor interface {
	EvictIdle() int
}

type exportCleaner interface {
	Cleanup(ttl time.Duration) ([]string, error)
}

type auditPruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// HousekeepingConfig tunes the periodic cleanup.
type HousekeepingConfig struct {
	Schedule       string
	ExportTTL      time.Duration
	AuditRetention time.Duration
}

// HousekeepingService evicts idle workspaces, removes expired exports and
// prunes old audit rows on a cron schedule.
type HousekeepingService struct {
	sessions sessionEvictor
	exports  exportCleaner
	audit    auditPruner
	logger   *zap.Logger
	cfg      HousekeepingConfig
	cron     *cron.Cron
}

// NewHousekeepingService constructs the service. exports and audit may be nil.
func NewHousekeepingService(sessions sessionEvictor, exports exportCleaner, audit auditPruner, logger *zap.Logger, cfg HousekeepingConfig) *HousekeepingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultHousekeepingSchedule
	}
	return &HousekeepingService{
		sessions: sessions,
		exports:  exports,
		audit:    audit,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start registers the sweep and starts the scheduler.
func (s *HousekeepingService) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("schedule housekeeping %q: %w", s.cfg.Schedule, err)
	}
	s.cron.Start()
	s.logger.Info("housekeeping started", zap.String("schedule", s.cfg.Schedule))
	return nil
}

// Stop halts the scheduler and waits for a running sweep.
func (s *HousekeepingService) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("housekeeping stopped")
}

// HousekeepingReport summarises a sweep.
type HousekeepingReport struct {
	EvictedSessions int
	RemovedExports  int
	PrunedAudit     int64
}

// RunOnce performs a single sweep. Individual step failures are logged.
func (s *HousekeepingService) RunOnce(ctx context.Context) HousekeepingReport {
	var report HousekeepingReport
	if s.sessions != nil {
		report.EvictedSessions = s.sessions.EvictIdle()
	}
	if s.exports != nil {
		removed, err := s.exports.Cleanup(s.cfg.ExportTTL)
		if err != nil {
			s.logger.Warn("export cleanup failed", zap.Error(err))
		}
		report.RemovedExports = len(removed)
	}
	if s.audit != nil && s.cfg.AuditRetention > 0 {
		pruned, err := s.audit.Prune(ctx, s.cfg.AuditRetention)
		if err != nil {
			s.logger.Warn("audit prune failed", zap.Error(err))
		}
		report.PrunedAudit = pruned
	}
	s.logger.Debug("housekeeping sweep",
		zap.Int("evicted_sessions", report.EvictedSessions),
		zap.Int("removed_exports", report.RemovedExports),
		zap.Int64("pruned_audit", report.PrunedAudit),
	)
	return report
}
