package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-workspace/internal/models"
	appErrors "github.com/noah-isme/timetable-workspace/pkg/errors"
)

type typeOptionsSource interface {
	TypeOptions(ctx context.Context) models.TypeOptions
}

type sessionMetrics interface {
	BulkDeleteObserver
	SetActiveSessions(n int)
}

// SessionServiceConfig tunes the workspaces handed out by SessionService.
type SessionServiceConfig struct {
	IdleTTL               time.Duration
	BulkDeleteConcurrency int
	ToastDuration         time.Duration
}

// SessionService owns the live workspaces, one per console session.
type SessionService struct {
	api     workspaceAPI
	types   typeOptionsSource
	audit   AuditRecorder
	metrics sessionMetrics
	logger  *zap.Logger
	cfg     SessionServiceConfig
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Workspace
}

// NewSessionService constructs the service. types, audit and metrics may be nil.
func NewSessionService(api workspaceAPI, types typeOptionsSource, audit AuditRecorder, metrics sessionMetrics, logger *zap.Logger, cfg SessionServiceConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 2 * time.Hour
	}
	return &SessionService{
		api:      api,
		types:    types,
		audit:    audit,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*Workspace),
	}
}

// Create opens a workspace on ds and performs its initial load. A failed load
// does not fail creation; the workspace carries the error message instead.
func (s *SessionService) Create(ctx context.Context, ds models.DatasetType) (*Workspace, error) {
	if ds == "" {
		ds = models.DatasetBatches
	}
	if !ds.Valid() {
		return nil, validationError("unknown dataset")
	}

	opts := WorkspaceOptions{
		ID:                    uuid.NewString(),
		Dataset:               ds,
		BulkDeleteConcurrency: s.cfg.BulkDeleteConcurrency,
		ToastDuration:         s.cfg.ToastDuration,
		Audit:                 s.audit,
		Metrics:               s.metrics,
		Now:                   s.now,
	}
	ws := NewWorkspace(s.api, s.logger, opts)
	if s.types != nil {
		ws.SetTypeOptions(s.types.TypeOptions(ctx))
	}

	s.mu.Lock()
	s.sessions[ws.ID()] = ws
	count := len(s.sessions)
	s.mu.Unlock()
	s.reportCount(count)

	if err := ws.LoadData(ctx); err != nil {
		s.logger.Warn("initial workspace load failed", zap.String("session_id", ws.ID()), zap.Error(err))
	}
	return ws, nil
}

// Get returns the workspace for id.
func (s *SessionService) Get(id string) (*Workspace, error) {
	s.mu.RLock()
	ws, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	return ws, nil
}

// Delete closes the workspace for id.
func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	if _, ok := s.sessions[id]; !ok {
		s.mu.Unlock()
		return appErrors.ErrSessionNotFound
	}
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()
	s.reportCount(count)
	return nil
}

// EvictIdle closes workspaces idle for longer than the configured TTL and
// returns how many were removed.
func (s *SessionService) EvictIdle() int {
	cutoff := s.now().Add(-s.cfg.IdleTTL)

	s.mu.Lock()
	evicted := 0
	for id, ws := range s.sessions {
		if ws.LastActive().Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	if evicted > 0 {
		s.logger.Info("evicted idle workspaces", zap.Int("evicted", evicted), zap.Int("remaining", count))
	}
	s.reportCount(count)
	return evicted
}

// Count returns the number of live workspaces.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RefreshTypeOptions pushes fresh type options to every live workspace.
func (s *SessionService) RefreshTypeOptions(ctx context.Context) {
	if s.types == nil {
		return
	}
	opts := s.types.TypeOptions(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ws := range s.sessions {
		ws.SetTypeOptions(opts)
	}
}

func (s *SessionService) reportCount(n int) {
	if s.metrics != nil {
		s.metrics.SetActiveSessions(n)
	}
}
