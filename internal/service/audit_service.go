package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/pkg/jobs"
)

// AuditJobType tags queued audit writes.
const AuditJobType = "workspace_audit"

type auditStore interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// AuditEntry describes one workspace mutation.
type AuditEntry struct {
	SessionID string
	Dataset   string
	Action    string
	RecordID  string
	Outcome   string
	Details   map[string]interface{}
}

// AuditService records workspace mutations, asynchronously when a queue is
// attached.
type AuditService struct {
	repo   auditStore
	queue  jobDispatcher
	logger *zap.Logger
	now    func() time.Time
}

// NewAuditService constructs the audit service. queue may be nil.
func NewAuditService(repo auditStore, queue jobDispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, queue: queue, logger: logger, now: time.Now}
}

// AttachQueue routes subsequent writes through queue. The queue handler is
// expected to be Handle.
func (s *AuditService) AttachQueue(queue jobDispatcher) {
	s.queue = queue
}

// Record persists entry. Failures are logged and never reach the caller.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	if s == nil || s.repo == nil {
		return
	}
	log, err := s.buildLog(entry)
	if err != nil {
		s.logger.Warn("build audit log failed", zap.String("action", entry.Action), zap.Error(err))
		return
	}

	if s.queue != nil {
		if err := s.queue.Enqueue(jobs.Job{ID: log.ID, Type: AuditJobType, Payload: log}); err != nil {
			s.logger.Warn("enqueue audit log failed", zap.String("id", log.ID), zap.Error(err))
		}
		return
	}
	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Warn("write audit log failed", zap.String("id", log.ID), zap.Error(err))
	}
}

// Handle processes a queued audit job.
func (s *AuditService) Handle(ctx context.Context, job jobs.Job) error {
	if job.Type != AuditJobType {
		return fmt.Errorf("unexpected job type %q", job.Type)
	}
	log, ok := job.Payload.(*models.AuditLog)
	if !ok || log == nil {
		return errors.New("audit job without payload")
	}
	return s.repo.Create(ctx, log)
}

// List returns recent audit logs.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	if s == nil || s.repo == nil {
		return []models.AuditLog{}, nil
	}
	if filter.Dataset != "" && !models.DatasetType(filter.Dataset).Valid() && filter.Dataset != MappingAuditDataset {
		return nil, validationError("unknown dataset")
	}
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

// Prune deletes logs older than retention.
func (s *AuditService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if s == nil || s.repo == nil || retention <= 0 {
		return 0, nil
	}
	return s.repo.DeleteBefore(ctx, s.now().Add(-retention))
}

func (s *AuditService) buildLog(entry AuditEntry) (*models.AuditLog, error) {
	log := &models.AuditLog{
		ID:        uuid.NewString(),
		SessionID: entry.SessionID,
		Dataset:   entry.Dataset,
		Action:    entry.Action,
		Outcome:   entry.Outcome,
		CreatedAt: s.now().UTC(),
	}
	if entry.RecordID != "" {
		id := entry.RecordID
		log.RecordID = &id
	}
	if len(entry.Details) > 0 {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return nil, err
		}
		log.Details = raw
	}
	return log, nil
}

type sessionContextKey struct{}

// ContextWithSessionID tags ctx with the workspace session id.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, id)
}

// SessionIDFromContext returns the session id stored by ContextWithSessionID.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey{}).(string)
	return id
}
