package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-workspace/internal/models"
)

const defaultAuditLimit = 50

// AuditRepository persists workspace audit logs.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create stores an audit log entry.
func (r *AuditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO workspace_audit_logs (id, session_id, dataset, action, record_id, outcome, details, created_at)
VALUES (:id, :session_id, :dataset, :action, :record_id, :outcome, :details, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// List returns the newest audit logs, optionally narrowed to one dataset.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`SELECT id, session_id, dataset, action, record_id, outcome, details, created_at FROM workspace_audit_logs`)
	if filter.Dataset != "" {
		args = append(args, filter.Dataset)
		sb.WriteString(fmt.Sprintf(" WHERE dataset = $%d", len(args)))
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = defaultAuditLimit
	}
	args = append(args, limit)
	sb.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args)))

	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

// DeleteBefore prunes audit logs older than cutoff.
func (r *AuditRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workspace_audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune audit logs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
