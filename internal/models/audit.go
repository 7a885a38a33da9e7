package models

import (
	"encoding/json"
	"time"
)

// AuditAction constants name the workspace mutations that are recorded.
const (
	AuditActionCreate     = "RECORD_CREATE"
	AuditActionUpdate     = "RECORD_UPDATE"
	AuditActionDelete     = "RECORD_DELETE"
	AuditActionBulkDelete = "RECORD_BULK_DELETE"
	AuditActionUpload     = "CSV_UPLOAD"
	AuditActionMapping    = "YEAR_MAPPING_CHANGE"
)

// Audit outcomes.
const (
	AuditOutcomeSuccess = "SUCCESS"
	AuditOutcomePartial = "PARTIAL"
	AuditOutcomeFailure = "FAILURE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID        string          `db:"id" json:"id"`
	SessionID string          `db:"session_id" json:"sessionId"`
	Dataset   string          `db:"dataset" json:"dataset"`
	Action    string          `db:"action" json:"action"`
	RecordID  *string         `db:"record_id" json:"recordId,omitempty"`
	Outcome   string          `db:"outcome" json:"outcome"`
	Details   json.RawMessage `db:"details" json:"details,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}

// AuditFilter narrows audit listings.
type AuditFilter struct {
	Dataset string
	Limit   int
}
