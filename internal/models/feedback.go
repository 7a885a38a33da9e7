package models

import "time"

// Severity classifies feedback styling.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Message is the inline status line above the table.
type Message struct {
	Type Severity `json:"type"`
	Text string   `json:"text"`
}

// Toast is a transient notification.
type Toast struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ConfirmationKind tells which action a confirmation guards.
type ConfirmationKind string

const (
	ConfirmDeleteOne      ConfirmationKind = "delete_one"
	ConfirmDeleteSelected ConfirmationKind = "delete_selected"
)

// Confirmation is the state of a modal confirm dialog.
type Confirmation struct {
	ID           string           `json:"id"`
	Kind         ConfirmationKind `json:"kind"`
	Open         bool             `json:"open"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	ConfirmText  string           `json:"confirmText"`
	CancelText   string           `json:"cancelText"`
	Severity     Severity         `json:"severity"`
	ShowAlert    bool             `json:"showAlert"`
	AlertMessage string           `json:"alertMessage,omitempty"`
	TargetIDs    []string         `json:"targetIds,omitempty"`
}

// BulkDeleteResult reports per-record outcomes of a bulk delete.
type BulkDeleteResult struct {
	Requested int      `json:"requested"`
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}
