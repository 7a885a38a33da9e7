package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/timetable-workspace/internal/models"
)

// DefaultToastDuration is how long a toast stays visible.
const DefaultToastDuration = 6 * time.Second

// Toaster holds at most one toast. Showing a new toast replaces the current
// one. It is not safe for concurrent use; callers serialise access.
type Toaster struct {
	duration time.Duration
	now      func() time.Time
	current  *models.Toast
}

// NewToaster builds a Toaster. Non-positive durations fall back to the default.
func NewToaster(duration time.Duration, now func() time.Time) *Toaster {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	if now == nil {
		now = time.Now
	}
	return &Toaster{duration: duration, now: now}
}

// Show replaces the current toast.
func (t *Toaster) Show(severity models.Severity, message string) models.Toast {
	if severity == "" {
		severity = models.SeverityInfo
	}
	created := t.now()
	toast := models.Toast{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		CreatedAt: created,
		ExpiresAt: created.Add(t.duration),
	}
	t.current = &toast
	return toast
}

// Current returns the visible toast, dropping it once expired.
func (t *Toaster) Current() *models.Toast {
	if t.current == nil {
		return nil
	}
	if !t.now().Before(t.current.ExpiresAt) {
		t.current = nil
		return nil
	}
	cp := *t.current
	return &cp
}

// Dismiss hides the toast. An empty id dismisses whatever is shown; otherwise
// only a matching toast is removed.
func (t *Toaster) Dismiss(id string) bool {
	if t.current == nil {
		return false
	}
	if id != "" && t.current.ID != id {
		return false
	}
	t.current = nil
	return true
}

// ConfirmAction runs when a confirmation is accepted.
type ConfirmAction func(ctx context.Context)

// ConfirmOptions open a dialog. Zero values take the dialog defaults.
type ConfirmOptions struct {
	Kind         models.ConfirmationKind
	Title        string
	Message      string
	ConfirmText  string
	CancelText   string
	Severity     models.Severity
	AlertMessage string
	TargetIDs    []string
}

// ConfirmDialog tracks the single pending confirmation of a workspace.
// Confirmations are addressed by id so a stale confirm cannot trigger a newer
// dialog. Not safe for concurrent use.
type ConfirmDialog struct {
	pending *models.Confirmation
	action  ConfirmAction
}

// Open replaces any pending confirmation.
func (d *ConfirmDialog) Open(opts ConfirmOptions, action ConfirmAction) models.Confirmation {
	conf := models.Confirmation{
		ID:           uuid.NewString(),
		Kind:         opts.Kind,
		Open:         true,
		Title:        firstNonEmpty(opts.Title, "Confirm action"),
		Message:      firstNonEmpty(opts.Message, "Are you sure you want to proceed?"),
		ConfirmText:  firstNonEmpty(opts.ConfirmText, "Confirm"),
		CancelText:   firstNonEmpty(opts.CancelText, "Cancel"),
		Severity:     opts.Severity,
		ShowAlert:    opts.AlertMessage != "",
		AlertMessage: opts.AlertMessage,
		TargetIDs:    append([]string(nil), opts.TargetIDs...),
	}
	if conf.Severity == "" {
		conf.Severity = models.SeverityWarning
	}
	d.pending = &conf
	d.action = action
	return conf
}

// Current returns a copy of the pending confirmation.
func (d *ConfirmDialog) Current() *models.Confirmation {
	if d.pending == nil {
		return nil
	}
	cp := *d.pending
	cp.TargetIDs = append([]string(nil), d.pending.TargetIDs...)
	return &cp
}

// Accept closes the dialog identified by id and hands back its action. The
// caller runs the action; the dialog is closed whether or not it succeeds.
func (d *ConfirmDialog) Accept(id string) (ConfirmAction, bool) {
	if d.pending == nil || (id != "" && d.pending.ID != id) {
		return nil, false
	}
	action := d.action
	d.pending = nil
	d.action = nil
	if action == nil {
		action = func(context.Context) {}
	}
	return action, true
}

// Close dismisses the dialog without running its action.
func (d *ConfirmDialog) Close(id string) bool {
	if d.pending == nil || (id != "" && d.pending.ID != id) {
		return false
	}
	d.pending = nil
	d.action = nil
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
