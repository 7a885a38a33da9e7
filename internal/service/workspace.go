package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/timetable-workspace/internal/models"
	appErrors "github.com/noah-isme/timetable-workspace/pkg/errors"
	"github.com/noah-isme/timetable-workspace/pkg/timetableapi"
)

// Inline messages and toasts shown by the workspace.
const (
	MsgRecordAdded      = "Record added."
	MsgAddFailed        = "Unable to add record."
	MsgRecordUpdated    = "Record updated."
	MsgUpdateFailed     = "Update failed."
	MsgRecordDeleted    = "Record deleted successfully"
	MsgDeleteFailed     = "Failed to delete record"
	MsgBulkDeleteFailed = "Bulk delete failed"
	MsgSelectFile       = "Please select a CSV file to upload."
	MsgValidationFailed = "Validation failed. Review the highlighted issues."
	MsgUploadFailed     = "Upload failed."
	MsgDownloadFailed   = "Unable to download the CSV."
	MsgPreviewFailed    = "Failed to load preview"
)

type workspaceAPI interface {
	List(ctx context.Context, ds models.DatasetType) ([]models.Record, error)
	Create(ctx context.Context, ds models.DatasetType, record models.Record) error
	Update(ctx context.Context, ds models.DatasetType, id string, record models.Record) error
	Delete(ctx context.Context, ds models.DatasetType, id string) error
	Validate(ctx context.Context, ds models.DatasetType, filename string, content []byte) (*models.ValidationReport, error)
	Upload(ctx context.Context, ds models.DatasetType, filename string, content []byte) (string, error)
	Download(ctx context.Context, ds models.DatasetType) ([]byte, error)
	Preview(ctx context.Context, ds models.DatasetType, rows int) (*models.Preview, error)
}

// AuditRecorder receives workspace mutations.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// BulkDeleteObserver receives bulk delete outcomes.
type BulkDeleteObserver interface {
	ObserveBulkDelete(dataset string, succeeded, failed int)
}

// SortDirection orders the table.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState is the active sort column and direction.
type SortState struct {
	Key       string        `json:"key,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// WorkspaceOptions configures a Workspace.
type WorkspaceOptions struct {
	ID                    string
	Dataset               models.DatasetType
	BulkDeleteConcurrency int
	ToastDuration         time.Duration
	Validator             *RecordValidator
	Resolver              *ColumnResolver
	Audit                 AuditRecorder
	Metrics               BulkDeleteObserver
	Now                   func() time.Time
}

// Workspace is the editor state of one dataset table. The active dataset
// drives every transition; upstream calls run outside the lock and their
// responses are discarded when the dataset changed in the meantime.
type Workspace struct {
	id          string
	api         workspaceAPI
	resolver    *ColumnResolver
	validator   *RecordValidator
	audit       AuditRecorder
	metrics     BulkDeleteObserver
	logger      *zap.Logger
	concurrency int
	now         func() time.Time

	mu         sync.Mutex
	dataset    models.DatasetType
	epoch      uint64
	loadSeq    uint64
	previewSeq uint64
	inflight   int
	records    []models.Record
	search     string
	sort       SortState
	selected   []string
	editing    models.Record
	adding     bool
	draft      models.Record
	report     *models.ValidationReport
	uploadOpen bool
	message    *models.Message
	toast      *Toaster
	confirm    ConfirmDialog
	preview    models.PreviewState
	lastBulk   *models.BulkDeleteResult
	lastActive time.Time
}

// NewWorkspace constructs a Workspace on the batches dataset unless
// opts.Dataset says otherwise. Nothing is fetched until LoadData.
func NewWorkspace(api workspaceAPI, logger *zap.Logger, opts WorkspaceOptions) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if !opts.Dataset.Valid() {
		opts.Dataset = models.DatasetBatches
	}
	if opts.Validator == nil {
		opts.Validator = NewRecordValidator(nil)
	}
	if opts.Resolver == nil {
		opts.Resolver = NewColumnResolver()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BulkDeleteConcurrency < 0 {
		opts.BulkDeleteConcurrency = 0
	}
	w := &Workspace{
		id:          opts.ID,
		api:         api,
		resolver:    opts.Resolver,
		validator:   opts.Validator,
		audit:       opts.Audit,
		metrics:     opts.Metrics,
		logger:      logger.With(zap.String("session_id", opts.ID)),
		concurrency: opts.BulkDeleteConcurrency,
		now:         opts.Now,
		dataset:     opts.Dataset,
		draft:       models.Record{},
		toast:       NewToaster(opts.ToastDuration, opts.Now),
		preview:     models.PreviewState{Dataset: opts.Dataset, Rows: models.DefaultPreviewRows},
	}
	w.lastActive = w.now()
	return w
}

// ID returns the workspace identifier.
func (w *Workspace) ID() string {
	return w.id
}

// Dataset returns the active dataset.
func (w *Workspace) Dataset() models.DatasetType {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dataset
}

// LastActive reports when the workspace last handled an operation.
func (w *Workspace) LastActive() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastActive
}

// SetTypeOptions installs runtime room and course type options.
func (w *Workspace) SetTypeOptions(opts models.TypeOptions) {
	w.resolver.SetOptions(opts)
}

// SelectDataset switches the active dataset. Records, selection, edit and add
// state, the validation report and the upload panel are discarded; search
// and sort survive. Data is reloaded, and an open preview is refetched.
func (w *Workspace) SelectDataset(ctx context.Context, ds models.DatasetType) error {
	if !ds.Valid() {
		return validationError(fmt.Sprintf("unknown dataset %q", ds))
	}

	w.mu.Lock()
	w.touch()
	w.dataset = ds
	w.epoch++
	w.records = nil
	w.selected = nil
	w.editing = nil
	w.adding = false
	w.draft = models.Record{}
	w.report = nil
	w.uploadOpen = false
	w.lastBulk = nil
	w.confirm.Close("")
	refetchPreview := w.preview.Open
	w.preview.Dataset = ds
	w.preview.Data = nil
	w.preview.Caption = ""
	w.preview.Error = ""
	w.mu.Unlock()

	err := w.LoadData(ctx)
	if refetchPreview {
		_ = w.fetchPreview(ctx)
	}
	return err
}

// LoadData replaces the records of the active dataset with the upstream list.
func (w *Workspace) LoadData(ctx context.Context) error {
	return w.load(ctx, true)
}

func (w *Workspace) load(ctx context.Context, clearMessage bool) error {
	w.mu.Lock()
	w.touch()
	w.loadSeq++
	seq, epoch, ds := w.loadSeq, w.epoch, w.dataset
	w.inflight++
	if clearMessage {
		w.message = nil
	}
	w.mu.Unlock()

	records, err := w.api.List(ctx, ds)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inflight--
	if epoch != w.epoch || seq != w.loadSeq {
		w.logger.Debug("dropping stale dataset response", zap.String("dataset", string(ds)), zap.Uint64("epoch", epoch))
		return nil
	}
	if err != nil {
		msg := "Failed to load " + schemaName(ds)
		w.records = nil
		w.setMessage(models.SeverityError, msg)
		w.logger.Warn("load dataset failed", zap.String("dataset", string(ds)), zap.Error(err))
		return upstreamError(err, msg)
	}
	if records == nil {
		records = []models.Record{}
	}
	w.records = records
	return nil
}

// Search sets the client-side filter term.
func (w *Workspace) Search(term string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	w.search = term
}

// Sort orders by key: ascending on a new column, toggled on the same column.
func (w *Workspace) Sort(key string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	columns, _, err := w.resolver.Columns(w.dataset)
	if err != nil {
		return validationError(err.Error())
	}
	if !hasColumn(columns, key) {
		return validationError(fmt.Sprintf("unknown column %q", key))
	}
	direction := SortAsc
	if w.sort.Key == key && w.sort.Direction == SortAsc {
		direction = SortDesc
	}
	w.sort = SortState{Key: key, Direction: direction}
	return nil
}

// ToggleRow flips the selection of a single id.
func (w *Workspace) ToggleRow(id string) error {
	if id == "" {
		return validationError("record id is required")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if idx := indexOf(w.selected, id); idx >= 0 {
		w.selected = append(w.selected[:idx:idx], w.selected[idx+1:]...)
		return nil
	}
	w.selected = append(w.selected, id)
	return nil
}

// ToggleSelectAllVisible deselects the visible ids when all of them are
// selected and selects them otherwise. Ids hidden by the search are untouched.
func (w *Workspace) ToggleSelectAllVisible() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	visible := recordIDs(w.visibleRecords())
	if allSelected(visible, w.selected) {
		hidden := make(map[string]struct{}, len(visible))
		for _, id := range visible {
			hidden[id] = struct{}{}
		}
		kept := make([]string, 0, len(w.selected))
		for _, id := range w.selected {
			if _, ok := hidden[id]; !ok {
				kept = append(kept, id)
			}
		}
		w.selected = kept
		return
	}
	for _, id := range visible {
		if indexOf(w.selected, id) < 0 {
			w.selected = append(w.selected, id)
		}
	}
}

// ClearSelection empties the selection.
func (w *Workspace) ClearSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	w.selected = nil
}

// BeginAdd opens the add form. An open form keeps its draft.
func (w *Workspace) BeginAdd() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if w.adding {
		return
	}
	w.adding = true
	w.draft = models.Record{}
}

// CancelAdd closes the add form and discards the draft.
func (w *Workspace) CancelAdd() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	w.adding = false
	w.draft = models.Record{}
}

// SetDraftField stores one value in the add draft.
func (w *Workspace) SetDraftField(key string, value interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if !w.adding {
		return appErrors.Clone(appErrors.ErrConflict, "no record is being added")
	}
	if err := w.requireEditable(key); err != nil {
		return err
	}
	w.draft[key] = value
	return nil
}

// SubmitAdd merges fields into the draft, validates it locally and creates the
// record upstream. Local rejections never reach the network.
func (w *Workspace) SubmitAdd(ctx context.Context, fields map[string]interface{}) error {
	w.mu.Lock()
	w.touch()
	w.adding = true
	if err := w.requireEditableFields(fields); err != nil {
		w.mu.Unlock()
		return err
	}
	for key, value := range fields {
		w.draft[key] = value
	}
	ds, epoch := w.dataset, w.epoch
	columns, strategies, err := w.resolver.Columns(ds)
	if err != nil {
		w.mu.Unlock()
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve columns")
	}
	if issue := w.validator.ValidateAdd(ds, columns, w.draft); issue != "" {
		w.setMessage(models.SeverityError, issue)
		w.mu.Unlock()
		return validationError(issue)
	}
	payload, err := NormalizeRecord(strategies, w.draft)
	if err != nil {
		w.setMessage(models.SeverityError, err.Error())
		w.mu.Unlock()
		return validationError(err.Error())
	}
	w.inflight++
	w.mu.Unlock()

	err = w.api.Create(ctx, ds, payload)

	w.mu.Lock()
	w.inflight--
	if epoch != w.epoch {
		w.mu.Unlock()
		w.logger.Debug("dropping stale create response", zap.String("dataset", string(ds)))
		return err
	}
	if err != nil {
		w.setMessage(models.SeverityError, MsgAddFailed)
		w.mu.Unlock()
		w.logger.Warn("create record failed", zap.String("dataset", string(ds)), zap.Error(err))
		w.record(ctx, ds, models.AuditActionCreate, "", models.AuditOutcomeFailure, map[string]interface{}{"error": err.Error()})
		return upstreamError(err, MsgAddFailed)
	}
	w.setMessage(models.SeveritySuccess, MsgRecordAdded)
	w.draft = models.Record{}
	w.adding = false
	w.mu.Unlock()

	w.record(ctx, ds, models.AuditActionCreate, "", models.AuditOutcomeSuccess, map[string]interface{}{"record": payload})
	_ = w.load(ctx, false)
	return nil
}

// BeginEdit opens inline editing of id. Only one record is edited at a time.
func (w *Workspace) BeginEdit(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if w.editing != nil {
		if w.editing.ID() == id {
			return nil
		}
		return appErrors.Clone(appErrors.ErrConflict, "another record is being edited")
	}
	rec := w.findRecord(id)
	if rec == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	w.editing = rec.Clone()
	return nil
}

// CancelEdit discards inline edits.
func (w *Workspace) CancelEdit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	w.editing = nil
}

// SetEditField stores one value in the record being edited.
func (w *Workspace) SetEditField(key string, value interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if w.editing == nil {
		return appErrors.Clone(appErrors.ErrConflict, "no record is being edited")
	}
	if err := w.requireEditable(key); err != nil {
		return err
	}
	w.editing[key] = value
	return nil
}

// SubmitEdit merges fields into the edited record and replaces it upstream.
func (w *Workspace) SubmitEdit(ctx context.Context, fields map[string]interface{}) error {
	w.mu.Lock()
	w.touch()
	if w.editing == nil {
		w.mu.Unlock()
		return appErrors.Clone(appErrors.ErrConflict, "no record is being edited")
	}
	if err := w.requireEditableFields(fields); err != nil {
		w.mu.Unlock()
		return err
	}
	for key, value := range fields {
		w.editing[key] = value
	}
	ds, epoch := w.dataset, w.epoch
	_, strategies, err := w.resolver.Columns(ds)
	if err != nil {
		w.mu.Unlock()
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve columns")
	}
	if issue := w.validator.ValidateEdit(ds, w.editing); issue != "" {
		w.setMessage(models.SeverityError, issue)
		w.mu.Unlock()
		return validationError(issue)
	}
	payload, err := NormalizeRecord(strategies, w.editing)
	if err != nil {
		w.setMessage(models.SeverityError, err.Error())
		w.mu.Unlock()
		return validationError(err.Error())
	}
	id := payload.ID()
	w.inflight++
	w.mu.Unlock()

	err = w.api.Update(ctx, ds, id, payload)

	w.mu.Lock()
	w.inflight--
	if epoch != w.epoch {
		w.mu.Unlock()
		w.logger.Debug("dropping stale update response", zap.String("dataset", string(ds)), zap.String("record_id", id))
		return err
	}
	if err != nil {
		w.setMessage(models.SeverityError, MsgUpdateFailed)
		w.mu.Unlock()
		w.logger.Warn("update record failed", zap.String("dataset", string(ds)), zap.String("record_id", id), zap.Error(err))
		w.record(ctx, ds, models.AuditActionUpdate, id, models.AuditOutcomeFailure, map[string]interface{}{"error": err.Error()})
		return upstreamError(err, MsgUpdateFailed)
	}
	w.setMessage(models.SeveritySuccess, MsgRecordUpdated)
	w.editing = nil
	w.mu.Unlock()

	w.record(ctx, ds, models.AuditActionUpdate, id, models.AuditOutcomeSuccess, map[string]interface{}{"record": payload})
	_ = w.load(ctx, false)
	return nil
}

// RequestDelete opens the confirmation for deleting id.
func (w *Workspace) RequestDelete(id string) (*models.Confirmation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if w.editing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "finish editing before deleting records")
	}
	if w.findRecord(id) == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	ds, epoch := w.dataset, w.epoch
	conf := w.confirm.Open(ConfirmOptions{
		Kind:      models.ConfirmDeleteOne,
		Title:     "Delete record",
		Message:   "Are you sure you want to delete this record? This action cannot be undone.",
		Severity:  models.SeverityError,
		TargetIDs: []string{id},
	}, func(ctx context.Context) {
		w.deleteOne(ctx, ds, epoch, id)
	})
	return &conf, nil
}

// RequestDeleteSelected opens the bulk delete confirmation. It returns nil
// when nothing is selected.
func (w *Workspace) RequestDeleteSelected() *models.Confirmation {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if len(w.selected) == 0 {
		return nil
	}
	ids := append([]string(nil), w.selected...)
	n := len(ids)
	ds, epoch := w.dataset, w.epoch
	conf := w.confirm.Open(ConfirmOptions{
		Kind:         models.ConfirmDeleteSelected,
		Title:        fmt.Sprintf("Delete %d records", n),
		Message:      fmt.Sprintf("Are you sure you want to delete %d selected record(s)? This action cannot be undone.", n),
		Severity:     models.SeverityError,
		AlertMessage: "All selected records will be permanently removed from the database.",
		TargetIDs:    ids,
	}, func(ctx context.Context) {
		w.deleteMany(ctx, ds, epoch, ids)
	})
	return &conf
}

// Confirm runs the pending confirmation identified by id and closes it.
func (w *Workspace) Confirm(ctx context.Context, id string) error {
	w.mu.Lock()
	w.touch()
	action, ok := w.confirm.Accept(id)
	w.mu.Unlock()
	if !ok {
		return appErrors.ErrNoPendingConfirm
	}
	action(ctx)
	return nil
}

// CancelConfirmation closes the pending confirmation without acting.
func (w *Workspace) CancelConfirmation(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if !w.confirm.Close(id) {
		return appErrors.ErrNoPendingConfirm
	}
	return nil
}

// DismissToast hides the toast identified by id, or any toast when empty.
func (w *Workspace) DismissToast(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.toast.Dismiss(id)
}

// DismissMessage clears the inline message.
func (w *Workspace) DismissMessage() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.message = nil
}

func (w *Workspace) deleteOne(ctx context.Context, ds models.DatasetType, epoch uint64, id string) {
	w.mu.Lock()
	w.inflight++
	w.mu.Unlock()

	err := w.api.Delete(ctx, ds, id)

	w.mu.Lock()
	w.inflight--
	if epoch != w.epoch {
		w.mu.Unlock()
		return
	}
	if err != nil {
		w.toast.Show(models.SeverityError, MsgDeleteFailed)
		w.mu.Unlock()
		w.logger.Warn("delete record failed", zap.String("dataset", string(ds)), zap.String("record_id", id), zap.Error(err))
		w.record(ctx, ds, models.AuditActionDelete, id, models.AuditOutcomeFailure, map[string]interface{}{"error": err.Error()})
		return
	}
	w.toast.Show(models.SeveritySuccess, MsgRecordDeleted)
	if idx := indexOf(w.selected, id); idx >= 0 {
		w.selected = append(w.selected[:idx:idx], w.selected[idx+1:]...)
	}
	w.mu.Unlock()

	w.record(ctx, ds, models.AuditActionDelete, id, models.AuditOutcomeSuccess, nil)
	_ = w.load(ctx, false)
}

// deleteMany issues one delete per id concurrently and waits for all of them.
func (w *Workspace) deleteMany(ctx context.Context, ds models.DatasetType, epoch uint64, ids []string) {
	w.mu.Lock()
	w.inflight++
	w.mu.Unlock()

	outcomes := make([]error, len(ids))
	var g errgroup.Group
	if w.concurrency > 0 {
		g.SetLimit(w.concurrency)
	}
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			outcomes[i] = w.api.Delete(ctx, ds, id)
			return nil
		})
	}
	_ = g.Wait()

	result := models.BulkDeleteResult{Requested: len(ids), Succeeded: []string{}, Failed: []string{}}
	for i, id := range ids {
		if outcomes[i] != nil {
			result.Failed = append(result.Failed, id)
			w.logger.Warn("bulk delete item failed", zap.String("dataset", string(ds)), zap.String("record_id", id), zap.Error(outcomes[i]))
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	w.logger.Info("bulk delete finished",
		zap.String("dataset", string(ds)),
		zap.Int("requested", result.Requested),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
	)
	if w.metrics != nil {
		w.metrics.ObserveBulkDelete(string(ds), len(result.Succeeded), len(result.Failed))
	}

	outcome := models.AuditOutcomeSuccess
	switch {
	case len(result.Succeeded) == 0:
		outcome = models.AuditOutcomeFailure
	case len(result.Failed) > 0:
		outcome = models.AuditOutcomePartial
	}
	w.record(ctx, ds, models.AuditActionBulkDelete, "", outcome, map[string]interface{}{
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	})

	w.mu.Lock()
	w.inflight--
	if epoch != w.epoch {
		w.mu.Unlock()
		return
	}
	done := make(map[string]struct{}, len(result.Succeeded))
	for _, id := range result.Succeeded {
		done[id] = struct{}{}
	}
	kept := make([]string, 0, len(w.selected))
	for _, id := range w.selected {
		if _, ok := done[id]; !ok {
			kept = append(kept, id)
		}
	}
	w.selected = kept
	w.lastBulk = &result
	switch outcome {
	case models.AuditOutcomeSuccess:
		w.toast.Show(models.SeveritySuccess, fmt.Sprintf("Successfully deleted %d record(s)", result.Requested))
	case models.AuditOutcomePartial:
		w.toast.Show(models.SeverityWarning, fmt.Sprintf("Deleted %d of %d record(s); %d failed", len(result.Succeeded), result.Requested, len(result.Failed)))
	default:
		w.toast.Show(models.SeverityError, MsgBulkDeleteFailed)
	}
	w.mu.Unlock()

	if len(result.Succeeded) > 0 {
		_ = w.load(ctx, false)
	}
}

// SetUploadOpen shows or hides the upload panel.
func (w *Workspace) SetUploadOpen(open bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	w.uploadOpen = open
}

// Upload validates content upstream and stores it only when it is valid. An
// invalid file is not an error: the report is returned and kept in the view.
func (w *Workspace) Upload(ctx context.Context, filename string, content []byte) (*models.ValidationReport, error) {
	w.mu.Lock()
	w.touch()
	if len(content) == 0 {
		w.setMessage(models.SeverityError, MsgSelectFile)
		w.mu.Unlock()
		return nil, validationError(MsgSelectFile)
	}
	if filename == "" {
		filename = "upload.csv"
	}
	ds, epoch := w.dataset, w.epoch
	w.inflight++
	w.mu.Unlock()

	report, err := w.api.Validate(ctx, ds, filename, content)
	if err == nil && report != nil && !report.Valid {
		w.mu.Lock()
		w.inflight--
		if epoch == w.epoch {
			w.report = report
			w.setMessage(models.SeverityError, MsgValidationFailed)
		}
		w.mu.Unlock()
		return report, nil
	}

	if err == nil {
		_, err = w.api.Upload(ctx, ds, filename, content)
	}

	w.mu.Lock()
	w.inflight--
	if epoch != w.epoch {
		w.mu.Unlock()
		return report, err
	}
	if err != nil {
		msg := timetableapi.MessageOf(err)
		if msg == "" {
			msg = MsgUploadFailed
		}
		w.setMessage(models.SeverityError, msg)
		w.mu.Unlock()
		w.logger.Warn("csv upload failed", zap.String("dataset", string(ds)), zap.String("filename", filename), zap.Error(err))
		w.record(ctx, ds, models.AuditActionUpload, "", models.AuditOutcomeFailure, map[string]interface{}{"filename": filename, "error": err.Error()})
		return nil, upstreamError(err, msg)
	}
	w.setMessage(models.SeveritySuccess, schemaName(ds)+" uploaded successfully.")
	w.report = nil
	w.uploadOpen = false
	w.mu.Unlock()

	w.record(ctx, ds, models.AuditActionUpload, "", models.AuditOutcomeSuccess, map[string]interface{}{"filename": filename, "bytes": len(content)})
	_ = w.load(ctx, false)
	if report == nil {
		report = &models.ValidationReport{Valid: true}
	}
	return report, nil
}

// Download fetches the stored CSV of the active dataset unchanged.
func (w *Workspace) Download(ctx context.Context) (*models.Download, error) {
	w.mu.Lock()
	w.touch()
	ds := w.dataset
	w.mu.Unlock()

	content, err := w.api.Download(ctx, ds)
	if err != nil {
		w.mu.Lock()
		w.setMessage(models.SeverityError, MsgDownloadFailed)
		w.mu.Unlock()
		w.logger.Warn("csv download failed", zap.String("dataset", string(ds)), zap.Error(err))
		return nil, upstreamError(err, MsgDownloadFailed)
	}
	return &models.Download{Filename: string(ds) + ".csv", Content: content}, nil
}

// OpenPreview opens the preview dialog and fetches a snapshot. Zero rows keeps
// the current size.
func (w *Workspace) OpenPreview(ctx context.Context, rows int) error {
	w.mu.Lock()
	w.touch()
	if rows != 0 && !models.ValidPreviewRows(rows) {
		w.mu.Unlock()
		return validationError(fmt.Sprintf("rows must be one of %v", models.PreviewRowOptions))
	}
	if rows != 0 {
		w.preview.Rows = rows
	}
	w.preview.Open = true
	w.preview.Dataset = w.dataset
	w.mu.Unlock()
	return w.fetchPreview(ctx)
}

// SetPreviewRows changes the preview size, refetching when the dialog is open.
func (w *Workspace) SetPreviewRows(ctx context.Context, rows int) error {
	if !models.ValidPreviewRows(rows) {
		return validationError(fmt.Sprintf("rows must be one of %v", models.PreviewRowOptions))
	}
	w.mu.Lock()
	w.touch()
	changed := w.preview.Rows != rows
	w.preview.Rows = rows
	open := w.preview.Open
	w.mu.Unlock()
	if !open || !changed {
		return nil
	}
	return w.fetchPreview(ctx)
}

// ClosePreview closes the dialog. In-flight fetches are discarded.
func (w *Workspace) ClosePreview() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	w.previewSeq++
	w.preview.Open = false
	w.preview.Loading = false
	w.preview.Data = nil
	w.preview.Caption = ""
	w.preview.Error = ""
}

func (w *Workspace) fetchPreview(ctx context.Context) error {
	w.mu.Lock()
	if !w.preview.Open {
		w.mu.Unlock()
		return nil
	}
	w.previewSeq++
	seq, ds, rows := w.previewSeq, w.preview.Dataset, w.preview.Rows
	w.preview.Loading = true
	w.preview.Error = ""
	w.preview.Caption = "Loading data snapshot"
	w.mu.Unlock()

	preview, err := w.api.Preview(ctx, ds, rows)

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.previewSeq || !w.preview.Open {
		w.logger.Debug("dropping stale preview response", zap.String("dataset", string(ds)), zap.Int("rows", rows))
		return nil
	}
	w.preview.Loading = false
	if err != nil {
		w.preview.Data = nil
		w.preview.Caption = ""
		w.preview.Error = MsgPreviewFailed
		w.logger.Warn("load preview failed", zap.String("dataset", string(ds)), zap.Error(err))
		return upstreamError(err, MsgPreviewFailed)
	}
	w.preview.Data = preview
	w.preview.Caption = fmt.Sprintf("Showing %d of %d rows", len(preview.Data), preview.TotalRows)
	return nil
}

func (w *Workspace) touch() {
	w.lastActive = w.now()
}

func (w *Workspace) setMessage(severity models.Severity, text string) {
	w.message = &models.Message{Type: severity, Text: text}
}

func (w *Workspace) requireEditable(key string) error {
	columns, _, err := w.resolver.Columns(w.dataset)
	if err != nil {
		return validationError(err.Error())
	}
	for _, col := range columns {
		if col.Key == key {
			if !col.Editable {
				return validationError(fmt.Sprintf("%s is read-only", col.Label))
			}
			return nil
		}
	}
	return validationError(fmt.Sprintf("unknown field %q", key))
}

func (w *Workspace) findRecord(id string) models.Record {
	for _, rec := range w.records {
		if rec.ID() == id {
			return rec
		}
	}
	return nil
}

func (w *Workspace) record(ctx context.Context, ds models.DatasetType, action, recordID, outcome string, details map[string]interface{}) {
	if w.audit == nil {
		return
	}
	w.audit.Record(ctx, AuditEntry{
		SessionID: w.id,
		Dataset:   string(ds),
		Action:    action,
		RecordID:  recordID,
		Outcome:   outcome,
		Details:   details,
	})
}

func schemaName(ds models.DatasetType) string {
	if schema, ok := registry[ds]; ok {
		return schema.Name
	}
	return string(ds)
}

func validationError(msg string) error {
	return appErrors.Clone(appErrors.ErrValidation, msg)
}

func upstreamError(err error, msg string) error {
	return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, msg)
}

func hasColumn(columns []models.ColumnSpec, key string) bool {
	for _, col := range columns {
		if col.Key == key {
			return true
		}
	}
	return false
}

func indexOf(ids []string, id string) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}

// requireEditableFields checks every key before any is merged, in sorted
// order so the reported field is stable.
func (w *Workspace) requireEditableFields(fields map[string]interface{}) error {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := w.requireEditable(key); err != nil {
			return err
		}
	}
	return nil
}
