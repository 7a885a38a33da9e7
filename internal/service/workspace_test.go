package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-workspace/internal/models"
	appErrors "github.com/noah-isme/timetable-workspace/pkg/errors"
	"github.com/noah-isme/timetable-workspace/pkg/format"
	"github.com/noah-isme/timetable-workspace/pkg/timetableapi"
)

type fakeWorkspaceAPI struct {
	mu sync.Mutex

	records   map[models.DatasetType][]models.Record
	listErr   error
	listHook  func(ds models.DatasetType)
	listCalls int

	created   []models.Record
	createErr error
	updated   []models.Record
	updateErr error
	deleted   []string
	deleteErr map[string]error

	report        *models.ValidationReport
	validateErr   error
	validateCalls int
	uploadCalls   int
	uploadErr     error

	download []byte
	preview  *models.Preview
	previews []int
}

func newFakeWorkspaceAPI() *fakeWorkspaceAPI {
	return &fakeWorkspaceAPI{
		records:   map[models.DatasetType][]models.Record{},
		deleteErr: map[string]error{},
	}
}

func (f *fakeWorkspaceAPI) List(ctx context.Context, ds models.DatasetType) ([]models.Record, error) {
	f.mu.Lock()
	f.listCalls++
	hook := f.listHook
	f.mu.Unlock()
	if hook != nil {
		hook(ds)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Record, len(f.records[ds]))
	for i, rec := range f.records[ds] {
		out[i] = rec.Clone()
	}
	return out, nil
}

func (f *fakeWorkspaceAPI) Create(ctx context.Context, ds models.DatasetType, rec models.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, rec)
	stored := rec.Clone()
	stored["id"] = json.Number("100")
	f.records[ds] = append(f.records[ds], stored)
	return nil
}

func (f *fakeWorkspaceAPI) Update(ctx context.Context, ds models.DatasetType, id string, rec models.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, rec)
	return nil
}

func (f *fakeWorkspaceAPI) Delete(ctx context.Context, ds models.DatasetType, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	kept := f.records[ds][:0:0]
	for _, rec := range f.records[ds] {
		if rec.ID() != id {
			kept = append(kept, rec)
		}
	}
	f.records[ds] = kept
	return nil
}

func (f *fakeWorkspaceAPI) Validate(ctx context.Context, ds models.DatasetType, filename string, content []byte) (*models.ValidationReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validateCalls++
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	if f.report != nil {
		return f.report, nil
	}
	return &models.ValidationReport{Valid: true}, nil
}

func (f *fakeWorkspaceAPI) Upload(ctx context.Context, ds models.DatasetType, filename string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "ok", nil
}

func (f *fakeWorkspaceAPI) Download(ctx context.Context, ds models.DatasetType) ([]byte, error) {
	if f.download == nil {
		return nil, errors.New("boom")
	}
	return f.download, nil
}

func (f *fakeWorkspaceAPI) Preview(ctx context.Context, ds models.DatasetType, rows int) (*models.Preview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.previews = append(f.previews, rows)
	if f.preview == nil {
		return nil, errors.New("no preview")
	}
	return f.preview, nil
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (r *recordingAudit) Record(ctx context.Context, entry AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

type recordingBulkMetrics struct {
	succeeded, failed int
}

func (r *recordingBulkMetrics) ObserveBulkDelete(dataset string, succeeded, failed int) {
	r.succeeded += succeeded
	r.failed += failed
}

func batchRecords() []models.Record {
	return []models.Record{
		{"id": json.Number("1"), "batchName": "CSE 2024 A", "year": json.Number("2"), "section": "A", "studentCount": json.Number("60")},
		{"id": json.Number("2"), "batchName": "ECE 2023 B", "year": json.Number("10"), "section": "2023", "studentCount": json.Number("45")},
		{"id": json.Number("3"), "batchName": "CSE 2024 DSAI", "year": json.Number("3"), "section": "DSAI", "studentCount": nil},
	}
}

func newTestWorkspace(t *testing.T, api *fakeWorkspaceAPI, opts WorkspaceOptions) *Workspace {
	t.Helper()
	return NewWorkspace(api, nil, opts)
}

func rowIDs(view WorkspaceView) []string {
	ids := make([]string, len(view.Rows))
	for i, row := range view.Rows {
		ids[i] = row.ID
	}
	return ids
}

func TestWorkspaceLoadRendersPlaceholders(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()
	ws := newTestWorkspace(t, api, WorkspaceOptions{})

	require.NoError(t, ws.LoadData(context.Background()))
	view := ws.View()

	assert.Equal(t, "Batches", view.Name)
	assert.Equal(t, "id, batchName, year, section, studentCount", view.ExpectedColumns)
	require.Len(t, view.Rows, 3)
	assert.Equal(t, format.Placeholder, view.Rows[2].Cells[4])
	assert.True(t, view.Rows[1].SectionNeedsAttention)
	assert.False(t, view.Rows[0].SectionNeedsAttention)
	assert.False(t, view.Loading)
	assert.False(t, view.NoRecords)
	assert.Nil(t, view.Message)
}

func TestWorkspaceLoadFailure(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.listErr = errors.New("connection refused")
	ws := newTestWorkspace(t, api, WorkspaceOptions{Dataset: models.DatasetRooms})

	err := ws.LoadData(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)

	view := ws.View()
	require.NotNil(t, view.Message)
	assert.Equal(t, models.SeverityError, view.Message.Type)
	assert.Equal(t, "Failed to load Rooms", view.Message.Text)
	assert.Empty(t, view.Rows)
	assert.True(t, view.NoRecords)
}

func TestWorkspaceSortToggle(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()
	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	require.NoError(t, ws.LoadData(context.Background()))

	require.NoError(t, ws.Sort("year"))
	view := ws.View()
	assert.Equal(t, SortState{Key: "year", Direction: SortAsc}, view.Sort)
	assert.Equal(t, []string{"1", "3", "2"}, rowIDs(view), "numbers compare numerically")

	require.NoError(t, ws.Sort("year"))
	view = ws.View()
	assert.Equal(t, SortDesc, view.Sort.Direction)
	assert.Equal(t, []string{"2", "3", "1"}, rowIDs(view))

	require.NoError(t, ws.Sort("batchName"))
	view = ws.View()
	assert.Equal(t, SortState{Key: "batchName", Direction: SortAsc}, view.Sort)
	assert.Equal(t, []string{"1", "3", "2"}, rowIDs(view))

	require.NoError(t, ws.Sort("studentCount"))
	view = ws.View()
	assert.Equal(t, "3", view.Rows[0].ID, "missing values sort first")

	assert.Error(t, ws.Sort("unknown"))
}

func TestWorkspaceSearchIsIdempotentAndLocal(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()
	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	require.NoError(t, ws.LoadData(context.Background()))
	calls := api.listCalls

	ws.Search("cse")
	first := rowIDs(ws.View())
	ws.Search("cse")
	second := rowIDs(ws.View())
	assert.Equal(t, []string{"1", "3"}, first)
	assert.Equal(t, first, second)

	ws.Search("DSAI")
	assert.Equal(t, []string{"3"}, rowIDs(ws.View()))

	ws.Search("nothing matches")
	view := ws.View()
	assert.True(t, view.FilteredEmpty)
	assert.False(t, view.NoRecords)

	ws.Search("")
	assert.Len(t, ws.View().Rows, 3)
	assert.Equal(t, calls, api.listCalls)
}

func TestWorkspaceSelectAllVisibleFixedPoint(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()
	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	require.NoError(t, ws.LoadData(context.Background()))

	require.NoError(t, ws.ToggleRow("2"))
	ws.Search("cse")

	view := ws.View()
	assert.False(t, view.AllVisibleSelected)
	assert.False(t, view.Indeterminate)

	ws.ToggleSelectAllVisible()
	view = ws.View()
	assert.Equal(t, []string{"2", "1", "3"}, view.SelectedIDs)
	assert.True(t, view.AllVisibleSelected)

	ws.ToggleSelectAllVisible()
	view = ws.View()
	assert.Equal(t, []string{"2"}, view.SelectedIDs, "hidden selection is untouched")

	require.NoError(t, ws.ToggleRow("1"))
	view = ws.View()
	assert.True(t, view.Indeterminate)

	require.NoError(t, ws.ToggleRow("1"))
	assert.Equal(t, []string{"2"}, ws.View().SelectedIDs)
}

func TestWorkspaceFacultyAddEndToEnd(t *testing.T) {
	api := newFakeWorkspaceAPI()
	audit := &recordingAudit{}
	ws := newTestWorkspace(t, api, WorkspaceOptions{Audit: audit})
	ctx := context.Background()
	require.NoError(t, ws.SelectDataset(ctx, models.DatasetFaculty))

	ws.BeginAdd()
	require.NoError(t, ws.SetDraftField("name", " Dr. Rao "))
	ws.BeginAdd()
	assert.Equal(t, " Dr. Rao ", ws.View().Add.Draft["name"], "draft survives a second BeginAdd")

	err := ws.SubmitAdd(ctx, map[string]interface{}{
		"subjects":       "DSA, OS",
		"email":          "Rao@Uni.edu",
		"maxHoursPerDay": "4",
	})
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	created := api.created[0]
	assert.Equal(t, "Dr. Rao", created["name"])
	assert.Equal(t, json.Number("4"), created["maxHoursPerDay"])

	view := ws.View()
	require.NotNil(t, view.Message)
	assert.Equal(t, models.Message{Type: models.SeveritySuccess, Text: MsgRecordAdded}, *view.Message)
	assert.False(t, view.Add.Open)
	assert.Empty(t, view.Add.Draft)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "4 hrs/day", view.Rows[0].Cells[4])
	assert.Equal(t, "rao@uni.edu", view.Rows[0].Cells[3])

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionCreate, audit.entries[0].Action)
	assert.Equal(t, models.AuditOutcomeSuccess, audit.entries[0].Outcome)
}

func TestWorkspaceAddRejectsLocally(t *testing.T) {
	api := newFakeWorkspaceAPI()
	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	ctx := context.Background()

	err := ws.SubmitAdd(ctx, map[string]interface{}{"batchName": "CSE", "year": "2", "studentCount": "40"})
	require.Error(t, err)
	assert.Equal(t, "Please provide Section.", appErrors.FromError(err).Message)

	err = ws.SubmitAdd(ctx, map[string]interface{}{"section": "2024"})
	require.Error(t, err)
	assert.Equal(t, MsgSectionYear, appErrors.FromError(err).Message)

	view := ws.View()
	assert.True(t, view.Add.Open)
	assert.True(t, view.Add.Disabled)
	assert.Equal(t, MsgSectionYear, view.Add.SectionIssue)

	err = ws.SubmitAdd(ctx, map[string]interface{}{"section": "B", "year": "two"})
	require.Error(t, err)
	assert.Equal(t, "Year must be a number.", appErrors.FromError(err).Message)

	assert.Error(t, ws.SubmitAdd(ctx, map[string]interface{}{"id": "9"}), "id is read-only")
	assert.Empty(t, api.created)
}

func TestWorkspaceAddFailureKeepsDraft(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.createErr = &timetableapi.Error{Status: 500, Message: "db down"}
	ws := newTestWorkspace(t, api, WorkspaceOptions{Dataset: models.DatasetRooms})

	err := ws.SubmitAdd(context.Background(), map[string]interface{}{"roomNumber": "L101", "capacity": "60", "roomType": "LECTURE_ROOM"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Status, appErrors.FromError(err).Status)

	view := ws.View()
	assert.Equal(t, MsgAddFailed, view.Message.Text)
	assert.True(t, view.Add.Open)
	assert.Equal(t, "L101", view.Add.Draft["roomNumber"])
}

func TestWorkspaceEditFlow(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()
	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	ctx := context.Background()
	require.NoError(t, ws.LoadData(ctx))

	require.NoError(t, ws.BeginEdit("2"))
	require.NoError(t, ws.BeginEdit("2"))
	err := ws.BeginEdit("1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = ws.RequestDelete("1")
	require.Error(t, err)

	err = ws.SubmitEdit(ctx, nil)
	require.Error(t, err, "stored year-like section must be fixed before saving")
	assert.Empty(t, api.updated)

	require.NoError(t, ws.SubmitEdit(ctx, map[string]interface{}{"section": "B"}))
	require.Len(t, api.updated, 1)
	assert.Equal(t, "B", api.updated[0]["section"])
	assert.Equal(t, "ECE 2023 B", api.updated[0]["batchName"], "whole record is sent")

	view := ws.View()
	assert.Equal(t, MsgRecordUpdated, view.Message.Text)
	assert.Nil(t, view.Editing)
}

func TestWorkspaceEditFailureRetainsState(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()
	api.updateErr = errors.New("timeout")
	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	ctx := context.Background()
	require.NoError(t, ws.LoadData(ctx))

	require.NoError(t, ws.BeginEdit("1"))
	require.Error(t, ws.SubmitEdit(ctx, map[string]interface{}{"studentCount": "61"}))

	view := ws.View()
	assert.Equal(t, MsgUpdateFailed, view.Message.Text)
	require.NotNil(t, view.Editing)
	assert.Equal(t, "61", view.Editing["studentCount"])
}

func TestWorkspaceDeleteOne(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()
	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	ctx := context.Background()
	require.NoError(t, ws.LoadData(ctx))
	require.NoError(t, ws.ToggleRow("1"))

	conf, err := ws.RequestDelete("1")
	require.NoError(t, err)
	assert.Equal(t, "Delete record", conf.Title)
	assert.Equal(t, models.SeverityError, conf.Severity)
	assert.Empty(t, api.deleted, "nothing happens before confirmation")

	require.NoError(t, ws.Confirm(ctx, conf.ID))
	assert.Equal(t, []string{"1"}, api.deleted)

	view := ws.View()
	require.NotNil(t, view.Toast)
	assert.Equal(t, MsgRecordDeleted, view.Toast.Message)
	assert.Empty(t, view.SelectedIDs)
	assert.Len(t, view.Rows, 2)
	assert.Nil(t, view.Confirmation)

	assert.ErrorIs(t, ws.Confirm(ctx, conf.ID), appErrors.ErrNoPendingConfirm)
}

func TestWorkspaceDeleteCancelled(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()
	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	require.NoError(t, ws.LoadData(context.Background()))

	conf, err := ws.RequestDelete("3")
	require.NoError(t, err)
	require.NoError(t, ws.CancelConfirmation(conf.ID))
	assert.Empty(t, api.deleted)
	assert.Nil(t, ws.View().Confirmation)
}

func TestWorkspaceBulkDeleteAllSucceed(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()
	metrics := &recordingBulkMetrics{}
	ws := newTestWorkspace(t, api, WorkspaceOptions{Metrics: metrics, BulkDeleteConcurrency: 2})
	ctx := context.Background()
	require.NoError(t, ws.LoadData(ctx))

	assert.Nil(t, ws.RequestDeleteSelected(), "empty selection is a no-op")

	ws.ToggleSelectAllVisible()
	conf := ws.RequestDeleteSelected()
	require.NotNil(t, conf)
	assert.Equal(t, "Delete 3 records", conf.Title)
	assert.Equal(t, "Are you sure you want to delete 3 selected record(s)? This action cannot be undone.", conf.Message)
	assert.True(t, conf.ShowAlert)

	require.NoError(t, ws.Confirm(ctx, conf.ID))
	assert.ElementsMatch(t, []string{"1", "2", "3"}, api.deleted)
	assert.Len(t, api.deleted, 3)

	view := ws.View()
	assert.Empty(t, view.SelectedIDs)
	assert.Equal(t, "Successfully deleted 3 record(s)", view.Toast.Message)
	assert.Equal(t, models.SeveritySuccess, view.Toast.Severity)
	assert.True(t, view.NoRecords)
	assert.Equal(t, 3, metrics.succeeded)
}

func TestWorkspaceBulkDeletePartialFailure(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()
	api.deleteErr["2"] = errors.New("locked")
	audit := &recordingAudit{}
	ws := newTestWorkspace(t, api, WorkspaceOptions{Audit: audit})
	ctx := context.Background()
	require.NoError(t, ws.LoadData(ctx))

	ws.ToggleSelectAllVisible()
	conf := ws.RequestDeleteSelected()
	require.NotNil(t, conf)
	require.NoError(t, ws.Confirm(ctx, conf.ID))

	view := ws.View()
	assert.Equal(t, []string{"2"}, view.SelectedIDs)
	require.NotNil(t, view.LastBulkDelete)
	assert.Equal(t, []string{"1", "3"}, view.LastBulkDelete.Succeeded)
	assert.Equal(t, []string{"2"}, view.LastBulkDelete.Failed)
	assert.Equal(t, models.SeverityWarning, view.Toast.Severity)
	assert.Equal(t, "Deleted 2 of 3 record(s); 1 failed", view.Toast.Message)
	assert.Equal(t, []string{"2"}, rowIDs(view))

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditOutcomePartial, audit.entries[0].Outcome)
}

func TestWorkspaceBulkDeleteAllFail(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()[:1]
	api.deleteErr["1"] = errors.New("nope")
	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	ctx := context.Background()
	require.NoError(t, ws.LoadData(ctx))
	calls := api.listCalls

	require.NoError(t, ws.ToggleRow("1"))
	conf := ws.RequestDeleteSelected()
	require.NoError(t, ws.Confirm(ctx, conf.ID))

	view := ws.View()
	assert.Equal(t, MsgBulkDeleteFailed, view.Toast.Message)
	assert.Equal(t, []string{"1"}, view.SelectedIDs)
	assert.Equal(t, calls, api.listCalls, "no reload when nothing was deleted")
}

func TestWorkspaceUploadInvalidNeverUploads(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.report = &models.ValidationReport{Valid: false, Errors: []string{"Row 2: missing section"}}
	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	ctx := context.Background()
	ws.SetUploadOpen(true)

	report, err := ws.Upload(ctx, "batches.csv", []byte("id,batchName\n1,CSE\n"))
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.False(t, report.Valid)
	assert.Equal(t, 1, api.validateCalls)
	assert.Equal(t, 0, api.uploadCalls)

	view := ws.View()
	assert.Equal(t, MsgValidationFailed, view.Message.Text)
	assert.Equal(t, report, view.Report)
	assert.True(t, view.UploadOpen)
}

func TestWorkspaceUploadSuccess(t *testing.T) {
	api := newFakeWorkspaceAPI()
	ws := newTestWorkspace(t, api, WorkspaceOptions{Dataset: models.DatasetCourses})
	ctx := context.Background()
	ws.SetUploadOpen(true)

	_, err := ws.Upload(ctx, "courses.csv", nil)
	require.Error(t, err)
	assert.Equal(t, MsgSelectFile, ws.View().Message.Text)
	assert.Equal(t, 0, api.validateCalls)

	report, err := ws.Upload(ctx, "courses.csv", []byte("id,name\n"))
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Equal(t, 1, api.uploadCalls)

	view := ws.View()
	assert.Equal(t, "Courses uploaded successfully.", view.Message.Text)
	assert.False(t, view.UploadOpen)
	assert.Nil(t, view.Report)
}

func TestWorkspaceUploadFailureUsesUpstreamMessage(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.uploadErr = &timetableapi.Error{Status: 400, Message: "Duplicate ids found"}
	ws := newTestWorkspace(t, api, WorkspaceOptions{})

	_, err := ws.Upload(context.Background(), "batches.csv", []byte("x"))
	require.Error(t, err)
	assert.Equal(t, "Duplicate ids found", ws.View().Message.Text)

	api.uploadErr = errors.New("dial tcp: refused")
	_, err = ws.Upload(context.Background(), "batches.csv", []byte("x"))
	require.Error(t, err)
	assert.Equal(t, MsgUploadFailed, ws.View().Message.Text)
}

func TestWorkspaceDownload(t *testing.T) {
	api := newFakeWorkspaceAPI()
	ws := newTestWorkspace(t, api, WorkspaceOptions{Dataset: models.DatasetRooms})

	_, err := ws.Download(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgDownloadFailed, ws.View().Message.Text)

	api.download = []byte("id,roomNumber\r\n1,L101\r\n")
	dl, err := ws.Download(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rooms.csv", dl.Filename)
	assert.Equal(t, api.download, dl.Content)
}

func TestWorkspaceSelectDatasetResetsState(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()
	api.records[models.DatasetRooms] = []models.Record{{"id": json.Number("7"), "roomNumber": "L101"}}
	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	ctx := context.Background()
	require.NoError(t, ws.LoadData(ctx))

	ws.Search("l1")
	require.NoError(t, ws.Sort("id"))
	require.NoError(t, ws.ToggleRow("1"))
	require.NoError(t, ws.BeginEdit("1"))
	ws.BeginAdd()
	ws.SetUploadOpen(true)

	require.NoError(t, ws.SelectDataset(ctx, models.DatasetRooms))
	view := ws.View()
	assert.Equal(t, models.DatasetRooms, view.Dataset)
	assert.Equal(t, "l1", view.Search)
	assert.Equal(t, "id", view.Sort.Key)
	assert.Empty(t, view.SelectedIDs)
	assert.Nil(t, view.Editing)
	assert.False(t, view.Add.Open)
	assert.False(t, view.UploadOpen)
	assert.Equal(t, []string{"7"}, rowIDs(view))

	assert.Error(t, ws.SelectDataset(ctx, models.DatasetType("teachers")))
}

func TestWorkspaceDropsStaleLoad(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()
	api.records[models.DatasetRooms] = []models.Record{{"id": json.Number("7"), "roomNumber": "L101"}}

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	api.listHook = func(ds models.DatasetType) {
		if ds == models.DatasetBatches {
			once.Do(func() { close(started) })
			<-release
		}
	}

	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- ws.LoadData(ctx) }()
	<-started

	require.NoError(t, ws.SelectDataset(ctx, models.DatasetRooms))
	close(release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("stale load did not return")
	}

	view := ws.View()
	assert.Equal(t, models.DatasetRooms, view.Dataset)
	assert.Equal(t, []string{"7"}, rowIDs(view))
	assert.False(t, view.Loading)
}

func TestWorkspacePreviewLifecycle(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.preview = &models.Preview{Headers: []string{"id"}, Data: [][]interface{}{{"1"}, {"2"}}, TotalRows: 40}
	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	ctx := context.Background()

	require.NoError(t, ws.SetPreviewRows(ctx, 25))
	assert.Empty(t, api.previews, "closed preview never fetches")

	require.NoError(t, ws.OpenPreview(ctx, 0))
	assert.Equal(t, []int{25}, api.previews)
	view := ws.View()
	assert.True(t, view.Preview.Open)
	assert.Equal(t, "Showing 2 of 40 rows", view.Preview.Caption)

	require.NoError(t, ws.SetPreviewRows(ctx, 50))
	assert.Equal(t, []int{25, 50}, api.previews)

	assert.Error(t, ws.SetPreviewRows(ctx, 7))

	require.NoError(t, ws.SelectDataset(ctx, models.DatasetFaculty))
	assert.Equal(t, []int{25, 50, 50}, api.previews)
	assert.Equal(t, models.DatasetFaculty, ws.View().Preview.Dataset)

	ws.ClosePreview()
	require.NoError(t, ws.SelectDataset(ctx, models.DatasetRooms))
	assert.Len(t, api.previews, 3)
}

func TestWorkspaceTypeOptionsOverlay(t *testing.T) {
	api := newFakeWorkspaceAPI()
	ws := newTestWorkspace(t, api, WorkspaceOptions{Dataset: models.DatasetRooms})
	ws.SetTypeOptions(models.TypeOptions{RoomTypes: []string{"AUDITORIUM"}})

	view := ws.View()
	var roomType FieldInput
	for _, in := range view.Inputs {
		if in.Key == "roomType" {
			roomType = in
		}
	}
	assert.Equal(t, []string{"AUDITORIUM"}, roomType.Options)

	err := ws.SubmitAdd(context.Background(), map[string]interface{}{"roomNumber": "A1", "capacity": "300", "roomType": "LECTURE_ROOM"})
	require.Error(t, err)
	assert.Equal(t, "Choose a valid Room Type.", appErrors.FromError(err).Message)
}

func TestWorkspaceSubmitRejectsWithoutPartialMerge(t *testing.T) {
	api := newFakeWorkspaceAPI()
	api.records[models.DatasetBatches] = batchRecords()
	ws := newTestWorkspace(t, api, WorkspaceOptions{})
	ctx := context.Background()
	require.NoError(t, ws.LoadData(ctx))

	for i := 0; i < 20; i++ {
		require.Error(t, ws.SubmitAdd(ctx, map[string]interface{}{"batchName": "Ada", "section": "C", "id": "99"}))
	}
	assert.Empty(t, ws.View().Add.Draft)

	require.NoError(t, ws.BeginEdit("1"))
	for i := 0; i < 20; i++ {
		require.Error(t, ws.SubmitEdit(ctx, map[string]interface{}{"batchName": "Renamed", "id": "9"}))
	}
	editing := ws.View().Editing
	require.NotNil(t, editing)
	assert.Equal(t, "CSE 2024 A", editing["batchName"])
	assert.Empty(t, api.created)
	assert.Empty(t, api.updated)
}

func TestWorkspaceBulkDeleteSelectedSubset(t *testing.T) {
	api := newFakeWorkspaceAPI()
	records := batchRecords()
	records = append(records,
		models.Record{"id": json.Number("4"), "batchName": "ME 2022 A", "year": json.Number("4"), "section": "A", "studentCount": json.Number("50")},
		models.Record{"id": json.Number("5"), "batchName": "CE 2024 B", "year": json.Number("1"), "section": "B", "studentCount": json.Number("40")},
	)
	api.records[models.DatasetBatches] = records
	ws := newTestWorkspace(t, api, WorkspaceOptions{BulkDeleteConcurrency: 2})
	ctx := context.Background()
	require.NoError(t, ws.LoadData(ctx))
	require.Len(t, ws.View().Rows, 5)

	for _, id := range []string{"1", "3", "5"} {
		require.NoError(t, ws.ToggleRow(id))
	}
	conf := ws.RequestDeleteSelected()
	require.NotNil(t, conf)
	assert.Equal(t, "Delete 3 records", conf.Title)

	require.NoError(t, ws.Confirm(ctx, conf.ID))
	assert.Len(t, api.deleted, 3)
	assert.ElementsMatch(t, []string{"1", "3", "5"}, api.deleted)

	view := ws.View()
	assert.ElementsMatch(t, []string{"2", "4"}, rowIDs(view))
	assert.Empty(t, view.SelectedIDs)
	assert.Equal(t, "Successfully deleted 3 record(s)", view.Toast.Message)
}
