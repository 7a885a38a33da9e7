package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-workspace/internal/middleware"
	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/internal/service"
	appErrors "github.com/noah-isme/timetable-workspace/pkg/errors"
)

type fakeDatasetAPI struct {
	mu        sync.Mutex
	records   map[models.DatasetType][]models.Record
	createErr error
	created   []models.Record
	deleted   []string
	report    *models.ValidationReport
	uploaded  []string
	download  []byte
	preview   *models.Preview
}

func newFakeDatasetAPI() *fakeDatasetAPI {
	return &fakeDatasetAPI{records: map[models.DatasetType][]models.Record{
		models.DatasetBatches: {
			{"id": json.Number("1"), "batchName": "CSE 2024 A", "year": json.Number("2"), "section": "A", "studentCount": json.Number("60")},
			{"id": json.Number("2"), "batchName": "ECE 2023 B", "year": json.Number("1"), "section": "B", "studentCount": json.Number("45")},
		},
	}}
}

func (f *fakeDatasetAPI) List(ctx context.Context, ds models.DatasetType) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Record, 0, len(f.records[ds]))
	for _, rec := range f.records[ds] {
		out = append(out, rec.Clone())
	}
	return out, nil
}

func (f *fakeDatasetAPI) Create(ctx context.Context, ds models.DatasetType, rec models.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, rec)
	return nil
}

func (f *fakeDatasetAPI) Update(ctx context.Context, ds models.DatasetType, id string, rec models.Record) error {
	return nil
}

func (f *fakeDatasetAPI) Delete(ctx context.Context, ds models.DatasetType, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	kept := make([]models.Record, 0, len(f.records[ds]))
	for _, rec := range f.records[ds] {
		if rec.ID() != id {
			kept = append(kept, rec)
		}
	}
	f.records[ds] = kept
	return nil
}

func (f *fakeDatasetAPI) Validate(ctx context.Context, ds models.DatasetType, filename string, content []byte) (*models.ValidationReport, error) {
	if f.report != nil {
		return f.report, nil
	}
	return &models.ValidationReport{Valid: true}, nil
}

func (f *fakeDatasetAPI) Upload(ctx context.Context, ds models.DatasetType, filename string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, filename)
	return "ok", nil
}

func (f *fakeDatasetAPI) Download(ctx context.Context, ds models.DatasetType) ([]byte, error) {
	if f.download == nil {
		return nil, errors.New("unavailable")
	}
	return f.download, nil
}

func (f *fakeDatasetAPI) Preview(ctx context.Context, ds models.DatasetType, rows int) (*models.Preview, error) {
	if f.preview == nil {
		return nil, errors.New("unavailable")
	}
	return f.preview, nil
}

type viewEnvelope struct {
	Data  service.WorkspaceView `json:"data"`
	Error *appErrors.Error      `json:"error"`
}

func newWorkspaceRouter(t *testing.T, api *fakeDatasetAPI) (*gin.Engine, *service.SessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := service.NewSessionService(api, nil, nil, nil, nil, service.SessionServiceConfig{})
	router := gin.New()
	root := router.Group("/api/v1")
	scoped := root.Group("/workspaces/:"+middleware.SessionParam, middleware.Workspace(sessions))
	NewWorkspaceHandler(sessions, nil).Register(root, scoped)
	NewTransferHandler(nil).Register(scoped)
	return router, sessions
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) viewEnvelope {
	t.Helper()
	var env viewEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func openSession(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/workspaces", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeView(t, rec)
	require.NotEmpty(t, env.Data.SessionID)
	return env.Data.SessionID
}

func TestWorkspaceHandlerCreateLoadsBatches(t *testing.T) {
	router, sessions := newWorkspaceRouter(t, newFakeDatasetAPI())

	rec := doJSON(t, router, http.MethodPost, "/api/v1/workspaces", nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeView(t, rec)
	assert.Equal(t, models.DatasetBatches, env.Data.Dataset)
	assert.Equal(t, 2, env.Data.TotalRecords)
	assert.Equal(t, 1, sessions.Count())
}

func TestWorkspaceHandlerCreateRejectsUnknownDataset(t *testing.T) {
	router, _ := newWorkspaceRouter(t, newFakeDatasetAPI())

	rec := doJSON(t, router, http.MethodPost, "/api/v1/workspaces", map[string]string{"dataset": "students"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkspaceHandlerUnknownSession(t *testing.T) {
	router, _ := newWorkspaceRouter(t, newFakeDatasetAPI())

	rec := doJSON(t, router, http.MethodGet, "/api/v1/workspaces/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, appErrors.ErrSessionNotFound.Code, decodeView(t, rec).Error.Code)
}

func TestWorkspaceHandlerSearchAndSort(t *testing.T) {
	router, _ := newWorkspaceRouter(t, newFakeDatasetAPI())
	id := openSession(t, router)
	base := "/api/v1/workspaces/" + id

	rec := doJSON(t, router, http.MethodPut, base+"/search", map[string]string{"term": "ece"})
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeView(t, rec)
	assert.Equal(t, 1, env.Data.VisibleRecords)
	assert.Equal(t, 2, env.Data.TotalRecords)

	rec = doJSON(t, router, http.MethodPut, base+"/search", map[string]string{"term": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodPut, base+"/sort", map[string]string{"key": "year"})
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeView(t, rec)
	require.Len(t, env.Data.Rows, 2)
	assert.Equal(t, "2", env.Data.Rows[0].ID)
	assert.Equal(t, service.SortAsc, env.Data.Sort.Direction)

	rec = doJSON(t, router, http.MethodPut, base+"/sort", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkspaceHandlerDeleteRequiresConfirmation(t *testing.T) {
	api := newFakeDatasetAPI()
	router, _ := newWorkspaceRouter(t, api)
	id := openSession(t, router)
	base := "/api/v1/workspaces/" + id

	rec := doJSON(t, router, http.MethodPost, base+"/records/1/delete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeView(t, rec)
	require.NotNil(t, env.Data.Confirmation)
	assert.Empty(t, api.deleted)

	rec = doJSON(t, router, http.MethodPost, base+"/confirmation", map[string]string{"id": env.Data.Confirmation.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeView(t, rec)
	assert.Equal(t, []string{"1"}, api.deleted)
	assert.Nil(t, env.Data.Confirmation)
	assert.Equal(t, 1, env.Data.TotalRecords)

	rec = doJSON(t, router, http.MethodPost, base+"/confirmation", map[string]string{"id": "stale"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWorkspaceHandlerSubmitAddValidationKeepsView(t *testing.T) {
	api := newFakeDatasetAPI()
	router, _ := newWorkspaceRouter(t, api)
	id := openSession(t, router)
	base := "/api/v1/workspaces/" + id

	rec := doJSON(t, router, http.MethodPost, base+"/draft/submit", map[string]interface{}{
		"fields": map[string]interface{}{"batchName": "CSE 2025 A", "year": 1, "section": "2025", "studentCount": 40},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeView(t, rec)
	assert.Equal(t, service.MsgSectionYear, env.Error.Message)
	assert.True(t, env.Data.Add.Open)
	assert.Empty(t, api.created)
}

func TestWorkspaceHandlerSelectionAndClose(t *testing.T) {
	router, sessions := newWorkspaceRouter(t, newFakeDatasetAPI())
	id := openSession(t, router)
	base := "/api/v1/workspaces/" + id

	rec := doJSON(t, router, http.MethodPost, base+"/selection", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeView(t, rec).Data.AllVisibleSelected)

	rec = doJSON(t, router, http.MethodPost, base+"/records/2/select", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeView(t, rec)
	assert.Equal(t, []string{"1"}, env.Data.SelectedIDs)
	assert.True(t, env.Data.Indeterminate)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/workspaces/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, sessions.Count())
}
