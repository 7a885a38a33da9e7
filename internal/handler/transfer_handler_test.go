package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/internal/service"
)

func uploadRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestTransferHandlerUploadValidFile(t *testing.T) {
	api := newFakeDatasetAPI()
	router, _ := newWorkspaceRouter(t, api)
	id := openSession(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/api/v1/workspaces/"+id+"/upload", "batches.csv", []byte("id,batchName\n1,CSE\n")))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeView(t, rec)
	require.NotNil(t, env.Data.Message)
	assert.Equal(t, "Batches uploaded successfully.", env.Data.Message.Text)
	assert.Equal(t, []string{"batches.csv"}, api.uploaded)
}

func TestTransferHandlerUploadInvalidReportIsNotAnError(t *testing.T) {
	api := newFakeDatasetAPI()
	api.report = &models.ValidationReport{Valid: false, Errors: []string{"Row 2: missing batchName"}}
	router, _ := newWorkspaceRouter(t, api)
	id := openSession(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/api/v1/workspaces/"+id+"/upload", "batches.csv", []byte("id\n1\n")))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeView(t, rec)
	require.NotNil(t, env.Data.Report)
	assert.False(t, env.Data.Report.Valid)
	assert.Equal(t, service.MsgValidationFailed, env.Data.Message.Text)
	assert.Empty(t, api.uploaded)
}

func TestTransferHandlerUploadWithoutFile(t *testing.T) {
	router, _ := newWorkspaceRouter(t, newFakeDatasetAPI())
	id := openSession(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/api/v1/workspaces/"+id+"/upload", "", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.MsgSelectFile, decodeView(t, rec).Error.Message)
}

func TestTransferHandlerDownload(t *testing.T) {
	api := newFakeDatasetAPI()
	api.download = []byte("id,batchName\n1,CSE\n")
	router, _ := newWorkspaceRouter(t, api)
	id := openSession(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/workspaces/"+id+"/download", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=batches.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, api.download, rec.Body.Bytes())
}

func TestTransferHandlerDownloadFailure(t *testing.T) {
	router, _ := newWorkspaceRouter(t, newFakeDatasetAPI())
	id := openSession(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/workspaces/"+id+"/download", nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestTransferHandlerPreviewLifecycle(t *testing.T) {
	api := newFakeDatasetAPI()
	api.preview = &models.Preview{Headers: []string{"id"}, Data: [][]interface{}{{"1"}}, TotalRows: 1}
	router, _ := newWorkspaceRouter(t, api)
	id := openSession(t, router)
	base := "/api/v1/workspaces/" + id + "/preview"

	rec := doJSON(t, router, http.MethodPost, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeView(t, rec).Data.Preview.Open)

	rec = doJSON(t, router, http.MethodPut, base, map[string]int{"rows": 5000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeView(t, rec).Data.Preview.Open)
}
