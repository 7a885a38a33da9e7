package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/timetable-workspace/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	return c, rec
}

func TestJSONWithMeta(t *testing.T) {
	c, rec := newContext()
	JSON(c, http.StatusOK, []string{"rooms"}, map[string]interface{}{"total": 1})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{"rooms"}, body["data"])
	assert.Equal(t, map[string]interface{}{"total": float64(1)}, body["meta"])
	assert.NotContains(t, body, "error")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestErrorWithData(t *testing.T) {
	c, rec := newContext()
	ErrorWithData(c, appErrors.Clone(appErrors.ErrUpstream, "delete failed"), map[string]int{"visible": 3})

	assert.Equal(t, appErrors.ErrUpstream.Status, rec.Code)
	var body struct {
		Data  map[string]int   `json:"data"`
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data["visible"])
	assert.Equal(t, appErrors.ErrUpstream.Code, body.Error.Code)
	assert.Equal(t, "delete failed", body.Error.Message)
}

func TestErrorHidesUnknownErrors(t *testing.T) {
	c, rec := newContext()
	Error(c, errors.New("dial tcp: refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAttachmentQuotesFilename(t *testing.T) {
	c, rec := newContext()
	Attachment(c, "rooms report.pdf", "application/pdf", []byte("%PDF"))

	assert.Equal(t, `attachment; filename="rooms report.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", rec.Body.String())
}
