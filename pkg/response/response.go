// Package response writes the JSON envelope every console endpoint returns.
package response

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/timetable-workspace/pkg/errors"
)

// Envelope is the body shape of every JSON response. A failed operation
// may still carry Data, typically the view the client should re-render.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *appErrors.Error       `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// JSON writes data with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	env := Envelope{Data: data}
	if len(meta) > 0 {
		env.Meta = meta[0]
	}
	write(c, status, env)
}

func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error maps err onto its coded form; unknown errors become 500.
func Error(c *gin.Context, err error) {
	ErrorWithData(c, err, nil)
}

// ErrorWithData writes err together with a payload.
func ErrorWithData(c *gin.Context, err error, data interface{}) {
	appErr := appErrors.FromError(err)
	write(c, appErr.Status, Envelope{Data: data, Error: appErr})
}

// Attachment sends payload as a file download named filename.
func Attachment(c *gin.Context, filename, contentType string, payload []byte) {
	noStore(c)
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, contentType, payload)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func write(c *gin.Context, status int, env Envelope) {
	noStore(c)
	c.JSON(status, env)
}

// noStore keeps workspace views out of browser and proxy caches.
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
