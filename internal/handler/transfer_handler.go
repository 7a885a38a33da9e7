package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/timetable-workspace/internal/dto"
	"github.com/noah-isme/timetable-workspace/internal/service"
	"github.com/noah-isme/timetable-workspace/pkg/response"
)

// MaxUploadBytes caps CSV uploads.
const MaxUploadBytes = 10 << 20

// TransferHandler exposes CSV upload, download and preview.
type TransferHandler struct {
	validate *validator.Validate
}

// NewTransferHandler builds a transfer handler.
func NewTransferHandler(validate *validator.Validate) *TransferHandler {
	return &TransferHandler{validate: defaultValidator(validate)}
}

// SetUploadPanel godoc
// @Summary Open or close the upload panel
// @Tags Transfer
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body dto.UploadPanelRequest true "Panel state"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/upload-panel [put]
func (h *TransferHandler) SetUploadPanel(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	var req dto.UploadPanelRequest
	if !bindJSON(c, h.validate, &req, "invalid panel payload") {
		return
	}
	ws.SetUploadOpen(req.Open)
	respondView(c, ws, nil)
}

// Upload godoc
// @Summary Validate and upload a CSV for the active dataset
// @Description The file is validated first; an invalid report is returned with status 200 and nothing is uploaded.
// @Tags Transfer
// @Accept multipart/form-data
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /workspaces/{sessionID}/upload [post]
func (h *TransferHandler) Upload(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)

	var (
		filename string
		content  []byte
	)
	if header, err := c.FormFile("file"); err == nil {
		file, err := header.Open()
		if err != nil {
			response.Error(c, bindFailure(err, service.MsgSelectFile))
			return
		}
		defer file.Close()
		content, err = io.ReadAll(file)
		if err != nil {
			response.Error(c, bindFailure(err, "unable to read upload"))
			return
		}
		filename = header.Filename
	}

	_, err := ws.Upload(c.Request.Context(), filename, content)
	respondView(c, ws, err)
}

// Download godoc
// @Summary Download the stored CSV of the active dataset
// @Tags Transfer
// @Produce text/csv
// @Param sessionID path string true "Session ID"
// @Success 200 {file} file
// @Failure 502 {object} response.Envelope
// @Router /workspaces/{sessionID}/download [get]
func (h *TransferHandler) Download(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	download, err := ws.Download(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, download.Filename, service.ContentTypeCSV, download.Content)
}

// OpenPreview godoc
// @Summary Open the CSV preview
// @Tags Transfer
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body dto.PreviewRequest false "Row count"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/preview [post]
func (h *TransferHandler) OpenPreview(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	var req dto.PreviewRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, h.validate, &req, "invalid preview payload") {
		return
	}
	respondView(c, ws, ws.OpenPreview(c.Request.Context(), req.Rows))
}

// SetPreviewRows godoc
// @Summary Change the preview row count
// @Tags Transfer
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body dto.PreviewRequest true "Row count"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/preview [put]
func (h *TransferHandler) SetPreviewRows(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	var req dto.PreviewRequest
	if !bindJSON(c, h.validate, &req, "invalid preview payload") {
		return
	}
	respondView(c, ws, ws.SetPreviewRows(c.Request.Context(), req.Rows))
}

// ClosePreview godoc
// @Summary Close the CSV preview
// @Tags Transfer
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/preview [delete]
func (h *TransferHandler) ClosePreview(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	ws.ClosePreview()
	respondView(c, ws, nil)
}

// Register mounts the transfer routes on a session-scoped group.
func (h *TransferHandler) Register(scoped *gin.RouterGroup) {
	scoped.PUT("/upload-panel", h.SetUploadPanel)
	scoped.POST("/upload", h.Upload)
	scoped.GET("/download", h.Download)
	scoped.POST("/preview", h.OpenPreview)
	scoped.PUT("/preview", h.SetPreviewRows)
	scoped.DELETE("/preview", h.ClosePreview)
}
