package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/internal/service"
	appErrors "github.com/noah-isme/timetable-workspace/pkg/errors"
	"github.com/noah-isme/timetable-workspace/pkg/response"
)

type statsProvider interface {
	ForWorkspace(ws *service.Workspace) *models.Stats
	ForDataset(ctx context.Context, ds models.DatasetType) (*models.Stats, error)
	Counts(ctx context.Context) (models.DatasetCounts, error)
}

type exportProvider interface {
	ExportView(ctx context.Context, ws *service.Workspace) (*service.ExportResult, error)
	ExportReport(ctx context.Context, stats *models.Stats) (*service.ExportResult, error)
	ResolveDownload(token string) (*service.ExportDownload, error)
}

// AnalyticsHandler serves dataset statistics, exports and signed downloads.
type AnalyticsHandler struct {
	analytics statsProvider
	exports   exportProvider
}

// NewAnalyticsHandler constructs the analytics handler. exports may be nil
// when file storage is not configured.
func NewAnalyticsHandler(analytics statsProvider, exports exportProvider) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, exports: exports}
}

// WorkspaceStats godoc
// @Summary Statistics for the loaded dataset
// @Description Computed over every loaded record, regardless of the search filter. Data is null when nothing is loaded.
// @Tags Analytics
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/stats [get]
func (h *AnalyticsHandler) WorkspaceStats(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	start := time.Now()
	stats := h.analytics.ForWorkspace(ws)
	response.JSON(c, http.StatusOK, stats, map[string]interface{}{
		"processing_time_ms": time.Since(start).Milliseconds(),
	})
}

// DatasetStats godoc
// @Summary Statistics for a dataset fetched from the timetable service
// @Tags Analytics
// @Produce json
// @Param dataset path string true "Dataset" Enums(batches, faculty, rooms, courses)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /datasets/{dataset}/stats [get]
func (h *AnalyticsHandler) DatasetStats(c *gin.Context) {
	ds, ok := datasetParam(c)
	if !ok {
		return
	}
	stats, err := h.analytics.ForDataset(c.Request.Context(), ds)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Counts godoc
// @Summary Row counts for every dataset
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /stats/counts [get]
func (h *AnalyticsHandler) Counts(c *gin.Context) {
	counts, err := h.analytics.Counts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts)
}

// ExportCSV godoc
// @Summary Export the visible rows as CSV
// @Tags Analytics
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 201 {object} response.Envelope
// @Router /workspaces/{sessionID}/export/csv [post]
func (h *AnalyticsHandler) ExportCSV(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok || !h.requireExports(c) {
		return
	}
	result, err := h.exports.ExportView(c.Request.Context(), ws)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ExportReport godoc
// @Summary Export the statistics report as PDF
// @Tags Analytics
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /workspaces/{sessionID}/export/report [post]
func (h *AnalyticsHandler) ExportReport(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok || !h.requireExports(c) {
		return
	}
	result, err := h.exports.ExportReport(c.Request.Context(), h.analytics.ForWorkspace(ws))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download an export through its signed token
// @Tags Analytics
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /downloads/{token} [get]
func (h *AnalyticsHandler) Download(c *gin.Context) {
	if !h.requireExports(c) {
		return
	}
	download, err := h.exports.ResolveDownload(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, download.Filename, download.ContentType, download.Payload)
}

func (h *AnalyticsHandler) requireExports(c *gin.Context) bool {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "exports are not configured"))
		return false
	}
	return true
}

// Register mounts global routes on root and per-workspace routes on scoped.
func (h *AnalyticsHandler) Register(root, scoped *gin.RouterGroup) {
	root.GET("/stats/counts", h.Counts)
	root.GET("/datasets/:dataset/stats", h.DatasetStats)
	root.GET("/downloads/:token", h.Download)

	scoped.GET("/stats", h.WorkspaceStats)
	scoped.POST("/export/csv", h.ExportCSV)
	scoped.POST("/export/report", h.ExportReport)
}

func datasetParam(c *gin.Context) (models.DatasetType, bool) {
	ds, err := models.ParseDatasetType(c.Param("dataset"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unknown dataset"))
		return "", false
	}
	return ds, true
}
