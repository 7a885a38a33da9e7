package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/pkg/response"
)

type metadataProvider interface {
	TypeOptions(ctx context.Context) models.TypeOptions
	Refresh(ctx context.Context) error
	Schemas(ctx context.Context) ([]models.DatasetSchema, error)
	DatasetMetadata(ctx context.Context, ds models.DatasetType) (json.RawMessage, error)
	DatasetStatistics(ctx context.Context, ds models.DatasetType) (json.RawMessage, error)
}

type typeOptionsRefresher interface {
	RefreshTypeOptions(ctx context.Context)
}

// MetadataHandler serves dataset schemas and runtime type options.
type MetadataHandler struct {
	metadata metadataProvider
	sessions typeOptionsRefresher
}

// NewMetadataHandler constructs the handler. sessions may be nil.
func NewMetadataHandler(metadata metadataProvider, sessions typeOptionsRefresher) *MetadataHandler {
	return &MetadataHandler{metadata: metadata, sessions: sessions}
}

// Schemas godoc
// @Summary Table schemas of every dataset with current type options
// @Tags Metadata
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schemas [get]
func (h *MetadataHandler) Schemas(c *gin.Context) {
	schemas, err := h.metadata.Schemas(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schemas)
}

// Types godoc
// @Summary Room and course type options
// @Tags Metadata
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /metadata/types [get]
func (h *MetadataHandler) Types(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metadata.TypeOptions(c.Request.Context()))
}

// Refresh godoc
// @Summary Drop cached type options and push fresh ones to open workspaces
// @Tags Metadata
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /metadata/refresh [post]
func (h *MetadataHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.metadata.Refresh(ctx); err != nil {
		response.Error(c, err)
		return
	}
	if h.sessions != nil {
		h.sessions.RefreshTypeOptions(ctx)
	}
	response.JSON(c, http.StatusOK, h.metadata.TypeOptions(ctx))
}

// DatasetMetadata godoc
// @Summary Upstream metadata of a dataset
// @Tags Metadata
// @Produce json
// @Param dataset path string true "Dataset" Enums(batches, faculty, rooms, courses)
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /datasets/{dataset}/metadata [get]
func (h *MetadataHandler) DatasetMetadata(c *gin.Context) {
	ds, ok := datasetParam(c)
	if !ok {
		return
	}
	payload, err := h.metadata.DatasetMetadata(c.Request.Context(), ds)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payload)
}

// DatasetStatistics godoc
// @Summary Upstream statistics of a dataset
// @Tags Metadata
// @Produce json
// @Param dataset path string true "Dataset" Enums(batches, faculty, rooms, courses)
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /datasets/{dataset}/statistics [get]
func (h *MetadataHandler) DatasetStatistics(c *gin.Context) {
	ds, ok := datasetParam(c)
	if !ok {
		return
	}
	payload, err := h.metadata.DatasetStatistics(c.Request.Context(), ds)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payload)
}

// Register mounts the metadata routes.
func (h *MetadataHandler) Register(root *gin.RouterGroup) {
	root.GET("/schemas", h.Schemas)
	root.GET("/metadata/types", h.Types)
	root.POST("/metadata/refresh", h.Refresh)
	root.GET("/datasets/:dataset/metadata", h.DatasetMetadata)
	root.GET("/datasets/:dataset/statistics", h.DatasetStatistics)
}
