package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/timetable-workspace/internal/dto"
	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/pkg/response"
)

type mappingProvider interface {
	List(ctx context.Context) (models.YearMapping, error)
	Overview(ctx context.Context) (*models.YearMappingOverview, error)
	Add(ctx context.Context, identifier string, level int) (string, error)
	Remove(ctx context.Context, identifier string) (string, error)
	Replace(ctx context.Context, mapping models.YearMapping) error
}

// MappingHandler manages the batch to year-level mapping.
type MappingHandler struct {
	mapping  mappingProvider
	validate *validator.Validate
}

// NewMappingHandler constructs the mapping handler.
func NewMappingHandler(mapping mappingProvider, validate *validator.Validate) *MappingHandler {
	return &MappingHandler{mapping: mapping, validate: defaultValidator(validate)}
}

// List godoc
// @Summary Raw year identifier to level mapping
// @Tags Mapping
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /batch-year-mapping [get]
func (h *MappingHandler) List(c *gin.Context) {
	mapping, err := h.mapping.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, models.YearMappingDocument{YearIdentifierToLevel: mapping})
}

// Overview godoc
// @Summary Mapping entries with level names and affected batches
// @Tags Mapping
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /batch-year-mapping/overview [get]
func (h *MappingHandler) Overview(c *gin.Context) {
	overview, err := h.mapping.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview)
}

// Replace godoc
// @Summary Replace the whole mapping
// @Tags Mapping
// @Accept json
// @Produce json
// @Param payload body dto.ReplaceMappingRequest true "Mapping"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /batch-year-mapping [put]
func (h *MappingHandler) Replace(c *gin.Context) {
	var req dto.ReplaceMappingRequest
	if !bindJSON(c, h.validate, &req, "invalid mapping payload") {
		return
	}
	if err := h.mapping.Replace(c.Request.Context(), models.YearMapping(req.YearIdentifierToLevel)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.MessageResponse{Message: "Mapping saved."})
}

// Add godoc
// @Summary Add or overwrite one mapping entry
// @Tags Mapping
// @Accept json
// @Produce json
// @Param payload body dto.AddMappingRequest true "Entry"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /batch-year-mapping/add [post]
func (h *MappingHandler) Add(c *gin.Context) {
	var req dto.AddMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindFailure(err, "invalid mapping payload"))
		return
	}
	// Blank identifiers and out-of-range levels get the service's messages.
	message, err := h.mapping.Add(c.Request.Context(), req.YearIdentifier, req.YearLevel)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.MessageResponse{Message: message})
}

// Remove godoc
// @Summary Remove one mapping entry
// @Tags Mapping
// @Produce json
// @Param identifier path string true "Year identifier"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /batch-year-mapping/{identifier} [delete]
func (h *MappingHandler) Remove(c *gin.Context) {
	message, err := h.mapping.Remove(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.MessageResponse{Message: message})
}

// Register mounts the mapping routes.
func (h *MappingHandler) Register(root *gin.RouterGroup) {
	group := root.Group("/batch-year-mapping")
	group.GET("", h.List)
	group.PUT("", h.Replace)
	group.GET("/overview", h.Overview)
	group.POST("/add", h.Add)
	group.DELETE("/:identifier", h.Remove)
}
