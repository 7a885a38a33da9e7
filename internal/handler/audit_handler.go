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

type auditLister interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
}

// AuditHandler lists recorded workspace mutations.
type AuditHandler struct {
	audit    auditLister
	validate *validator.Validate
}

// NewAuditHandler constructs the audit handler.
func NewAuditHandler(audit auditLister, validate *validator.Validate) *AuditHandler {
	return &AuditHandler{audit: audit, validate: defaultValidator(validate)}
}

// List godoc
// @Summary Recent workspace mutations
// @Tags Audit
// @Produce json
// @Param dataset query string false "Dataset or batch-year-mapping"
// @Param limit query int false "Maximum rows (1-500)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	var query dto.AuditListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindFailure(err, "invalid audit query"))
		return
	}
	if err := h.validate.Struct(query); err != nil {
		response.Error(c, bindFailure(err, "invalid audit query"))
		return
	}
	logs, err := h.audit.List(c.Request.Context(), models.AuditFilter{Dataset: query.Dataset, Limit: query.Limit})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, map[string]interface{}{"count": len(logs)})
}

// Register mounts the audit route.
func (h *AuditHandler) Register(root *gin.RouterGroup) {
	root.GET("/audit", h.List)
}
