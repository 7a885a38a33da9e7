package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/timetable-workspace/internal/dto"
	"github.com/noah-isme/timetable-workspace/internal/middleware"
	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/internal/service"
	"github.com/noah-isme/timetable-workspace/pkg/response"
)

type sessionStore interface {
	Create(ctx context.Context, ds models.DatasetType) (*service.Workspace, error)
	Delete(id string) error
}

// WorkspaceHandler exposes the table editor of a console session.
type WorkspaceHandler struct {
	sessions sessionStore
	validate *validator.Validate
}

// NewWorkspaceHandler builds a workspace handler.
func NewWorkspaceHandler(sessions sessionStore, validate *validator.Validate) *WorkspaceHandler {
	return &WorkspaceHandler{sessions: sessions, validate: defaultValidator(validate)}
}

// Create godoc
// @Summary Open a workspace session
// @Tags Workspace
// @Accept json
// @Produce json
// @Param payload body dto.CreateSessionRequest false "Initial dataset"
// @Success 201 {object} response.Envelope
// @Router /workspaces [post]
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, h.validate, &req, "invalid session payload") {
			return
		}
	}
	ws, err := h.sessions.Create(c.Request.Context(), models.DatasetType(req.Dataset))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ws.View())
}

// Close godoc
// @Summary Close a workspace session
// @Tags Workspace
// @Param sessionID path string true "Session ID"
// @Success 204
// @Router /workspaces/{sessionID} [delete]
func (h *WorkspaceHandler) Close(c *gin.Context) {
	if err := h.sessions.Delete(c.Param(middleware.SessionParam)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// View godoc
// @Summary Render the workspace view
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID} [get]
func (h *WorkspaceHandler) View(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	respondView(c, ws, nil)
}

// SelectDataset godoc
// @Summary Switch the active dataset
// @Tags Workspace
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body dto.SelectDatasetRequest true "Dataset"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /workspaces/{sessionID}/dataset [put]
func (h *WorkspaceHandler) SelectDataset(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	var req dto.SelectDatasetRequest
	if !bindJSON(c, h.validate, &req, "invalid dataset") {
		return
	}
	respondView(c, ws, ws.SelectDataset(c.Request.Context(), models.DatasetType(req.Dataset)))
}

// Reload godoc
// @Summary Reload records of the active dataset
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/reload [post]
func (h *WorkspaceHandler) Reload(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	respondView(c, ws, ws.LoadData(c.Request.Context()))
}

// Search godoc
// @Summary Filter visible rows
// @Tags Workspace
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body dto.SearchRequest true "Search term"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/search [put]
func (h *WorkspaceHandler) Search(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	var req dto.SearchRequest
	if !bindJSON(c, h.validate, &req, "invalid search payload") {
		return
	}
	ws.Search(req.Term)
	respondView(c, ws, nil)
}

// Sort godoc
// @Summary Sort by column
// @Tags Workspace
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body dto.SortRequest true "Sort column"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/sort [put]
func (h *WorkspaceHandler) Sort(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	var req dto.SortRequest
	if !bindJSON(c, h.validate, &req, "invalid sort payload") {
		return
	}
	respondView(c, ws, ws.Sort(req.Key))
}

// ToggleRow godoc
// @Summary Toggle selection of a row
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/records/{id}/select [post]
func (h *WorkspaceHandler) ToggleRow(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	respondView(c, ws, ws.ToggleRow(c.Param("id")))
}

// ToggleSelectAll godoc
// @Summary Select or clear every visible row
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/selection [post]
func (h *WorkspaceHandler) ToggleSelectAll(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	ws.ToggleSelectAllVisible()
	respondView(c, ws, nil)
}

// ClearSelection godoc
// @Summary Clear the selection
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/selection [delete]
func (h *WorkspaceHandler) ClearSelection(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	ws.ClearSelection()
	respondView(c, ws, nil)
}

// BeginAdd godoc
// @Summary Open the add form
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/draft [post]
func (h *WorkspaceHandler) BeginAdd(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	ws.BeginAdd()
	respondView(c, ws, nil)
}

// CancelAdd godoc
// @Summary Discard the add form
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/draft [delete]
func (h *WorkspaceHandler) CancelAdd(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	ws.CancelAdd()
	respondView(c, ws, nil)
}

// SetDraftField godoc
// @Summary Set one add form field
// @Tags Workspace
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body dto.FieldRequest true "Field"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/draft/field [put]
func (h *WorkspaceHandler) SetDraftField(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	var req dto.FieldRequest
	if !bindJSON(c, h.validate, &req, "invalid field payload") {
		return
	}
	respondView(c, ws, ws.SetDraftField(req.Key, req.Value))
}

// SubmitAdd godoc
// @Summary Create a record from the add form
// @Tags Workspace
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body dto.RecordFieldsRequest false "Fields merged into the draft"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /workspaces/{sessionID}/draft/submit [post]
func (h *WorkspaceHandler) SubmitAdd(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	var req dto.RecordFieldsRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, h.validate, &req, "invalid record payload") {
		return
	}
	respondView(c, ws, ws.SubmitAdd(c.Request.Context(), req.Fields))
}

// BeginEdit godoc
// @Summary Start inline editing of a row
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /workspaces/{sessionID}/records/{id}/edit [post]
func (h *WorkspaceHandler) BeginEdit(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	respondView(c, ws, ws.BeginEdit(c.Param("id")))
}

// CancelEdit godoc
// @Summary Discard inline edits
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/edit [delete]
func (h *WorkspaceHandler) CancelEdit(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	ws.CancelEdit()
	respondView(c, ws, nil)
}

// SetEditField godoc
// @Summary Set one field of the edited row
// @Tags Workspace
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body dto.FieldRequest true "Field"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/edit/field [put]
func (h *WorkspaceHandler) SetEditField(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	var req dto.FieldRequest
	if !bindJSON(c, h.validate, &req, "invalid field payload") {
		return
	}
	respondView(c, ws, ws.SetEditField(req.Key, req.Value))
}

// SubmitEdit godoc
// @Summary Save the edited row
// @Tags Workspace
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body dto.RecordFieldsRequest false "Fields merged into the edit buffer"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /workspaces/{sessionID}/edit/submit [post]
func (h *WorkspaceHandler) SubmitEdit(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	var req dto.RecordFieldsRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, h.validate, &req, "invalid record payload") {
		return
	}
	respondView(c, ws, ws.SubmitEdit(c.Request.Context(), req.Fields))
}

// RequestDelete godoc
// @Summary Ask to delete one row
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/records/{id}/delete [post]
func (h *WorkspaceHandler) RequestDelete(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	_, err := ws.RequestDelete(c.Param("id"))
	respondView(c, ws, err)
}

// RequestDeleteSelected godoc
// @Summary Ask to delete every selected row
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/selection/delete [post]
func (h *WorkspaceHandler) RequestDeleteSelected(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	ws.RequestDeleteSelected()
	respondView(c, ws, nil)
}

// Confirm godoc
// @Summary Accept the pending confirmation
// @Tags Workspace
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param payload body dto.ConfirmRequest true "Confirmation"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /workspaces/{sessionID}/confirmation [post]
func (h *WorkspaceHandler) Confirm(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	var req dto.ConfirmRequest
	if !bindJSON(c, h.validate, &req, "invalid confirmation payload") {
		return
	}
	respondView(c, ws, ws.Confirm(c.Request.Context(), req.ID))
}

// CancelConfirmation godoc
// @Summary Dismiss the pending confirmation
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param id path string true "Confirmation ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/confirmation/{id} [delete]
func (h *WorkspaceHandler) CancelConfirmation(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	respondView(c, ws, ws.CancelConfirmation(c.Param("id")))
}

// DismissToast godoc
// @Summary Dismiss the toast
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/toast [delete]
func (h *WorkspaceHandler) DismissToast(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	ws.DismissToast(c.Query("id"))
	respondView(c, ws, nil)
}

// DismissMessage godoc
// @Summary Dismiss the inline message
// @Tags Workspace
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{sessionID}/message [delete]
func (h *WorkspaceHandler) DismissMessage(c *gin.Context) {
	ws, ok := workspaceFromContext(c)
	if !ok {
		return
	}
	ws.DismissMessage()
	respondView(c, ws, nil)
}

// Register mounts the workspace routes. scoped must resolve the session.
func (h *WorkspaceHandler) Register(root *gin.RouterGroup, scoped *gin.RouterGroup) {
	root.POST("/workspaces", h.Create)
	root.DELETE("/workspaces/:"+middleware.SessionParam, h.Close)

	scoped.GET("", h.View)
	scoped.PUT("/dataset", h.SelectDataset)
	scoped.POST("/reload", h.Reload)
	scoped.PUT("/search", h.Search)
	scoped.PUT("/sort", h.Sort)
	scoped.POST("/selection", h.ToggleSelectAll)
	scoped.DELETE("/selection", h.ClearSelection)
	scoped.POST("/selection/delete", h.RequestDeleteSelected)
	scoped.POST("/draft", h.BeginAdd)
	scoped.DELETE("/draft", h.CancelAdd)
	scoped.PUT("/draft/field", h.SetDraftField)
	scoped.POST("/draft/submit", h.SubmitAdd)
	scoped.DELETE("/edit", h.CancelEdit)
	scoped.PUT("/edit/field", h.SetEditField)
	scoped.POST("/edit/submit", h.SubmitEdit)
	scoped.POST("/records/:id/select", h.ToggleRow)
	scoped.POST("/records/:id/edit", h.BeginEdit)
	scoped.POST("/records/:id/delete", h.RequestDelete)
	scoped.POST("/confirmation", h.Confirm)
	scoped.DELETE("/confirmation/:id", h.CancelConfirmation)
	scoped.DELETE("/toast", h.DismissToast)
	scoped.DELETE("/message", h.DismissMessage)
}
