package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/timetable-workspace/internal/middleware"
	"github.com/noah-isme/timetable-workspace/internal/service"
	appErrors "github.com/noah-isme/timetable-workspace/pkg/errors"
	"github.com/noah-isme/timetable-workspace/pkg/response"
)

// bindJSON decodes and validates the request body into dest, writing a 400
// on failure. It reports whether the handler should continue.
func bindJSON(c *gin.Context, validate *validator.Validate, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, bindFailure(err, message))
		return false
	}
	if validate != nil {
		if err := validate.Struct(dest); err != nil {
			response.Error(c, bindFailure(err, message))
			return false
		}
	}
	return true
}

func bindFailure(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}

// workspaceFromContext returns the workspace resolved by the session
// middleware or writes a 404.
func workspaceFromContext(c *gin.Context) (*service.Workspace, bool) {
	ws := middleware.WorkspaceFrom(c)
	if ws == nil {
		response.Error(c, appErrors.ErrSessionNotFound)
		return nil, false
	}
	return ws, true
}

// respondView writes the workspace view, attaching err when the operation
// failed so clients can still render the resulting state.
func respondView(c *gin.Context, ws *service.Workspace, err error) {
	if err != nil {
		response.ErrorWithData(c, err, ws.View())
		return
	}
	response.JSON(c, http.StatusOK, ws.View())
}

func defaultValidator(validate *validator.Validate) *validator.Validate {
	if validate == nil {
		return validator.New()
	}
	return validate
}
