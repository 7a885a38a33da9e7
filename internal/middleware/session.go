package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-workspace/internal/service"
	appErrors "github.com/noah-isme/timetable-workspace/pkg/errors"
	"github.com/noah-isme/timetable-workspace/pkg/logger"
	"github.com/noah-isme/timetable-workspace/pkg/response"
)

const (
	// SessionParam is the route parameter naming a workspace session.
	SessionParam = "sessionID"

	workspaceContextKey = "workspace"
)

type sessionLookup interface {
	Get(id string) (*service.Workspace, error)
}

// SessionContext tags the request context with the workspace session header
// so services can attribute audit entries to it.
func SessionContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader(logger.SessionHeader)); id != "" {
			c.Request = c.Request.WithContext(service.ContextWithSessionID(c.Request.Context(), id))
		}
		c.Next()
	}
}

// Workspace resolves the session named by the route parameter, falling back
// to the session header, and aborts with 404 when it does not exist.
func Workspace(sessions sessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Param(SessionParam))
		if id == "" {
			id = strings.TrimSpace(c.GetHeader(logger.SessionHeader))
		}
		if id == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "workspace session is required"))
			c.Abort()
			return
		}
		ws, err := sessions.Get(id)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(workspaceContextKey, ws)
		c.Request = c.Request.WithContext(service.ContextWithSessionID(c.Request.Context(), id))
		c.Next()
	}
}

// WorkspaceFrom returns the workspace resolved by Workspace.
func WorkspaceFrom(c *gin.Context) *service.Workspace {
	value, exists := c.Get(workspaceContextKey)
	if !exists {
		return nil
	}
	ws, _ := value.(*service.Workspace)
	return ws
}
