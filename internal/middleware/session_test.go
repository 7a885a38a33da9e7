package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-workspace/internal/service"
	appErrors "github.com/noah-isme/timetable-workspace/pkg/errors"
	"github.com/noah-isme/timetable-workspace/pkg/logger"
)

type mapLookup map[string]*service.Workspace

func (m mapLookup) Get(id string) (*service.Workspace, error) {
	ws, ok := m[id]
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	return ws, nil
}

func newSessionRouter(lookup sessionLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := func(c *gin.Context) {
		ws := WorkspaceFrom(c)
		c.String(http.StatusOK, ws.ID()+"|"+service.SessionIDFromContext(c.Request.Context()))
	}
	router.GET("/workspaces/:"+SessionParam+"/view", Workspace(lookup), handler)
	router.GET("/current", Workspace(lookup), handler)
	return router
}

func TestWorkspaceMiddlewareResolvesSession(t *testing.T) {
	ws := service.NewWorkspace(nil, nil, service.WorkspaceOptions{ID: "s-1"})
	router := newSessionRouter(mapLookup{"s-1": ws})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/workspaces/s-1/view", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "s-1|s-1", recorder.Body.String())

	recorder = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/current", nil)
	req.Header.Set(logger.SessionHeader, "s-1")
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestWorkspaceMiddlewareRejects(t *testing.T) {
	router := newSessionRouter(mapLookup{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/workspaces/missing/view", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "SESSION_NOT_FOUND")

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/current", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSessionContextTagsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SessionContext())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, service.SessionIDFromContext(c.Request.Context()))
	})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(logger.SessionHeader, "abc")
	router.ServeHTTP(recorder, req)
	assert.Equal(t, "abc", recorder.Body.String())
}
