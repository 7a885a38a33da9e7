package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type observedRequest struct {
	method, route string
	status        int
}

type recordingObserver struct{ seen []observedRequest }

func (r *recordingObserver) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	r.seen = append(r.seen, observedRequest{method: method, route: path, status: status})
}

func TestMetricsUsesRouteTemplates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obs := &recordingObserver{}
	r := gin.New()
	r.Use(Metrics(obs, "/metrics"))
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/workspaces/:workspaceID/view", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/metrics", "/api/v1/workspaces/w-1/view", "/api/v1/workspaces/w-2/view", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []observedRequest{
		{method: http.MethodGet, route: "/api/v1/workspaces/:workspaceID/view", status: http.StatusOK},
		{method: http.MethodGet, route: "/api/v1/workspaces/:workspaceID/view", status: http.StatusOK},
		{method: http.MethodGet, route: unmatchedRoute, status: http.StatusNotFound},
	}, obs.seen)
}
