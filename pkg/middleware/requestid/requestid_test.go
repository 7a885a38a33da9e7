package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, Value(c)+"|"+FromContext(c.Request.Context()))
	})
	return r
}

func serve(r *gin.Engine, inbound string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(Header, inbound)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareMintsID(t *testing.T) {
	rec := serve(newRouter(), "")

	ginID, ctxID, ok := strings.Cut(rec.Body.String(), "|")
	require.True(t, ok)
	_, err := uuid.Parse(ginID)
	assert.NoError(t, err)
	assert.Equal(t, ginID, ctxID)
	assert.Equal(t, ginID, rec.Header().Get(Header))
}

func TestMiddlewareReusesWellFormedID(t *testing.T) {
	rec := serve(newRouter(), "console-42")
	assert.Equal(t, "console-42|console-42", rec.Body.String())
}

func TestMiddlewareReplacesMalformedID(t *testing.T) {
	r := newRouter()
	for _, inbound := range []string{strings.Repeat("x", 200), "two words"} {
		rec := serve(r, inbound)
		assert.NotContains(t, rec.Body.String(), inbound)
		assert.NotEmpty(t, rec.Header().Get(Header))
	}
}

func TestFromContextWithoutID(t *testing.T) {
	assert.Empty(t, FromContext(context.Background()))
	assert.Equal(t, "abc", FromContext(NewContext(context.Background(), "abc")))
}
