// Package requestid tags every console request with an id that follows it
// into logs and onward to the timetable backend.
package requestid

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header is read from callers and forwarded upstream.
const Header = "X-Request-ID"

const (
	ginKey    = "request_id"
	maxLength = 128
)

type ctxKey struct{}

// Middleware reuses a well-formed inbound id or mints a new one. The id is
// stored on the gin context, echoed in the response and attached to the
// request context so outbound calls can carry it.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(Header))
		if !wellFormed(id) {
			id = uuid.NewString()
		}

		c.Set(ginKey, id)
		c.Writer.Header().Set(Header, id)
		c.Request = c.Request.WithContext(NewContext(c.Request.Context(), id))

		c.Next()
	}
}

// Value returns the id assigned by Middleware.
func Value(c *gin.Context) string {
	return c.GetString(ginKey)
}

// NewContext returns ctx carrying id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the id carried by ctx, if any.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// wellFormed accepts printable ASCII so a caller cannot smuggle header
// breaks into logs or upstream requests.
func wellFormed(id string) bool {
	if id == "" || len(id) > maxLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
