package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lecturepipe/backend/internal/platform/ctxutil"
)

const requestIDHeader = "X-Request-ID"

// AttachRequestContext stamps each request with a trace id (propagated from
// the caller if present) and a fresh request id, and attaches both to the
// request context so downstream logging and handlers can reference them.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(requestIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		td := &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: uuid.NewString(),
		}

		ctx := ctxutil.WithTraceData(c.Request.Context(), td)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(requestIDHeader, td.TraceID)
		c.Next()
	}
}
