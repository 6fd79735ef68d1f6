package tracing

import (
	"github.com/GriffinCanCode/agentshell/internal/shared/id"
	"github.com/gin-gonic/gin"
)

// HTTPMiddleware gives every request a span. An incoming X-Request-ID is
// reused; otherwise one is minted and echoed back on the response.
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if incoming := c.GetHeader(HeaderRequestID); incoming != "" {
			ctx = WithRequestID(ctx, id.RequestID(incoming))
		}

		name := c.FullPath()
		if name == "" {
			name = c.Request.URL.Path
		}
		span, ctx := tracer.StartSpan(ctx, c.Request.Method+" "+name)
		if command := c.Param("command"); command != "" {
			span.SetTag("command", command)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set("request_id", span.RequestID.String())
		c.Header(HeaderRequestID, span.RequestID.String())

		c.Next()

		span.SetStatus(c.Writer.Status())
		if len(c.Errors) > 0 {
			span.SetError(c.Errors.Last())
		}
		tracer.Finish(span)
	}
}
