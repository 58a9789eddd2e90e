package middleware

import (
	"code-atlas/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-Id"

// InjectTrace assigns every request a trace id, reusing a well-formed id sent by the client.
func InjectTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := c.GetHeader(traceHeader)
		if _, err := uuid.Parse(traceId); err != nil {
			traceId = utils.GenerateTraceId()
		}

		c.Set(utils.TraceIdKey.String(), traceId)
		c.Header(traceHeader, traceId)
		c.Next()
	}
}
