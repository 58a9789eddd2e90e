package middleware

import (
	"code-atlas/internal/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// LogRequest logs every incoming request and its final status with the trace id of the request.
func LogRequest() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		traceId, _ := ctx.Value(utils.TraceIdKey.String()).(string)
		entry := log.WithFields(log.Fields{
			"traceId": traceId,
			"service": utils.ExtractServiceName(),
		})
		utils.LogEntry(entry, "info", "Request received: "+ctx.Request.Method+" "+ctx.Request.URL.Path)

		ctx.Next()

		utils.LogEntry(entry.WithField("status", ctx.Writer.Status()), "debug", "Request completed")
	}
}
