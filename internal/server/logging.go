package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"gymdesk/internal/auth"
	"gymdesk/internal/logger"
)

// RequestLoggingMiddleware emits one structured line per request. Requests
// that passed authentication also carry the actor's tenant and role, so
// per-tenant traffic can be traced from the access log alone.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if actor, ok := auth.GetActor(c); ok {
			fields = append(fields, "tenant_id", actor.TenantID, "role", actor.Role)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		if status >= 500 {
			logger.Error("HTTP request", fields...)
			return
		}
		logger.Info("HTTP request", fields...)
	}
}
