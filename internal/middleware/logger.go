package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger 在每個請求結束後寫一行日誌，等級依狀態碼決定
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()

		var e *zerolog.Event
		switch {
		case status >= 500:
			e = log.Error()
		case status >= 400:
			e = log.Warn()
		default:
			e = log.Info()
		}

		if requestID := GetRequestID(c); requestID != "" {
			e = e.Str("request_id", requestID)
		}
		if len(c.Errors) > 0 {
			e = e.Str("errors", c.Errors.String())
		}

		e.Dur("latency", time.Since(start)).
			Int("status", status).
			Str("method", c.Request.Method).
			Str("uri", path).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("API")
	}
}
