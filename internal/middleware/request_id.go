package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "requestID"
)

// RequestID 沿用請求帶入的 X-Request-ID，沒有時產生一個新的 UUID，
// 並寫回回應標頭
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID 從上下文取出請求 ID，不存在時回傳空字串
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
