package server

import (
	"time"

	"neighborconnect/utils"

	"github.com/gin-gonic/gin"
)

// RequestIDHeader carries the correlation id in and out of the service
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware reuses the caller's request id or issues a new one
func RequestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if !utils.IsValidID(id) {
		id = utils.GenerateID()
	}
	c.Set(utils.RequestIDKey, id)
	c.Header(RequestIDHeader, id)

	c.Next()
}

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
		"request_id": c.GetString(utils.RequestIDKey),
	})
}
