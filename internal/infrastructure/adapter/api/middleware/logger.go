package middleware

import (
	"strconv"
	"time"

	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/gin-gonic/gin"
)

// RequestRecorder receives per-request metrics
type RequestRecorder interface {
	RecordHTTPRequest(method, path, status string, seconds float64)
}

// Logger middleware logs incoming requests and their responses.
// recorder may be nil.
func Logger(logger coreport.Logger, recorder RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		ip := c.ClientIP()

		// Process request
		c.Next()

		// Calculate request time
		latency := time.Since(start)
		statusCode := c.Writer.Status()

		if recorder != nil {
			recorder.RecordHTTPRequest(method, routeLabel(c), strconv.Itoa(statusCode), latency.Seconds())
		}

		fields := map[string]any{
			"method":      method,
			"path":        path,
			"status":      statusCode,
			"latency_ms":  latency.Milliseconds(),
			"ip":          ip,
			"request_id":  c.GetHeader("X-Request-ID"),
			"user_agent":  c.Request.UserAgent(),
			"errors":      c.Errors.Errors(),
			"status_text": statusText(statusCode),
		}

		if statusCode >= 500 {
			logger.Error("Request processed", fields)
			return
		}
		logger.Info("Request processed", fields)
	}
}

// routeLabel is the matched route template, which keeps metric labels bounded
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

// statusText returns the text for the HTTP status code
func statusText(code int) string {
	switch {
	case code >= 100 && code < 200:
		return "Informational"
	case code >= 200 && code < 300:
		return "Success"
	case code >= 300 && code < 400:
		return "Redirect"
	case code >= 400 && code < 500:
		return "Client Error"
	default:
		return "Server Error"
	}
}
