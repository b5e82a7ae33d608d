package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	domainerr "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// ErrorHandler turns a panic in any later handler into a 500 response.
// A panic after the response was written only aborts the chain.
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			fields := map[string]any{
				"panic":     fmt.Sprint(recovered),
				"route":     routeLabel(c),
				"method":    c.Request.Method,
				"client_ip": c.ClientIP(),
				"stack":     string(debug.Stack()),
			}
			if userID := c.Param("userId"); userID != "" {
				fields["user_id"] = userID
			}
			if sessionID := c.Param("sessionId"); sessionID != "" {
				fields["session_id"] = sessionID
			}
			logger.Error("Panic recovered in API request", fields)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Code:    domainerr.CodeInternalServer,
				Message: "Internal server error",
			})
		}()

		c.Next()
	}
}
