package handler

import (
	"net/http"
	"strconv"

	domainerr "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/validation"
	"github.com/gin-gonic/gin"
)

// HTTPStatus maps a domain error code to its HTTP status
func HTTPStatus(code int) int {
	switch code {
	case domainerr.CodeInsufficientBalance:
		return http.StatusPaymentRequired
	case domainerr.CodeInvalidParameter:
		return http.StatusBadRequest
	case domainerr.CodeSessionNotFound, domainerr.CodeWalletNotFound:
		return http.StatusNotFound
	case domainerr.CodeInvalidState, domainerr.CodeConcurrentUpdate:
		return http.StatusConflict
	case domainerr.CodeUnauthorized:
		return http.StatusUnauthorized
	case domainerr.CodeForbidden:
		return http.StatusForbidden
	case domainerr.CodeRateLimited:
		return http.StatusTooManyRequests
	case domainerr.CodeUpstreamService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseUserID extracts the :userId path parameter and writes a 400 when it is malformed
func parseUserID(c *gin.Context) (uint64, bool) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeInvalidParameter,
			Message: "Invalid user ID format",
		})
		return 0, false
	}
	return userID, true
}

// bindJSON decodes the body into req and writes a 400 when binding fails
func bindJSON(c *gin.Context, logger coreport.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Debug("Invalid request body", map[string]any{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeInvalidParameter,
			Message: validation.Message(err),
		})
		return false
	}
	return true
}

// respondError writes the error body for a failed use case call.
// Server-side failures are logged and their details withheld from the client.
func respondError(c *gin.Context, logger coreport.Logger, message string, err error) {
	code := domainerr.ErrorCode(err)
	status := HTTPStatus(code)

	fields := domainerr.LogFields(err)
	fields["path"] = c.Request.URL.Path
	fields["status"] = status

	if status >= http.StatusInternalServerError {
		logger.Error(message, fields)
		clientMessage := "Internal server error"
		if code == domainerr.CodeUpstreamService {
			clientMessage = "Upstream service unavailable"
		}
		c.JSON(status, dto.ErrorResponse{Code: code, Message: clientMessage})
		return
	}

	logger.Debug(message, fields)
	c.JSON(status, dto.ErrorResponse{Code: code, Message: err.Error()})
}
