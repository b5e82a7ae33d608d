package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	domainerr "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SubjectKey is the gin context key holding the authenticated token subject
const SubjectKey = "auth_subject"

// AuthConfig configures bearer token checks
type AuthConfig struct {
	Secret string
	Issuer string
}

// Auth validates an HMAC-signed bearer token and requires its subject to equal
// the :userId path parameter
func Auth(cfg AuthConfig, logger coreport.Logger) gin.HandlerFunc {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(options...)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			abortWithError(c, http.StatusUnauthorized, domainerr.ErrUnauthorized, "Authorization required")
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Rejected bearer token", map[string]any{
				"path":    c.Request.URL.Path,
				"ip":      c.ClientIP(),
				"expired": errors.Is(err, jwt.ErrTokenExpired),
				"error":   errString(err),
			})
			abortWithError(c, http.StatusUnauthorized, domainerr.ErrUnauthorized, "Invalid token")
			return
		}

		if claims.Subject == "" {
			abortWithError(c, http.StatusUnauthorized, domainerr.ErrUnauthorized, "Token has no subject")
			return
		}

		if userID := c.Param("userId"); userID != "" && userID != claims.Subject {
			logger.Warn("Token subject does not own resource", map[string]any{
				"subject": claims.Subject,
				"userId":  userID,
				"path":    c.Request.URL.Path,
			})
			abortWithError(c, http.StatusForbidden, domainerr.ErrForbidden, "Token does not grant access to this user")
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Next()
	}
}

func abortWithError(c *gin.Context, status int, err error, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: message,
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
