package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/metrics"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "coaching-wallet",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func newAuthRouter(log core.Logger) *gin.Engine {
	router := gin.New()
	users := router.Group("/user/:userId", Auth(AuthConfig{Secret: testSecret, Issuer: "coaching-wallet"}, log))
	users.GET("/balance", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SubjectKey))
	})
	return router
}

func TestAuth(t *testing.T) {
	expired := validClaims("42")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims("42")
	wrongIssuer.Issuer = "someone-else"

	noExpiry := validClaims("42")
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name       string
		header     func(t *testing.T) string
		wantStatus int
		wantCode   int
	}{
		{
			name: "valid token for own user",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("42"))
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			header:     func(*testing.T) string { return "" },
			wantStatus: http.StatusUnauthorized,
			wantCode:   4010,
		},
		{
			name:       "not a bearer token",
			header:     func(*testing.T) string { return "Basic dXNlcjpwYXNz" },
			wantStatus: http.StatusUnauthorized,
			wantCode:   4010,
		},
		{
			name: "wrong secret",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims("42"))
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   4010,
		},
		{
			name: "expired",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   4010,
		},
		{
			name: "no expiry",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   4010,
		},
		{
			name: "wrong issuer",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   4010,
		},
		{
			name: "none algorithm",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims("42"))
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   4010,
		},
		{
			name: "token for another user",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("7"))
			},
			wantStatus: http.StatusForbidden,
			wantCode:   4030,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			router := newAuthRouter(logger.NewNoopLogger())
			req := httptest.NewRequest(http.MethodGet, "/user/42/balance", nil)
			if h := tt.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			w := httptest.NewRecorder()

			// Act
			router.ServeHTTP(w, req)

			// Assert
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "42", w.Body.String())
				return
			}
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestAuth_LogsForbiddenSubject(t *testing.T) {
	// Arrange
	rec := logger.NewRecordingLogger()
	router := newAuthRouter(rec)
	req := httptest.NewRequest(http.MethodGet, "/user/42/balance", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("7")))

	// Act
	router.ServeHTTP(httptest.NewRecorder(), req)

	// Assert
	assert.Equal(t, []string{"Token subject does not own resource"}, rec.Messages(core.LogLevelWarn))
}

func TestRateLimiter(t *testing.T) {
	// Arrange
	rl := NewRateLimiter(0.001, 2, logger.NewNoopLogger())
	defer rl.Stop()

	router := gin.New()
	router.Use(rl.Limit())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// Act & Assert
	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1001").Code)

	limited := do("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Equal(t, 4290, decodeError(t, limited).Code)

	// other clients keep their own budget
	assert.Equal(t, http.StatusNoContent, do("10.0.0.2:1000").Code)
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	// Arrange
	rl := NewRateLimiter(1, 1, logger.NewNoopLogger())
	rl.Stop()
	rl.Stop()

	rl.getVisitor("a")
	rl.getVisitor("b")
	rl.visitors["a"].lastSeen = time.Now().Add(-10 * time.Minute)

	// Act
	rl.evictIdle(time.Now())

	// Assert
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "b")
}

func TestLogger_RecordsRouteMetrics(t *testing.T) {
	// Arrange
	rec := logger.NewRecordingLogger()
	m := metrics.New(nil)

	router := gin.New()
	router.Use(Logger(rec, m))
	router.GET("/user/:userId/balance", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	// Act
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/user/1/balance", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/user/2/balance", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/user/:userId/balance", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, []string{"Request processed"}, rec.Messages(core.LogLevelError))
	assert.Len(t, rec.Messages(core.LogLevelInfo), 3)
}

func TestErrorHandler_RecoversPanic(t *testing.T) {
	// Arrange
	rec := logger.NewRecordingLogger()
	router := gin.New()
	router.Use(ErrorHandler(rec))
	router.GET("/panic", func(*gin.Context) { panic("boom") })
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 5000, decodeError(t, w).Code)
	assert.Equal(t, []string{"Panic recovered in API request"}, rec.Messages(core.LogLevelError))
}

func TestErrorHandler_LogsRouteParams(t *testing.T) {
	// Arrange
	rec := logger.NewRecordingLogger()
	router := gin.New()
	router.Use(ErrorHandler(rec))
	router.POST("/user/:userId/sessions/:sessionId/complete", func(*gin.Context) { panic(errors.New("nil wallet")) })
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/user/42/sessions/s-1/complete", nil))

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "nil wallet", entries[0].Fields["panic"])
	assert.Equal(t, "/user/:userId/sessions/:sessionId/complete", entries[0].Fields["route"])
	assert.Equal(t, "42", entries[0].Fields["user_id"])
	assert.Equal(t, "s-1", entries[0].Fields["session_id"])
	assert.NotEmpty(t, entries[0].Fields["stack"])
}

func TestErrorHandler_PanicAfterWriteKeepsResponse(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler(logger.NewNoopLogger()))
	router.GET("/late", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		panic("late failure")
	})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Informational", statusText(101))
	assert.Equal(t, "Success", statusText(204))
	assert.Equal(t, "Redirect", statusText(302))
	assert.Equal(t, "Client Error", statusText(404))
	assert.Equal(t, "Server Error", statusText(503))
}
