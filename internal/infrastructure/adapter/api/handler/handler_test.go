package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/validation"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/logger"
	mockusecase "github.com/amirhossein-jamali/coaching-wallet/mocks/port/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterValidators(); err != nil {
		panic(err)
	}
}

type okHealth struct{}

func (okHealth) Ping(_ context.Context) error { return nil }

type apiFixture struct {
	router   *gin.Engine
	wallets  *mockusecase.MockWalletUseCase
	sessions *mockusecase.MockSessionUseCase
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	wallets := mockusecase.NewMockWalletUseCase(t)
	sessions := mockusecase.NewMockSessionUseCase(t)
	log := logger.NewNoopLogger()

	router := gin.New()
	routes.SetupRoutes(router,
		handler.NewWalletHandler(wallets, log),
		handler.NewSessionHandler(sessions, log),
		okHealth{},
		routes.Options{},
	)
	return &apiFixture{router: router, wallets: wallets, sessions: sessions}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return f.doWithHeader(t, method, path, body, "", "")
}

func (f *apiFixture) doWithHeader(t *testing.T, method, path string, body any, header, value string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	return decode[dto.ErrorResponse](t, w)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
