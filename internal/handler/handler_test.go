package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ec-checkout/internal/config"
	"ec-checkout/internal/domain/model"
	"ec-checkout/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testCfg = config.Config{JWTSecret: "handler-test-secret"}

// =====================
// mocks
// =====================

type CartServiceMock struct {
	mock.Mock
}

func (m *CartServiceMock) GetCart(ctx context.Context, username string) ([]model.CartItem, error) {
	args := m.Called(ctx, username)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartServiceMock) AddItem(ctx context.Context, username string, productID int64, quantity int64) (usecase.AddResult, error) {
	args := m.Called(ctx, username, productID, quantity)
	return args.Get(0).(usecase.AddResult), args.Error(1)
}

func (m *CartServiceMock) UpdateQuantity(ctx context.Context, username string, productID int64, delta int64) (usecase.UpdateResult, error) {
	args := m.Called(ctx, username, productID, delta)
	return args.Get(0).(usecase.UpdateResult), args.Error(1)
}

func (m *CartServiceMock) RemoveItem(ctx context.Context, username string, productID int64) (usecase.RemoveResult, error) {
	args := m.Called(ctx, username, productID)
	return args.Get(0).(usecase.RemoveResult), args.Error(1)
}

func (m *CartServiceMock) Clear(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

type OrderServiceMock struct {
	mock.Mock
}

func (m *OrderServiceMock) CreateOrder(ctx context.Context, username string, in usecase.CreateOrderInput) (usecase.CheckoutResult, error) {
	args := m.Called(ctx, username, in)
	return args.Get(0).(usecase.CheckoutResult), args.Error(1)
}

func (m *OrderServiceMock) GetOrderForUser(ctx context.Context, username string, rawOrderID string) (usecase.OrderDetail, error) {
	args := m.Called(ctx, username, rawOrderID)
	return args.Get(0).(usecase.OrderDetail), args.Error(1)
}

type PriceServiceMock struct {
	mock.Mock
}

func (m *PriceServiceMock) GetPrice(ctx context.Context, productID int64) (usecase.PriceResult, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(usecase.PriceResult), args.Error(1)
}

// =====================
// helper
// =====================

func bearerFor(t *testing.T, username string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testCfg.JWTSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

func doRequest(t *testing.T, e *echo.Echo, method, path, body, auth string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
