package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// stubUseCase implementa ProductUseCaseInterface sobre o ledgerStub em memória
type stubUseCase struct {
	ledger *ledgerStub
}

func (s *stubUseCase) Create(ctx context.Context, product *Product) error { return nil }
func (s *stubUseCase) Get(ctx context.Context, productID string) (*Product, error) {
	return nil, ErrProductNotFound
}
func (s *stubUseCase) List(ctx context.Context, filter ProductFilter) (*ListResult, error) {
	return &ListResult{}, nil
}
func (s *stubUseCase) Update(ctx context.Context, productID string, fields map[string]interface{}) (*Product, error) {
	return nil, ErrProductNotFound
}
func (s *stubUseCase) Delete(ctx context.Context, productID string) error { return nil }
func (s *stubUseCase) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	return nil, nil
}
func (s *stubUseCase) Reserve(ctx context.Context, productID string, quantity int) (int, error) {
	return s.ledger.ReserveStock(ctx, productID, quantity)
}
func (s *stubUseCase) Restore(ctx context.Context, productID string, quantity int) (int, error) {
	return s.ledger.RestoreStock(ctx, productID, quantity)
}

func newLedgerRouter(ledger *ledgerStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewProductHandler(&stubUseCase{ledger: ledger},
		tracenoop.NewTracerProvider().Tracer("test"))

	r := gin.New()
	r.Use(CorrelationMiddleware())
	r.POST("/api/v1/products/:product_id/reserve", handler.ReserveStock)
	r.POST("/api/v1/products/:product_id/restore", handler.RestoreStock)
	return r
}

func TestReserveEndpoint_InsufficientStock(t *testing.T) {
	// Scenario: reserve 10 of a product with stock 5
	ledger := newLedgerStub(map[string]int{"p1": 5})
	r := newLedgerRouter(ledger)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/p1/reserve?quantity=10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "Insufficient stock", body["message"])
	assert.NotEmpty(t, body["correlation_id"])

	// stock remains 5
	assert.Equal(t, 5, ledger.stock["p1"])
}

func TestReserveEndpoint_Success(t *testing.T) {
	ledger := newLedgerStub(map[string]int{"p1": 10})
	r := newLedgerRouter(ledger)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/p1/reserve?quantity=3", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(7), body["stock"])
}

func TestReserveEndpoint_UnknownProduct(t *testing.T) {
	r := newLedgerRouter(newLedgerStub(map[string]int{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/ghost/reserve?quantity=1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReserveEndpoint_InvalidQuantity(t *testing.T) {
	r := newLedgerRouter(newLedgerStub(map[string]int{"p1": 5}))

	for _, quantity := range []string{"0", "-2", "abc", ""} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products/p1/reserve?quantity="+quantity, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "quantity=%q", quantity)
	}
}

func TestRestoreEndpoint_IncrementsStock(t *testing.T) {
	ledger := newLedgerStub(map[string]int{"p1": 2})
	r := newLedgerRouter(ledger)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/p1/restore?quantity=4", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(6), body["stock"])
}
