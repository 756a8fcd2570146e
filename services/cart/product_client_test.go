package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryReserve_SuccessOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/p1/reserve", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("quantity"))
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "success", "stock": 7})
	}))
	defer srv.Close()

	client := NewProductClient(srv.URL)
	assert.True(t, client.TryReserve(context.Background(), "p1", 3, "token-123"))
}

func TestTryReserve_FalseOnInsufficientStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"status": "fail", "message": "Insufficient stock"})
	}))
	defer srv.Close()

	client := NewProductClient(srv.URL)
	assert.False(t, client.TryReserve(context.Background(), "p1", 10, "token-123"))
}

func TestTryReserve_FalseOnTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force connection refused

	client := NewProductClient(srv.URL)
	assert.False(t, client.TryReserve(context.Background(), "p1", 1, "token-123"))
}

func TestRestore_ReturnsTypedErrorOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewProductClient(srv.URL)
	err := client.Restore(context.Background(), "p1", 2, "token-123")

	assert.ErrorIs(t, err, ErrUpstream)
}

func TestRestore_NoErrorOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/p1/restore", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "success", "stock": 9})
	}))
	defer srv.Close()

	client := NewProductClient(srv.URL)
	assert.NoError(t, client.Restore(context.Background(), "p1", 2, "token-123"))
}

func TestFetchProduct_MapsStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"not found", http.StatusNotFound, ErrProductNotFound},
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"upstream error", http.StatusInternalServerError, ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer srv.Close()

			client := NewProductClient(srv.URL)
			_, err := client.FetchProduct(context.Background(), "p1", "token-123")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFetchProduct_DecodesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "p1", "name": "Keyboard", "price": 250.0, "image": "/img/p1.png", "stock": 12,
		})
	}))
	defer srv.Close()

	client := NewProductClient(srv.URL)
	product, err := client.FetchProduct(context.Background(), "p1", "token-123")

	require.NoError(t, err)
	assert.Equal(t, "Keyboard", product.Name)
	assert.Equal(t, 250.0, product.Price)
	assert.Equal(t, 12, product.Stock)
}
