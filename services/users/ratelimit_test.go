package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// fakeCounter simula a janela fixa em memória
type fakeCounter struct {
	counts map[string]int64
	err    error
}

func (f *fakeCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[key]++
	return f.counts[key], nil
}

func newLimitedRouter(store counterStore, limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CorrelationMiddleware())
	r.POST("/api/v1/auth/login", RateLimit(store, limit, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})
	return r
}

func doLogin(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BlocksAboveLimit(t *testing.T) {
	r := newLimitedRouter(&fakeCounter{}, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doLogin(r).Code)
	}

	w := doLogin(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "window_seconds")
	assert.Contains(t, w.Body.String(), "correlation_id")
}

func TestRateLimit_FailOpenWhenCounterUnavailable(t *testing.T) {
	r := newLimitedRouter(&fakeCounter{err: errors.New("redis down")}, 1)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doLogin(r).Code)
	}
}
