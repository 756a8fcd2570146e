package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const handlerSecret = "test-secret"

type stubAdminUseCase struct {
	approved map[string]bool
}

func (s *stubAdminUseCase) SalesSummary(ctx context.Context, actor, token, from, to string) (json.RawMessage, error) {
	return json.RawMessage(`{"orders":1,"revenue":10}`), nil
}

func (s *stubAdminUseCase) LowStock(ctx context.Context, actor, token string, threshold int) (json.RawMessage, error) {
	return json.RawMessage(`{"threshold":5,"products":[]}`), nil
}

func (s *stubAdminUseCase) ListOrders(ctx context.Context, actor, token string, page, size int) (json.RawMessage, error) {
	return json.RawMessage(`{"total":0,"orders":[]}`), nil
}

func (s *stubAdminUseCase) Approve(ctx context.Context, actor, token, entity, entityID string, approve bool) error {
	if entity != "product" {
		return ErrUnknownEntity
	}
	if s.approved == nil {
		s.approved = map[string]bool{}
	}
	s.approved[entityID] = approve
	return nil
}

func (s *stubAdminUseCase) AuditTrail(ctx context.Context, limit int) ([]AuditLog, error) {
	return nil, nil
}

func newAdminRouter(uc AdminUseCaseInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAdminHandler(uc, tracenoop.NewTracerProvider().Tracer("test"))

	r := gin.New()
	r.Use(CorrelationMiddleware())
	api := r.Group("/api/v1/admin")
	api.Use(AuthRequired(handlerSecret), AdminOnly())
	{
		api.GET("/sales-summary", handler.SalesSummary)
		api.POST("/approve", handler.Approve)
	}
	return r
}

func mintTestToken(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(handlerSecret))
	require.NoError(t, err)
	return token
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	r := newAdminRouter(&stubAdminUseCase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/sales-summary", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, "customer"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRoutes_RejectMissingToken(t *testing.T) {
	r := newAdminRouter(&stubAdminUseCase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/sales-summary", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApproveEndpoint(t *testing.T) {
	uc := &stubAdminUseCase{}
	r := newAdminRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/approve",
		strings.NewReader(`{"entity":"product","entity_id":"p1","approve":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, "admin"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, uc.approved["p1"])
	assert.Contains(t, w.Body.String(), `"status":"success"`)
}

func TestApproveEndpoint_UnknownEntity(t *testing.T) {
	r := newAdminRouter(&stubAdminUseCase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/approve",
		strings.NewReader(`{"entity":"warehouse","entity_id":"w1","approve":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, "admin"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
