package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// AdminUseCaseInterface define a interface para o use case
type AdminUseCaseInterface interface {
	SalesSummary(ctx context.Context, actor, token, from, to string) (json.RawMessage, error)
	LowStock(ctx context.Context, actor, token string, threshold int) (json.RawMessage, error)
	ListOrders(ctx context.Context, actor, token string, page, size int) (json.RawMessage, error)
	Approve(ctx context.Context, actor, token, entity, entityID string, approve bool) error
	AuditTrail(ctx context.Context, limit int) ([]AuditLog, error)
}

// AdminHandler contém os handlers HTTP
type AdminHandler struct {
	useCase AdminUseCaseInterface
	tracer  trace.Tracer
}

// NewAdminHandler cria uma nova instância de AdminHandler
func NewAdminHandler(useCase AdminUseCaseInterface, tracer trace.Tracer) *AdminHandler {
	return &AdminHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// ApproveRequest representa a requisição de aprovação
type ApproveRequest struct {
	Entity   string `json:"entity" binding:"required"`
	EntityID string `json:"entity_id" binding:"required"`
	Approve  *bool  `json:"approve" binding:"required"`
}

func actorAndToken(c *gin.Context) (string, string) {
	return c.GetString(contextKeyUserID), c.GetString(contextKeyRawToken)
}

// SalesSummary proxy do agregado de vendas
func (h *AdminHandler) SalesSummary(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "sales_summary")
	defer span.End()

	actor, token := actorAndToken(c)
	body, err := h.useCase.SalesSummary(ctx, actor, token, c.Query("from"), c.Query("to"))
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// LowStock proxy dos produtos com estoque baixo
func (h *AdminHandler) LowStock(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "low_stock")
	defer span.End()

	threshold, err := strconv.Atoi(c.DefaultQuery("threshold", "5"))
	if err != nil || threshold < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a non-negative integer"})
		return
	}

	actor, token := actorAndToken(c)
	body, err := h.useCase.LowStock(ctx, actor, token, threshold)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// ListOrders proxy da listagem paginada de pedidos
func (h *AdminHandler) ListOrders(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_orders")
	defer span.End()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	actor, token := actorAndToken(c)
	body, err := h.useCase.ListOrders(ctx, actor, token, page, size)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// Approve aplica uma aprovação e grava a auditoria
func (h *AdminHandler) Approve(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "approve")
	defer span.End()

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, token := actorAndToken(c)
	if err := h.useCase.Approve(ctx, actor, token, req.Entity, req.EntityID, *req.Approve); err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"entity":    req.Entity,
		"entity_id": req.EntityID,
		"approved":  *req.Approve,
	})
}

// AuditTrail lista os registros de auditoria mais recentes
func (h *AdminHandler) AuditTrail(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "audit_trail")
	defer span.End()

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 50
	}

	entries, err := h.useCase.AuditTrail(ctx, limit)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": entries})
}

// HealthCheck verifica a saúde do serviço
func (h *AdminHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "admin-service",
	})
}
