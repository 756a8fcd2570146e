package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OrderUseCaseInterface define a interface para o use case
type OrderUseCaseInterface interface {
	Checkout(ctx context.Context, userID, token string) (*Order, error)
	ListOrders(ctx context.Context, userID string) ([]Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	AdminListOrders(ctx context.Context, page, size int) (int, []Order, error)
	AdminSalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummary, error)
}

// OrderHandler contém os handlers HTTP
type OrderHandler struct {
	useCase  OrderUseCaseInterface
	products ProductInfoClient
	tracer   trace.Tracer
}

// NewOrderHandler cria uma nova instância de OrderHandler
func NewOrderHandler(useCase OrderUseCaseInterface, products ProductInfoClient, tracer trace.Tracer) *OrderHandler {
	return &OrderHandler{
		useCase:  useCase,
		products: products,
		tracer:   tracer,
	}
}

// serializeOrder resolve nome/imagem de cada item para a resposta
func (h *OrderHandler) serializeOrder(ctx context.Context, order *Order, token string) gin.H {
	items := []gin.H{}
	for _, item := range order.Items {
		info := h.products.FetchProduct(ctx, item.ProductID, token)
		items = append(items, gin.H{
			"product_id":    item.ProductID,
			"product_name":  info.Name,
			"product_image": info.Image,
			"quantity":      item.Quantity,
			"price":         item.Price,
		})
	}
	return gin.H{
		"id":           order.ID,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
		"status":       order.Status,
		"created_at":   order.CreatedAt,
		"items":        items,
	}
}

// Checkout cria um pedido a partir do snapshot atual do carrinho
func (h *OrderHandler) Checkout(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "checkout_order")
	defer span.End()

	userID := c.GetString(contextKeyUserID)
	token := c.GetString(contextKeyRawToken)
	span.SetAttributes(attribute.String("user_id", userID))

	order, err := h.useCase.Checkout(ctx, userID, token)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}

	span.SetAttributes(attribute.String("order_id", order.ID))
	c.JSON(http.StatusOK, h.serializeOrder(ctx, order, token))
}

// ListOrders lista os pedidos do usuário autenticado
func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_orders")
	defer span.End()

	orders, err := h.useCase.ListOrders(ctx, c.GetString(contextKeyUserID))
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}

	token := c.GetString(contextKeyRawToken)
	out := []gin.H{}
	for i := range orders {
		out = append(out, h.serializeOrder(ctx, &orders[i], token))
	}
	c.JSON(http.StatusOK, out)
}

// GetOrder busca um pedido pelo ID
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_order")
	defer span.End()

	order, err := h.useCase.GetOrder(ctx, c.Param("order_id"))
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, h.serializeOrder(ctx, order, c.GetString(contextKeyRawToken)))
}

// AdminListOrders lista pedidos de todos os usuários (somente admin)
func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "admin_list_orders")
	defer span.End()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	total, orders, err := h.useCase.AdminListOrders(ctx, page, size)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"page":   page,
		"size":   size,
		"orders": orders,
	})
}

// AdminSalesSummary agrega as vendas pagas no intervalo (somente admin)
func (h *OrderHandler) AdminSalesSummary(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "admin_sales_summary")
	defer span.End()

	var from, to *time.Time
	if v, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		from = &v
	}
	if v, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		to = &v
	}

	summary, err := h.useCase.AdminSalesSummary(ctx, from, to)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// HealthCheck verifica a saúde do serviço
func (h *OrderHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "orders-service",
	})
}
