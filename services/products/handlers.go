package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ProductUseCaseInterface define a interface para o use case
type ProductUseCaseInterface interface {
	Create(ctx context.Context, product *Product) error
	Get(ctx context.Context, productID string) (*Product, error)
	List(ctx context.Context, filter ProductFilter) (*ListResult, error)
	Update(ctx context.Context, productID string, fields map[string]interface{}) (*Product, error)
	Delete(ctx context.Context, productID string) error
	LowStock(ctx context.Context, threshold int) ([]Product, error)
	Reserve(ctx context.Context, productID string, quantity int) (int, error)
	Restore(ctx context.Context, productID string, quantity int) (int, error)
}

// ProductHandler contém os handlers HTTP
type ProductHandler struct {
	useCase ProductUseCaseInterface
	tracer  trace.Tracer
}

// NewProductHandler cria uma nova instância de ProductHandler
func NewProductHandler(useCase ProductUseCaseInterface, tracer trace.Tracer) *ProductHandler {
	return &ProductHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// CreateProductRequest representa a requisição de criação de produto
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"required,gte=0"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// UpdateProductRequest representa a requisição de update parcial
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
	Approved    *bool    `json:"approved"`
}

// CreateProduct cria um produto (somente admin)
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_product")
	defer span.End()

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := NewProduct(uuid.New().String(), req.Name, req.Description, req.Price, req.Stock, req.Category)
	product.Image = req.Image

	if err := h.useCase.Create(ctx, product); err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProduct busca um produto pelo ID
func (h *ProductHandler) GetProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_product")
	defer span.End()

	product, err := h.useCase.Get(ctx, c.Param("product_id"))
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProducts lista o catálogo com filtros e paginação
func (h *ProductHandler) ListProducts(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_products")
	defer span.End()

	filter := ProductFilter{
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}
	if v, err := strconv.ParseFloat(c.Query("price_min"), 64); err == nil {
		filter.PriceMin = &v
	}
	if v, err := strconv.ParseFloat(c.Query("price_max"), 64); err == nil {
		filter.PriceMax = &v
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Size, _ = strconv.Atoi(c.DefaultQuery("size", "10"))
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size < 1 || filter.Size > 100 {
		filter.Size = 10
	}

	result, err := h.useCase.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateProduct aplica um update parcial (somente admin)
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "update_product")
	defer span.End()

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}
	if req.Approved != nil {
		fields["approved"] = *req.Approved
	}

	product, err := h.useCase.Update(ctx, c.Param("product_id"), fields)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct remove um produto (somente admin)
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "delete_product")
	defer span.End()

	if err := h.useCase.Delete(ctx, c.Param("product_id")); err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// LowStock lista produtos com estoque baixo (somente admin)
func (h *ProductHandler) LowStock(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "low_stock")
	defer span.End()

	threshold, err := strconv.Atoi(c.DefaultQuery("threshold", "5"))
	if err != nil || threshold < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a non-negative integer"})
		return
	}

	products, err := h.useCase.LowStock(ctx, threshold)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"threshold": threshold, "products": products})
}

// quantidade dos endpoints do ledger: query param obrigatório, >= 1
func stockQuantity(c *gin.Context) (int, bool) {
	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil || quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":         "fail",
			"message":        "quantity must be a positive integer",
			"correlation_id": CorrelationID(c),
		})
		return 0, false
	}
	return quantity, true
}

// ReserveStock decrementa o estoque condicionalmente (ledger)
func (h *ProductHandler) ReserveStock(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "reserve_stock")
	defer span.End()

	quantity, ok := stockQuantity(c)
	if !ok {
		return
	}
	span.SetAttributes(
		attribute.String("product_id", c.Param("product_id")),
		attribute.Int("quantity", quantity),
	)

	newStock, err := h.useCase.Reserve(ctx, c.Param("product_id"), quantity)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "stock": newStock})
}

// RestoreStock devolve estoque ao ledger
func (h *ProductHandler) RestoreStock(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "restore_stock")
	defer span.End()

	quantity, ok := stockQuantity(c)
	if !ok {
		return
	}
	span.SetAttributes(
		attribute.String("product_id", c.Param("product_id")),
		attribute.Int("quantity", quantity),
	)

	newStock, err := h.useCase.Restore(ctx, c.Param("product_id"), quantity)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "stock": newStock})
}

// HealthCheck verifica a saúde do serviço
func (h *ProductHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "products-service",
	})
}
