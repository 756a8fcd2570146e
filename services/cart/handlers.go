package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// CartUseCaseInterface define a interface para o use case
type CartUseCaseInterface interface {
	GetCart(ctx context.Context, userID, token string) (*Cart, error)
	AddToCart(ctx context.Context, userID, productID string, quantity int, token string) (*CartItem, error)
	UpdateQuantity(ctx context.Context, itemID string, newQuantity int, userID, token string) (*CartItem, error)
	DeleteItem(ctx context.Context, itemID, userID, token string) error
	ClearCart(ctx context.Context, userID, token string) error
}

// CartHandler contém os handlers HTTP
type CartHandler struct {
	useCase  CartUseCaseInterface
	products ProductClient
	tracer   trace.Tracer
}

// NewCartHandler cria uma nova instância de CartHandler
func NewCartHandler(useCase CartUseCaseInterface, products ProductClient, tracer trace.Tracer) *CartHandler {
	return &CartHandler{
		useCase:  useCase,
		products: products,
		tracer:   tracer,
	}
}

// AddToCartRequest representa a requisição de adicionar ao carrinho
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// UpdateCartRequest representa a requisição de alterar quantidade
type UpdateCartRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// cartLineResponse resolve nome/imagem do produto para a resposta de uma linha
func (h *CartHandler) cartLineResponse(ctx context.Context, item *CartItem, token string) (gin.H, error) {
	product, err := h.products.FetchProduct(ctx, item.ProductID, token)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"id":         item.ID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
		"price":      item.Price,
		"total":      item.Total(),
		"name":       product.Name,
		"image":      product.Image,
	}, nil
}

// GetCart retorna o carrinho do usuário autenticado
func (h *CartHandler) GetCart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_cart")
	defer span.End()

	cart, err := h.useCase.GetCart(ctx, c.GetString(contextKeyUserID), c.GetString(contextKeyRawToken))
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddToCart adiciona (ou mescla) um produto no carrinho
func (h *CartHandler) AddToCart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "add_to_cart")
	defer span.End()

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token := c.GetString(contextKeyRawToken)
	item, err := h.useCase.AddToCart(ctx, c.GetString(contextKeyUserID), req.ProductID, req.Quantity, token)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}

	body, err := h.cartLineResponse(ctx, item, token)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

// UpdateQuantity altera a quantidade de uma linha
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "update_quantity")
	defer span.End()

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token := c.GetString(contextKeyRawToken)
	item, err := h.useCase.UpdateQuantity(ctx, c.Param("item_id"), req.Quantity, c.GetString(contextKeyUserID), token)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}

	body, err := h.cartLineResponse(ctx, item, token)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

// RemoveItem remove uma linha do carrinho
func (h *CartHandler) RemoveItem(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "remove_item")
	defer span.End()

	err := h.useCase.DeleteItem(ctx, c.Param("item_id"), c.GetString(contextKeyUserID), c.GetString(contextKeyRawToken))
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed successfully"})
}

// ClearCart esvazia o carrinho do usuário
func (h *CartHandler) ClearCart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "clear_cart")
	defer span.End()

	err := h.useCase.ClearCart(ctx, c.GetString(contextKeyUserID), c.GetString(contextKeyRawToken))
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}

// HealthCheck verifica a saúde do serviço
func (h *CartHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cart-service",
	})
}
