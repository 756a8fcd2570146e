package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	productCacheTTL = 5 * time.Minute
	listCacheTTL    = 120 * time.Second
)

// ProductUseCase contém a lógica de negócio do catálogo e do ledger de estoque
type ProductUseCase struct {
	repository ProductRepository
	cache      Cache
	tracer     trace.Tracer

	reserveCounter metric.Int64Counter
	restoreCounter metric.Int64Counter
}

// NewProductUseCase cria uma nova instância de ProductUseCase
func NewProductUseCase(
	repository ProductRepository,
	cache Cache,
	tracer trace.Tracer,
	meter metric.Meter,
) *ProductUseCase {
	reserveCounter, _ := meter.Int64Counter("stock.reserve.total",
		metric.WithDescription("Stock reservation attempts by outcome"))
	restoreCounter, _ := meter.Int64Counter("stock.restore.total",
		metric.WithDescription("Stock restore operations"))

	return &ProductUseCase{
		repository:     repository,
		cache:          cache,
		tracer:         tracer,
		reserveCounter: reserveCounter,
		restoreCounter: restoreCounter,
	}
}

// Create cria um produto e invalida o cache de listagem
func (uc *ProductUseCase) Create(ctx context.Context, product *Product) error {
	if err := uc.repository.CreateProduct(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	uc.cache.Delete(ctx, "products:all")
	log.Printf("✅ Product created: %s (%s)", product.Name, product.ID)
	return nil
}

// Get busca um produto, preferindo o cache quando disponível
func (uc *ProductUseCase) Get(ctx context.Context, productID string) (*Product, error) {
	var cached Product
	if uc.cache.Get(ctx, productCacheKey(productID), &cached) {
		return &cached, nil
	}

	product, err := uc.repository.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(ctx, productCacheKey(productID), product, productCacheTTL)
	return product, nil
}

// ListResult representa a resposta paginada do catálogo
type ListResult struct {
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Size     int       `json:"size"`
	Products []Product `json:"products"`
}

// List lista produtos com filtros, cacheando por combinação de filtros
func (uc *ProductUseCase) List(ctx context.Context, filter ProductFilter) (*ListResult, error) {
	key := listCacheKey(filter)
	var cached ListResult
	if uc.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	total, products, err := uc.repository.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Total: total, Page: filter.Page, Size: filter.Size, Products: products}
	uc.cache.Set(ctx, key, result, listCacheTTL)
	return result, nil
}

// Update aplica um update parcial e invalida as entradas de cache do produto
func (uc *ProductUseCase) Update(ctx context.Context, productID string, fields map[string]interface{}) (*Product, error) {
	product, err := uc.repository.UpdateProduct(ctx, productID, fields)
	if err != nil {
		return nil, err
	}
	uc.cache.Delete(ctx, productCacheKey(productID), "products:all")
	return product, nil
}

// Delete remove um produto e invalida o cache
func (uc *ProductUseCase) Delete(ctx context.Context, productID string) error {
	deleted, err := uc.repository.DeleteProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProductNotFound
	}
	uc.cache.Delete(ctx, productCacheKey(productID), "products:all")
	log.Printf("✅ Product deleted: %s", productID)
	return nil
}

// LowStock lista produtos com estoque abaixo do limite
func (uc *ProductUseCase) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	return uc.repository.ListLowStock(ctx, threshold)
}

// Reserve executa a reserva de estoque (decremento condicional).
// Estoque insuficiente não muta nada e retorna ErrInsufficientStock.
func (uc *ProductUseCase) Reserve(ctx context.Context, productID string, quantity int) (int, error) {
	ctx, span := uc.tracer.Start(ctx, "stock.reserve")
	defer span.End()
	span.SetAttributes(
		attribute.String("product_id", productID),
		attribute.Int("quantity", quantity),
	)

	log.Printf("➡️ [RESERVE] ProductID: %s | Quantity: %d", productID, quantity)

	newStock, err := uc.repository.ReserveStock(ctx, productID, quantity)
	if err != nil {
		span.RecordError(err)
		uc.reserveCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "failed")))
		log.Printf("❌ RESERVE FAILED: ProductID=%s | Quantity=%d | Error=%v", productID, quantity, err)
		return 0, err
	}

	uc.reserveCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	uc.cache.Delete(ctx, productCacheKey(productID), "products:all")
	log.Printf("✅ Stock reserved: ProductID=%s | Quantity=%d | NewStock=%d", productID, quantity, newStock)
	return newStock, nil
}

// Restore executa a devolução de estoque (incremento incondicional)
func (uc *ProductUseCase) Restore(ctx context.Context, productID string, quantity int) (int, error) {
	ctx, span := uc.tracer.Start(ctx, "stock.restore")
	defer span.End()
	span.SetAttributes(
		attribute.String("product_id", productID),
		attribute.Int("quantity", quantity),
	)

	log.Printf("↩️ [RESTORE] ProductID: %s | Quantity: %d", productID, quantity)

	newStock, err := uc.repository.RestoreStock(ctx, productID, quantity)
	if err != nil {
		span.RecordError(err)
		log.Printf("❌ RESTORE FAILED: ProductID=%s | Quantity=%d | Error=%v", productID, quantity, err)
		return 0, err
	}

	uc.restoreCounter.Add(ctx, 1)
	uc.cache.Delete(ctx, productCacheKey(productID), "products:all")
	log.Printf("✅ Stock restored: ProductID=%s | Quantity=%d | NewStock=%d", productID, quantity, newStock)
	return newStock, nil
}
