package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CartUseCase contém as regras de mutação do carrinho. Toda mutação que
// aumenta quantidade passa primeiro pela reserva síncrona de estoque; a linha
// do carrinho só é escrita depois de uma reserva bem sucedida.
type CartUseCase struct {
	repository CartRepository
	products   ProductClient
	tracer     trace.Tracer
}

// NewCartUseCase cria uma nova instância de CartUseCase
func NewCartUseCase(
	repository CartRepository,
	products ProductClient,
	tracer trace.Tracer,
) *CartUseCase {
	return &CartUseCase{
		repository: repository,
		products:   products,
		tracer:     tracer,
	}
}

// logRestoreFailure registra a perda de um restore best-effort: o estoque do
// produto fica subestimado até reconciliação manual (tradeoff assumido de
// disponibilidade sobre consistência).
func logRestoreFailure(productID string, quantity int, err error) {
	log.Printf("⚠️ RESTORE LOST: ProductID=%s | Quantity=%d | stock now understated | Error=%v",
		productID, quantity, err)
}

// GetCart retorna o carrinho do usuário com os produtos resolvidos
func (uc *CartUseCase) GetCart(ctx context.Context, userID, token string) (*Cart, error) {
	ctx, span := uc.tracer.Start(ctx, "get_cart")
	defer span.End()

	items, err := uc.repository.GetCart(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart := &Cart{Items: []CartLine{}}
	for _, item := range items {
		product, err := uc.products.FetchProduct(ctx, item.ProductID, token)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		cart.Items = append(cart.Items, CartLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Total:     item.Total(),
			Name:      product.Name,
			Image:     product.Image,
		})
		cart.Total += item.Total()
	}
	return cart, nil
}

// AddToCart adiciona um produto ao carrinho. Para linha existente reserva
// apenas o delta e mescla na linha (o snapshot de preço original é mantido);
// para linha nova reserva a quantidade inteira e cria a linha.
func (uc *CartUseCase) AddToCart(ctx context.Context, userID, productID string, quantity int, token string) (*CartItem, error) {
	ctx, span := uc.tracer.Start(ctx, "add_to_cart")
	defer span.End()
	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("product_id", productID),
		attribute.Int("quantity", quantity),
	)

	log.Printf("➡️ [ADD TO CART] UserID: %s | ProductID: %s | Quantity: %d", userID, productID, quantity)

	product, err := uc.products.FetchProduct(ctx, productID, token)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	existing, err := uc.repository.GetItem(ctx, userID, productID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}

	if existing != nil {
		// só o delta é reservado; a linha mescla a quantidade
		if !uc.products.TryReserve(ctx, productID, quantity, token) {
			log.Printf("❌ ADD REJECTED: insufficient stock | ProductID=%s | Delta=%d", productID, quantity)
			return nil, ErrNotEnoughStock
		}

		ok, err := uc.repository.UpdateItemQuantity(ctx, existing.ID, existing.Quantity, existing.Quantity+quantity)
		if err != nil || !ok {
			// a reserva já aconteceu: devolve o delta antes de desistir
			if restoreErr := uc.products.Restore(ctx, productID, quantity, token); restoreErr != nil {
				logRestoreFailure(productID, quantity, restoreErr)
			}
			if err != nil {
				span.RecordError(err)
				return nil, err
			}
			return nil, ErrCartConflict
		}

		existing.Quantity += quantity
		log.Printf("✅ Cart line merged: ItemID=%s | Quantity=%d", existing.ID, existing.Quantity)
		return existing, nil
	}

	if !uc.products.TryReserve(ctx, productID, quantity, token) {
		log.Printf("❌ ADD REJECTED: insufficient stock | ProductID=%s | Quantity=%d", productID, quantity)
		return nil, ErrNotEnoughStock
	}

	item := NewCartItem(uuid.New().String(), userID, productID, quantity, product.Price)
	if err := uc.repository.AddItem(ctx, item); err != nil {
		// compensa a reserva que ficou órfã
		if restoreErr := uc.products.Restore(ctx, productID, quantity, token); restoreErr != nil {
			logRestoreFailure(productID, quantity, restoreErr)
		}
		span.RecordError(err)
		return nil, err
	}

	log.Printf("✅ Cart line created: ItemID=%s | Quantity=%d", item.ID, item.Quantity)
	return item, nil
}

// UpdateQuantity altera a quantidade de uma linha. Aumento reserva o diff e
// aborta sem escrita parcial quando falha; redução persiste primeiro e então
// devolve o excedente em best-effort.
func (uc *CartUseCase) UpdateQuantity(ctx context.Context, itemID string, newQuantity int, userID, token string) (*CartItem, error) {
	ctx, span := uc.tracer.Start(ctx, "update_quantity")
	defer span.End()
	span.SetAttributes(
		attribute.String("item_id", itemID),
		attribute.Int("new_quantity", newQuantity),
	)

	item, err := uc.repository.GetItemByID(ctx, itemID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	// linha de outro usuário vira o mesmo not-found genérico (não vaza existência)
	if item == nil || item.UserID != userID {
		return nil, ErrCartItemNotFound
	}

	diff := newQuantity - item.Quantity
	log.Printf("➡️ [UPDATE QUANTITY] ItemID: %s | %d -> %d (diff %+d)", itemID, item.Quantity, newQuantity, diff)

	if diff > 0 {
		if !uc.products.TryReserve(ctx, item.ProductID, diff, token) {
			log.Printf("❌ UPDATE REJECTED: insufficient stock | ProductID=%s | Diff=%d", item.ProductID, diff)
			return nil, ErrNotEnoughStock
		}

		ok, err := uc.repository.UpdateItemQuantity(ctx, itemID, item.Quantity, newQuantity)
		if err != nil || !ok {
			if restoreErr := uc.products.Restore(ctx, item.ProductID, diff, token); restoreErr != nil {
				logRestoreFailure(item.ProductID, diff, restoreErr)
			}
			if err != nil {
				span.RecordError(err)
				return nil, err
			}
			return nil, ErrCartConflict
		}
	} else {
		ok, err := uc.repository.UpdateItemQuantity(ctx, itemID, item.Quantity, newQuantity)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if !ok {
			return nil, ErrCartConflict
		}

		// só devolve estoque depois que a redução foi persistida
		if diff < 0 {
			if restoreErr := uc.products.Restore(ctx, item.ProductID, -diff, token); restoreErr != nil {
				logRestoreFailure(item.ProductID, -diff, restoreErr)
			}
		}
	}

	item.Quantity = newQuantity
	log.Printf("✅ Cart line updated: ItemID=%s | Quantity=%d", itemID, newQuantity)
	return item, nil
}

// DeleteItem remove uma linha, devolvendo a quantidade inteira em best-effort
func (uc *CartUseCase) DeleteItem(ctx context.Context, itemID, userID, token string) error {
	ctx, span := uc.tracer.Start(ctx, "delete_item")
	defer span.End()

	item, err := uc.repository.GetItemByID(ctx, itemID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to load cart item: %w", err)
	}
	if item == nil || item.UserID != userID {
		return ErrCartItemNotFound
	}

	log.Printf("↩️ [DELETE ITEM] ItemID: %s | restoring %d of %s", itemID, item.Quantity, item.ProductID)
	if restoreErr := uc.products.Restore(ctx, item.ProductID, item.Quantity, token); restoreErr != nil {
		logRestoreFailure(item.ProductID, item.Quantity, restoreErr)
	}

	if err := uc.repository.DeleteItem(ctx, itemID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	log.Printf("✅ Cart line removed: ItemID=%s", itemID)
	return nil
}

// ClearCart devolve o estoque de cada linha em best-effort e apaga todas as
// linhas do usuário em uma operação
func (uc *CartUseCase) ClearCart(ctx context.Context, userID, token string) error {
	ctx, span := uc.tracer.Start(ctx, "clear_cart")
	defer span.End()

	items, err := uc.repository.GetCart(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to load cart: %w", err)
	}

	for _, item := range items {
		if restoreErr := uc.products.Restore(ctx, item.ProductID, item.Quantity, token); restoreErr != nil {
			logRestoreFailure(item.ProductID, item.Quantity, restoreErr)
		}
	}

	if err := uc.repository.ClearCart(ctx, userID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	log.Printf("✅ Cart cleared: UserID=%s | Lines=%d", userID, len(items))
	return nil
}
