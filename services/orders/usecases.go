package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OrderUseCase contém a orquestração de checkout e as consultas de pedidos.
// O checkout não toca estoque: a reserva já aconteceu no add-to-cart.
type OrderUseCase struct {
	repository OrderRepository
	carts      CartClient
	tracer     trace.Tracer
}

// NewOrderUseCase cria uma nova instância de OrderUseCase
func NewOrderUseCase(
	repository OrderRepository,
	carts CartClient,
	tracer trace.Tracer,
) *OrderUseCase {
	return &OrderUseCase{
		repository: repository,
		carts:      carts,
		tracer:     tracer,
	}
}

// authorizePayment simula a autorização de pagamento. Um gateway real é um
// colaborador externo fora do escopo; o ponto de corte fica isolado aqui.
func (uc *OrderUseCase) authorizePayment(ctx context.Context, amount float64) bool {
	_ = ctx
	_ = amount
	return true
}

// Checkout lê o snapshot do carrinho, cria o pedido PAID com seus itens em uma
// transação local e então manda limpar o carrinho (best-effort). Qualquer erro
// antes da persistência aborta sem criar pedido.
func (uc *OrderUseCase) Checkout(ctx context.Context, userID, token string) (*Order, error) {
	ctx, span := uc.tracer.Start(ctx, "checkout")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID))

	log.Printf("➡️ [CHECKOUT] UserID: %s", userID)

	cartLines, err := uc.carts.FetchCart(ctx, token)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(cartLines) == 0 {
		log.Printf("❌ CHECKOUT REJECTED: cart is empty | UserID=%s", userID)
		return nil, ErrCartEmpty
	}

	// total calculado sobre os preços do snapshot, nunca re-buscados
	total := SnapshotTotal(cartLines)
	span.SetAttributes(
		attribute.Float64("total_amount", total),
		attribute.Int("lines", len(cartLines)),
	)

	if !uc.authorizePayment(ctx, total) {
		return nil, ErrPaymentFailed
	}

	order := NewOrder(uuid.New().String(), userID, total, OrderStatusPaid)
	for _, line := range cartLines {
		order.Items = append(order.Items, OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	if err := uc.repository.CreateOrder(ctx, order); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	// o estoque já foi decrementado no add-to-cart; falha aqui não exige
	// compensação e o pedido permanece válido
	if err := uc.carts.Clear(ctx, token); err != nil {
		span.RecordError(err)
		log.Printf("⚠️ CART CLEAR LOST: OrderID=%s | cart will be reconciled on next mutation | Error=%v",
			order.ID, err)
	}

	log.Printf("✅ Order placed: OrderID=%s | Total=%.2f | Lines=%d", order.ID, total, len(order.Items))
	return order, nil
}

// ListOrders lista os pedidos do usuário
func (uc *OrderUseCase) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	return uc.repository.GetOrdersByUser(ctx, userID)
}

// GetOrder busca um pedido pelo ID
func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return uc.repository.GetOrder(ctx, orderID)
}

// AdminListOrders lista pedidos de todos os usuários (painel admin)
func (uc *OrderUseCase) AdminListOrders(ctx context.Context, page, size int) (int, []Order, error) {
	return uc.repository.ListOrders(ctx, page, size)
}

// AdminSalesSummary agrega as vendas pagas no intervalo (painel admin)
func (uc *OrderUseCase) AdminSalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummary, error) {
	return uc.repository.SalesSummary(ctx, from, to)
}
