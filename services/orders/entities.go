package main

import (
	"time"
)

// OrderStatus representa os possíveis status de um pedido
const (
	OrderStatusPending = "PENDING"
	OrderStatusPaid    = "PAID"
	OrderStatusFailed  = "FAILED"
)

// Order representa um pedido imutável criado no checkout
type Order struct {
	ID          string      `json:"id" db:"id"`
	UserID      string      `json:"user_id" db:"user_id"`
	TotalAmount float64     `json:"total_amount" db:"total_amount"`
	Status      string      `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
	Items       []OrderItem `json:"items"`
}

// OrderItem é uma linha do snapshot de checkout: produto, quantidade e preço
// congelados no momento da criação do pedido
type OrderItem struct {
	ID        string  `json:"id" db:"id"`
	OrderID   string  `json:"order_id" db:"order_id"`
	ProductID string  `json:"product_id" db:"product_id"`
	Quantity  int     `json:"quantity" db:"quantity"`
	Price     float64 `json:"price" db:"price"`
}

// NewOrder cria uma nova instância de Order
func NewOrder(id, userID string, totalAmount float64, status string) *Order {
	return &Order{
		ID:          id,
		UserID:      userID,
		TotalAmount: totalAmount,
		Status:      status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// CartSnapshotLine representa uma linha do carrinho lida do cart-service
type CartSnapshotLine struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// SnapshotTotal soma price x quantity sobre o snapshot do carrinho.
// Os preços vêm do snapshot, nunca re-buscados do products-service.
func SnapshotTotal(lines []CartSnapshotLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
