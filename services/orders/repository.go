package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRepository define a interface para operações de banco de dados de pedidos
type OrderRepository interface {
	// CreateOrder persiste o pedido e seus itens em uma única transação local
	CreateOrder(ctx context.Context, order *Order) error

	GetOrder(ctx context.Context, orderID string) (*Order, error)
	GetOrdersByUser(ctx context.Context, userID string) ([]Order, error)
	ListOrders(ctx context.Context, page, size int) (int, []Order, error)
	SalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummary, error)
}

// SalesSummary representa o agregado de vendas para o painel admin
type SalesSummary struct {
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// PostgresOrderRepository implementa OrderRepository usando PostgreSQL
type PostgresOrderRepository struct {
	db *pgxpool.Pool
}

// NewOrderRepository cria uma nova instância de PostgresOrderRepository
func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PostgresOrderRepository{
		db: db,
	}
}

// CreateOrder insere o pedido e os itens atomicamente
func (r *PostgresOrderRepository) CreateOrder(ctx context.Context, order *Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, order.ID, order.UserID, order.TotalAmount, order.Status, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`, item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresOrderRepository) loadItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []OrderItem{}
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.Quantity, &i.Price); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// GetOrder busca um pedido com seus itens
func (r *PostgresOrderRepository) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, total_amount, status, created_at, updated_at
		FROM orders WHERE id = $1
	`, orderID).Scan(&order.ID, &order.UserID, &order.TotalAmount, &order.Status,
		&order.CreatedAt, &order.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	order.Items, err = r.loadItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByUser lista os pedidos de um usuário, mais recentes primeiro
func (r *PostgresOrderRepository) GetOrdersByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, total_amount, status, created_at, updated_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items, err = r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// ListOrders lista pedidos de todos os usuários, paginado (painel admin)
func (r *PostgresOrderRepository) ListOrders(ctx context.Context, page, size int) (int, []Order, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&total); err != nil {
		return 0, nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, total_amount, status, created_at, updated_at
		FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, size, (page-1)*size)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return 0, nil, err
		}
		orders = append(orders, o)
	}
	return total, orders, rows.Err()
}

// SalesSummary agrega contagem e receita dos pedidos pagos no intervalo
func (r *PostgresOrderRepository) SalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummary, error) {
	query := "SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM orders WHERE status = $1"
	args := []interface{}{OrderStatusPaid}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	var summary SalesSummary
	if err := r.db.QueryRow(ctx, query, args...).Scan(&summary.Orders, &summary.Revenue); err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}
	return &summary, nil
}
