package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CartRepository define a interface para operações de banco de dados do carrinho
type CartRepository interface {
	GetCart(ctx context.Context, userID string) ([]CartItem, error)
	GetItem(ctx context.Context, userID, productID string) (*CartItem, error)
	GetItemByID(ctx context.Context, itemID string) (*CartItem, error)
	AddItem(ctx context.Context, item *CartItem) error

	// UpdateItemQuantity persiste newQuantity somente se a linha ainda tem
	// expectedQuantity (guarda otimista contra lost updates). Retorna false
	// quando a guarda falha.
	UpdateItemQuantity(ctx context.Context, itemID string, expectedQuantity, newQuantity int) (bool, error)

	DeleteItem(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context, userID string) error
}

// PostgresCartRepository implementa CartRepository usando PostgreSQL
type PostgresCartRepository struct {
	db *pgxpool.Pool
}

// NewCartRepository cria uma nova instância de PostgresCartRepository
func NewCartRepository(db *pgxpool.Pool) CartRepository {
	return &PostgresCartRepository{
		db: db,
	}
}

const cartItemColumns = "id, user_id, product_id, quantity, price, created_at, updated_at"

// GetCart lista as linhas do carrinho de um usuário
func (r *PostgresCartRepository) GetCart(ctx context.Context, userID string) ([]CartItem, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+cartItemColumns+" FROM cart_items WHERE user_id = $1 ORDER BY created_at", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []CartItem{}
	for rows.Next() {
		var i CartItem
		if err := rows.Scan(&i.ID, &i.UserID, &i.ProductID, &i.Quantity, &i.Price,
			&i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// GetItem busca a linha de um usuário para um produto específico
func (r *PostgresCartRepository) GetItem(ctx context.Context, userID, productID string) (*CartItem, error) {
	var i CartItem
	err := r.db.QueryRow(ctx,
		"SELECT "+cartItemColumns+" FROM cart_items WHERE user_id = $1 AND product_id = $2",
		userID, productID).
		Scan(&i.ID, &i.UserID, &i.ProductID, &i.Quantity, &i.Price, &i.CreatedAt, &i.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// GetItemByID busca uma linha pelo ID
func (r *PostgresCartRepository) GetItemByID(ctx context.Context, itemID string) (*CartItem, error) {
	var i CartItem
	err := r.db.QueryRow(ctx,
		"SELECT "+cartItemColumns+" FROM cart_items WHERE id = $1", itemID).
		Scan(&i.ID, &i.UserID, &i.ProductID, &i.Quantity, &i.Price, &i.CreatedAt, &i.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// AddItem insere uma nova linha no carrinho
func (r *PostgresCartRepository) AddItem(ctx context.Context, item *CartItem) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO cart_items (id, user_id, product_id, quantity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, item.ID, item.UserID, item.ProductID, item.Quantity, item.Price, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// UpdateItemQuantity aplica o update condicional da quantidade
func (r *PostgresCartRepository) UpdateItemQuantity(ctx context.Context, itemID string, expectedQuantity, newQuantity int) (bool, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE id = $1 AND quantity = $2
	`, itemID, expectedQuantity, newQuantity)
	if err != nil {
		return false, fmt.Errorf("failed to update cart item: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

// DeleteItem remove uma linha do carrinho
func (r *PostgresCartRepository) DeleteItem(ctx context.Context, itemID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM cart_items WHERE id = $1", itemID)
	return err
}

// ClearCart remove todas as linhas de um usuário em uma operação
func (r *PostgresCartRepository) ClearCart(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	return err
}
