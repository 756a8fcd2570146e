package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRepository define a interface para operações de banco de dados de produtos
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) error
	GetProduct(ctx context.Context, productID string) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) (int, []Product, error)
	UpdateProduct(ctx context.Context, productID string, fields map[string]interface{}) (*Product, error)
	DeleteProduct(ctx context.Context, productID string) (bool, error)
	ListLowStock(ctx context.Context, threshold int) ([]Product, error)

	// ReserveStock decrementa o estoque somente quando stock >= quantity,
	// em um único UPDATE condicional (seguro sob concorrência).
	ReserveStock(ctx context.Context, productID string, quantity int) (int, error)

	// RestoreStock incrementa o estoque incondicionalmente (compensação).
	RestoreStock(ctx context.Context, productID string, quantity int) (int, error)
}

// ProductFilter representa os filtros de listagem do catálogo
type ProductFilter struct {
	Search    string
	Category  string
	PriceMin  *float64
	PriceMax  *float64
	SortBy    string
	SortOrder string
	Page      int
	Size      int
}

// PostgresProductRepository implementa ProductRepository usando PostgreSQL
type PostgresProductRepository struct {
	db *pgxpool.Pool
}

// NewProductRepository cria uma nova instância de PostgresProductRepository
func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &PostgresProductRepository{
		db: db,
	}
}

const productColumns = "id, name, description, price, stock, category, image, approved, created_at, updated_at"

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.Category, &p.Image, &p.Approved, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct insere um novo produto
func (r *PostgresProductRepository) CreateProduct(ctx context.Context, product *Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, description, price, stock, category, image, approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, product.ID, product.Name, product.Description, product.Price, product.Stock,
		product.Category, product.Image, product.Approved, product.CreatedAt, product.UpdatedAt)
	return err
}

// GetProduct busca um produto pelo ID
func (r *PostgresProductRepository) GetProduct(ctx context.Context, productID string) (*Product, error) {
	product, err := scanProduct(r.db.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// campos permitidos para ordenação (evita SQL injection via sort_by)
var sortableColumns = map[string]bool{
	"name":       true,
	"price":      true,
	"stock":      true,
	"created_at": true,
}

// ListProducts lista produtos paginados aplicando os filtros do catálogo
func (r *PostgresProductRepository) ListProducts(ctx context.Context, filter ProductFilter) (int, []Product, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.PriceMin != nil {
		args = append(args, *filter.PriceMin)
		where = append(where, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.PriceMax != nil {
		args = append(args, *filter.PriceMax)
		where = append(where, fmt.Sprintf("price <= $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM products WHERE "+whereClause, args...).Scan(&total)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count products: %w", err)
	}

	orderClause := ""
	if sortableColumns[filter.SortBy] {
		direction := "ASC"
		if filter.SortOrder == "desc" {
			direction = "DESC"
		}
		orderClause = fmt.Sprintf(" ORDER BY %s %s", filter.SortBy, direction)
	}

	args = append(args, filter.Size, (filter.Page-1)*filter.Size)
	query := "SELECT " + productColumns + " FROM products WHERE " + whereClause + orderClause +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
			&p.Category, &p.Image, &p.Approved, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return 0, nil, err
		}
		products = append(products, p)
	}
	return total, products, rows.Err()
}

// campos que podem ser alterados via update parcial
var updatableColumns = map[string]bool{
	"name":        true,
	"description": true,
	"price":       true,
	"stock":       true,
	"category":    true,
	"image":       true,
	"approved":    true,
}

// UpdateProduct aplica um update parcial e retorna o produto atualizado
func (r *PostgresProductRepository) UpdateProduct(ctx context.Context, productID string, fields map[string]interface{}) (*Product, error) {
	set := []string{}
	args := []interface{}{}

	for column, value := range fields {
		if !updatableColumns[column] {
			continue
		}
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if len(set) == 0 {
		return nil, ErrNothingToUpdate
	}

	args = append(args, productID)
	query := fmt.Sprintf("UPDATE products SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), productColumns)

	product, err := scanProduct(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct remove um produto
func (r *PostgresProductRepository) DeleteProduct(ctx context.Context, productID string) (bool, error) {
	ct, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = $1", productID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// ListLowStock lista os produtos com estoque abaixo ou igual ao limite
func (r *PostgresProductRepository) ListLowStock(ctx context.Context, threshold int) ([]Product, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+productColumns+" FROM products WHERE stock <= $1 ORDER BY stock ASC", threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
			&p.Category, &p.Image, &p.Approved, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ReserveStock decrementa o estoque com guarda condicional e registra o movimento
// na mesma transação. O UPDATE único com "stock >= quantity" serializa chamadores
// concorrentes na linha do produto.
func (r *PostgresProductRepository) ReserveStock(ctx context.Context, productID string, quantity int) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var newStock int
	err = tx.QueryRow(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
		RETURNING stock
	`, productID, quantity).Scan(&newStock)

	if errors.Is(err, pgx.ErrNoRows) {
		// distingue produto inexistente de estoque insuficiente
		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", productID).Scan(&exists); err != nil {
			return 0, err
		}
		if !exists {
			return 0, ErrProductNotFound
		}
		return 0, ErrInsufficientStock
	}
	if err != nil {
		return 0, fmt.Errorf("failed to reserve stock: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (id, product_id, change_quantity, movement_type)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), productID, -quantity, MovementTypeReserved)
	if err != nil {
		return 0, fmt.Errorf("failed to insert movement record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newStock, nil
}

// RestoreStock incrementa o estoque e registra o movimento na mesma transação
func (r *PostgresProductRepository) RestoreStock(ctx context.Context, productID string, quantity int) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var newStock int
	err = tx.QueryRow(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING stock
	`, productID, quantity).Scan(&newStock)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to restore stock: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (id, product_id, change_quantity, movement_type)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), productID, quantity, MovementTypeRestored)
	if err != nil {
		return 0, fmt.Errorf("failed to insert movement record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newStock, nil
}
