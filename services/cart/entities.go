package main

import (
	"time"
)

// CartItem representa uma linha do carrinho: uma por par (user_id, product_id).
// Price é o snapshot do preço no momento do primeiro add, nunca re-buscado.
type CartItem struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ProductID string    `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewCartItem cria uma nova instância de CartItem
func NewCartItem(id, userID, productID string, quantity int, price float64) *CartItem {
	return &CartItem{
		ID:        id,
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// Total retorna o valor da linha (preço do snapshot x quantidade)
func (i *CartItem) Total() float64 {
	return i.Price * float64(i.Quantity)
}

// CartLine representa uma linha do carrinho enriquecida com dados do produto
type CartLine struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
}

// Cart representa a resposta do carrinho completo
type Cart struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}
