package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ProductDetails representa os dados do produto retornados pelo products-service
type ProductDetails struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	Stock int     `json:"stock"`
}

// StockResponse representa a resposta dos endpoints do ledger
type StockResponse struct {
	Status string `json:"status"`
	Stock  int    `json:"stock"`
}

// ProductClient é o cliente de reserva de estoque: encapsula as chamadas
// síncronas ao ledger do products-service, autenticadas com o token do caller.
type ProductClient interface {
	FetchProduct(ctx context.Context, productID, token string) (*ProductDetails, error)

	// TryReserve retorna false em qualquer resposta não-2xx ou falha de
	// transporte (política conservadora: assume falha). Sem retry.
	TryReserve(ctx context.Context, productID string, quantity int, token string) bool

	// Restore é best-effort: o erro retornado é apenas para o caller
	// registrar; nunca deve bloquear nem reverter a operação do carrinho.
	Restore(ctx context.Context, productID string, quantity int, token string) error
}

// RestyProductClient implementa ProductClient usando resty
type RestyProductClient struct {
	client  *resty.Client
	baseURL string
}

// NewProductClient cria uma nova instância de RestyProductClient
func NewProductClient(baseURL string) *RestyProductClient {
	client := resty.New().
		SetTimeout(10 * time.Second)

	return &RestyProductClient{
		client:  client,
		baseURL: baseURL,
	}
}

// FetchProduct busca os detalhes do produto (preço, nome, imagem)
func (p *RestyProductClient) FetchProduct(ctx context.Context, productID, token string) (*ProductDetails, error) {
	var details ProductDetails
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&details).
		Get(fmt.Sprintf("%s/api/v1/products/%s", p.baseURL, productID))

	if err != nil {
		return nil, fmt.Errorf("%w: fetch product: %v", ErrUpstream, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &details, nil
	case http.StatusNotFound:
		return nil, ErrProductNotFound
	case http.StatusForbidden:
		return nil, ErrForbidden
	default:
		return nil, fmt.Errorf("%w: products-service returned %d", ErrUpstream, resp.StatusCode())
	}
}

// TryReserve tenta decrementar o estoque no ledger
func (p *RestyProductClient) TryReserve(ctx context.Context, productID string, quantity int, token string) bool {
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("quantity", fmt.Sprintf("%d", quantity)).
		Post(fmt.Sprintf("%s/api/v1/products/%s/reserve", p.baseURL, productID))

	if err != nil {
		// falha de transporte tratada como reserva negada
		return false
	}
	return resp.IsSuccess()
}

// Restore devolve estoque ao ledger (fire-and-forget do ponto de vista do caller)
func (p *RestyProductClient) Restore(ctx context.Context, productID string, quantity int, token string) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("quantity", fmt.Sprintf("%d", quantity)).
		Post(fmt.Sprintf("%s/api/v1/products/%s/restore", p.baseURL, productID))

	if err != nil {
		return fmt.Errorf("%w: restore: %v", ErrUpstream, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: restore returned %d", ErrUpstream, resp.StatusCode())
	}
	return nil
}
