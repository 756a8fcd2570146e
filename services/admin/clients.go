package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// OrdersClient consome a superfície admin do orders-service
type OrdersClient interface {
	SalesSummary(ctx context.Context, token, from, to string) (json.RawMessage, error)
	ListOrders(ctx context.Context, token string, page, size int) (json.RawMessage, error)
}

// ProductsClient consome a superfície admin do products-service
type ProductsClient interface {
	LowStock(ctx context.Context, token string, threshold int) (json.RawMessage, error)

	// SetApproval alterna a flag approved de um produto
	SetApproval(ctx context.Context, token, productID string, approved bool) error
}

// RestyOrdersClient implementa OrdersClient usando resty
type RestyOrdersClient struct {
	client  *resty.Client
	baseURL string
}

// NewOrdersClient cria uma nova instância de RestyOrdersClient
func NewOrdersClient(baseURL string) *RestyOrdersClient {
	return &RestyOrdersClient{
		client:  resty.New().SetTimeout(10 * time.Second),
		baseURL: baseURL,
	}
}

// proxyGet executa o GET e repassa o corpo JSON sem reinterpretar
func proxyGet(ctx context.Context, client *resty.Client, url, token string, params map[string]string) (json.RawMessage, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(params).
		Get(url)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrEntityNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUpstream, url, resp.StatusCode())
	}
	return json.RawMessage(resp.Body()), nil
}

// SalesSummary busca o agregado de vendas no intervalo
func (c *RestyOrdersClient) SalesSummary(ctx context.Context, token, from, to string) (json.RawMessage, error) {
	params := map[string]string{}
	if from != "" {
		params["from"] = from
	}
	if to != "" {
		params["to"] = to
	}
	return proxyGet(ctx, c.client, c.baseURL+"/api/v1/admin/orders/summary", token, params)
}

// ListOrders lista pedidos de todos os usuários, paginado
func (c *RestyOrdersClient) ListOrders(ctx context.Context, token string, page, size int) (json.RawMessage, error) {
	return proxyGet(ctx, c.client, c.baseURL+"/api/v1/admin/orders", token, map[string]string{
		"page": fmt.Sprintf("%d", page),
		"size": fmt.Sprintf("%d", size),
	})
}

// RestyProductsClient implementa ProductsClient usando resty
type RestyProductsClient struct {
	client  *resty.Client
	baseURL string
}

// NewProductsClient cria uma nova instância de RestyProductsClient
func NewProductsClient(baseURL string) *RestyProductsClient {
	return &RestyProductsClient{
		client:  resty.New().SetTimeout(10 * time.Second),
		baseURL: baseURL,
	}
}

// LowStock busca os produtos com estoque abaixo do limiar
func (c *RestyProductsClient) LowStock(ctx context.Context, token string, threshold int) (json.RawMessage, error) {
	return proxyGet(ctx, c.client, c.baseURL+"/api/v1/products/low-stock", token, map[string]string{
		"threshold": fmt.Sprintf("%d", threshold),
	})
}

// SetApproval aplica a flag approved via PUT parcial do products-service
func (c *RestyProductsClient) SetApproval(ctx context.Context, token, productID string, approved bool) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(map[string]interface{}{"approved": approved}).
		Put(fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, productID))

	if err != nil {
		return fmt.Errorf("%w: set approval: %v", ErrUpstream, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return ErrEntityNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: products-service returned %d", ErrUpstream, resp.StatusCode())
	}
	return nil
}
