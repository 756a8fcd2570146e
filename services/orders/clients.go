package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// CartClient lê e limpa o carrinho do usuário no cart-service
type CartClient interface {
	// FetchCart retorna o snapshot atual do carrinho do dono do token
	FetchCart(ctx context.Context, token string) ([]CartSnapshotLine, error)

	// Clear esvazia o carrinho; falha é não-fatal para o checkout
	Clear(ctx context.Context, token string) error
}

// ProductInfoClient resolve nome/imagem de produtos para respostas de pedido
type ProductInfoClient interface {
	FetchProduct(ctx context.Context, productID, token string) ProductInfo
}

// ProductInfo representa os dados de exibição de um produto
type ProductInfo struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// RestyCartClient implementa CartClient usando resty
type RestyCartClient struct {
	client  *resty.Client
	baseURL string
}

// NewCartClient cria uma nova instância de RestyCartClient
func NewCartClient(baseURL string) *RestyCartClient {
	return &RestyCartClient{
		client:  resty.New().SetTimeout(10 * time.Second),
		baseURL: baseURL,
	}
}

type cartResponse struct {
	Items []CartSnapshotLine `json:"items"`
	Total float64            `json:"total"`
}

// FetchCart busca o snapshot do carrinho
func (c *RestyCartClient) FetchCart(ctx context.Context, token string) ([]CartSnapshotLine, error) {
	var body cartResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&body).
		Get(c.baseURL + "/api/v1/cart")

	if err != nil {
		return nil, fmt.Errorf("%w: fetch cart: %v", ErrUpstream, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: cart-service returned %d", ErrUpstream, resp.StatusCode())
	}
	return body.Items, nil
}

// Clear esvazia o carrinho do usuário
func (c *RestyCartClient) Clear(ctx context.Context, token string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Delete(c.baseURL + "/api/v1/cart")

	if err != nil {
		return fmt.Errorf("%w: clear cart: %v", ErrUpstream, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: clear cart returned %d", ErrUpstream, resp.StatusCode())
	}
	return nil
}

// RestyProductInfoClient implementa ProductInfoClient usando resty
type RestyProductInfoClient struct {
	client  *resty.Client
	baseURL string
}

// NewProductInfoClient cria uma nova instância de RestyProductInfoClient
func NewProductInfoClient(baseURL string) *RestyProductInfoClient {
	return &RestyProductInfoClient{
		client:  resty.New().SetTimeout(5 * time.Second),
		baseURL: baseURL,
	}
}

// FetchProduct resolve os dados de exibição; qualquer falha degrada para o
// placeholder em vez de quebrar a resposta do pedido
func (c *RestyProductInfoClient) FetchProduct(ctx context.Context, productID, token string) ProductInfo {
	var info ProductInfo
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&info).
		Get(fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, productID))

	if err != nil || resp.StatusCode() != http.StatusOK {
		return ProductInfo{Name: "Unknown Product"}
	}
	return info
}
