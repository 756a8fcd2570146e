package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// MockProductRepository simula o repositório de produtos
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, product *Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetProduct(ctx context.Context, productID string) (*Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, filter ProductFilter) (int, []Product, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Get(1).([]Product), args.Error(2)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, productID string, fields map[string]interface{}) (*Product, error) {
	args := m.Called(ctx, productID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, productID string) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ListLowStock(ctx context.Context, threshold int) ([]Product, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]Product), args.Error(1)
}

func (m *MockProductRepository) ReserveStock(ctx context.Context, productID string, quantity int) (int, error) {
	args := m.Called(ctx, productID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) RestoreStock(ctx context.Context, productID string, quantity int) (int, error) {
	args := m.Called(ctx, productID, quantity)
	return args.Int(0), args.Error(1)
}

// noopCache descarta todas as operações de cache
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) bool         { return false }
func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {}
func (noopCache) Delete(ctx context.Context, keys ...string)                         {}

// ledgerStub mantém o estoque em memória com a mesma guarda condicional do SQL
type ledgerStub struct {
	MockProductRepository
	stock map[string]int
}

func newLedgerStub(stock map[string]int) *ledgerStub {
	return &ledgerStub{stock: stock}
}

func (l *ledgerStub) ReserveStock(ctx context.Context, productID string, quantity int) (int, error) {
	current, ok := l.stock[productID]
	if !ok {
		return 0, ErrProductNotFound
	}
	if current < quantity {
		return 0, ErrInsufficientStock
	}
	l.stock[productID] = current - quantity
	return l.stock[productID], nil
}

func (l *ledgerStub) RestoreStock(ctx context.Context, productID string, quantity int) (int, error) {
	current, ok := l.stock[productID]
	if !ok {
		return 0, ErrProductNotFound
	}
	l.stock[productID] = current + quantity
	return l.stock[productID], nil
}

func newTestUseCase(repo ProductRepository) *ProductUseCase {
	return NewProductUseCase(repo, noopCache{},
		tracenoop.NewTracerProvider().Tracer("test"),
		metricnoop.NewMeterProvider().Meter("test"))
}

func TestReserve_InsufficientStock(t *testing.T) {
	// Arrange: stock 5, reserve 10
	ledger := newLedgerStub(map[string]int{"product-1": 5})
	uc := newTestUseCase(ledger)

	// Act
	_, err := uc.Reserve(context.Background(), "product-1", 10)

	// Assert: failure reported, stock untouched
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 5, ledger.stock["product-1"])
}

func TestReserve_DecrementsStock(t *testing.T) {
	ledger := newLedgerStub(map[string]int{"product-1": 10})
	uc := newTestUseCase(ledger)

	newStock, err := uc.Reserve(context.Background(), "product-1", 3)

	assert.NoError(t, err)
	assert.Equal(t, 7, newStock)
	assert.Equal(t, 7, ledger.stock["product-1"])
}

func TestReserve_UnknownProduct(t *testing.T) {
	ledger := newLedgerStub(map[string]int{})
	uc := newTestUseCase(ledger)

	_, err := uc.Reserve(context.Background(), "ghost", 1)

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReserveRestore_RoundTrip(t *testing.T) {
	// reserve(p, n) followed by restore(p, n) returns stock to its pre-reserve value
	ledger := newLedgerStub(map[string]int{"product-1": 8})
	uc := newTestUseCase(ledger)

	_, err := uc.Reserve(context.Background(), "product-1", 3)
	assert.NoError(t, err)

	newStock, err := uc.Restore(context.Background(), "product-1", 3)
	assert.NoError(t, err)
	assert.Equal(t, 8, newStock)
}

func TestReserve_StockNeverNegative(t *testing.T) {
	// any sequence of individually successful reserves keeps stock >= 0
	ledger := newLedgerStub(map[string]int{"product-1": 7})
	uc := newTestUseCase(ledger)

	for _, quantity := range []int{3, 2, 2, 1, 4} {
		_, err := uc.Reserve(context.Background(), "product-1", quantity)
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientStock)
		}
		assert.GreaterOrEqual(t, ledger.stock["product-1"], 0)
	}
	assert.Equal(t, 0, ledger.stock["product-1"])
}

func TestUpdate_NothingToUpdate(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockRepo.On("UpdateProduct", mock.Anything, "product-1", map[string]interface{}{}).
		Return(nil, ErrNothingToUpdate)
	uc := newTestUseCase(mockRepo)

	_, err := uc.Update(context.Background(), "product-1", map[string]interface{}{})

	assert.ErrorIs(t, err, ErrNothingToUpdate)
	mockRepo.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockRepo.On("DeleteProduct", mock.Anything, "ghost").Return(false, nil)
	uc := newTestUseCase(mockRepo)

	err := uc.Delete(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}
