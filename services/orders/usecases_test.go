package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// MockOrderRepository simula o repositório de pedidos
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockOrderRepository) GetOrdersByUser(ctx context.Context, userID string) ([]Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context, page, size int) (int, []Order, error) {
	args := m.Called(ctx, page, size)
	return args.Int(0), args.Get(1).([]Order), args.Error(2)
}

func (m *MockOrderRepository) SalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummary, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(*SalesSummary), args.Error(1)
}

// stubCartClient devolve um snapshot fixo e registra a limpeza
type stubCartClient struct {
	lines     []CartSnapshotLine
	fetchErr  error
	clearErr  error
	cleared   bool
	clearCall int
}

func (s *stubCartClient) FetchCart(ctx context.Context, token string) ([]CartSnapshotLine, error) {
	return s.lines, s.fetchErr
}

func (s *stubCartClient) Clear(ctx context.Context, token string) error {
	s.clearCall++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.cleared = true
	return nil
}

func newTestOrders(repo OrderRepository, carts CartClient) *OrderUseCase {
	return NewOrderUseCase(repo, carts, tracenoop.NewTracerProvider().Tracer("test"))
}

func TestCheckout_EmptyCartCreatesNoOrder(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	carts := &stubCartClient{lines: []CartSnapshotLine{}}
	uc := newTestOrders(mockRepo, carts)

	_, err := uc.Checkout(context.Background(), "user-1", "token")

	assert.ErrorIs(t, err, ErrCartEmpty)
	mockRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	assert.Zero(t, carts.clearCall, "cart must not be cleared on rejected checkout")
}

func TestCheckout_TotalMatchesSnapshot(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	carts := &stubCartClient{lines: []CartSnapshotLine{
		{ProductID: "p1", Quantity: 3, Price: 25.5},
		{ProductID: "p2", Quantity: 2, Price: 50},
	}}
	uc := newTestOrders(mockRepo, carts)

	var persisted *Order
	mockRepo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*main.Order")).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(*Order) }).
		Return(nil)

	order, err := uc.Checkout(context.Background(), "user-1", "token")

	require.NoError(t, err)
	assert.InDelta(t, 176.5, order.TotalAmount, 1e-9)
	assert.Equal(t, OrderStatusPaid, order.Status)
	assert.Len(t, order.Items, 2)

	// the persisted snapshot carries the cart prices, frozen
	require.NotNil(t, persisted)
	assert.Equal(t, 25.5, persisted.Items[0].Price)
	assert.Equal(t, 3, persisted.Items[0].Quantity)
	assert.True(t, carts.cleared)
	mockRepo.AssertExpectations(t)
}

func TestCheckout_FetchFailureAbortsWithoutOrder(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	carts := &stubCartClient{fetchErr: ErrUpstream}
	uc := newTestOrders(mockRepo, carts)

	_, err := uc.Checkout(context.Background(), "user-1", "token")

	assert.ErrorIs(t, err, ErrUpstream)
	mockRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCheckout_PersistFailureAbortsBeforeClear(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	carts := &stubCartClient{lines: []CartSnapshotLine{{ProductID: "p1", Quantity: 1, Price: 10}}}
	uc := newTestOrders(mockRepo, carts)

	mockRepo.On("CreateOrder", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := uc.Checkout(context.Background(), "user-1", "token")

	assert.Error(t, err)
	assert.Zero(t, carts.clearCall, "cart must survive a failed checkout")
}

func TestCheckout_ClearFailureDoesNotRollBackOrder(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	carts := &stubCartClient{
		lines:    []CartSnapshotLine{{ProductID: "p1", Quantity: 2, Price: 10}},
		clearErr: ErrUpstream,
	}
	uc := newTestOrders(mockRepo, carts)

	mockRepo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)

	order, err := uc.Checkout(context.Background(), "user-1", "token")

	// clear is best-effort: the order stands
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPaid, order.Status)
	assert.Equal(t, 1, carts.clearCall)
	mockRepo.AssertExpectations(t)
}
