package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskarn/go-storefront/internal/cache"
	"github.com/oskarn/go-storefront/internal/dto"
	"github.com/oskarn/go-storefront/internal/model"
)

type mockOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	return m.orders[id], nil
}

func (m *mockOrderRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range m.orders {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OrderStatus) error {
	if o, ok := m.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.orders[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.orders, id)
	return nil
}

func newOrderFixture() (*OrderService, *mockOrderRepo, *mockProductRepo, *cache.Store) {
	orderRepo := newMockOrderRepo()
	productRepo := newMockProductRepo()
	store := cache.NewStore()
	svc := NewOrderService(orderRepo, productRepo, NewStockLedger(productRepo), store, nil)
	return svc, orderRepo, productRepo, store
}

func orderRequestFor(productID uuid.UUID, quantity int, price int64) dto.NewOrderRequest {
	subtotal := price * int64(quantity)
	return dto.NewOrderRequest{
		ShippingInfo: dto.ShippingInfoRequest{
			Address: "1 Main St", City: "Pune", State: "MH", Country: "IN", PinCode: "411001",
		},
		Items:    []dto.OrderItemRequest{{ProductID: productID, Quantity: quantity}},
		Subtotal: subtotal,
		Total:    subtotal,
	}
}

func TestOrderService_Create_ReducesStockAndInvalidates(t *testing.T) {
	svc, _, productRepo, store := newOrderFixture()
	userID := uuid.New()
	productID := uuid.New()
	productRepo.products[productID] = &model.Product{ID: productID, Name: "P", Price: 1000, Stock: 10}

	for _, k := range []string{
		cache.ProductKey(productID), cache.KeyLatestProducts, cache.KeyAllProducts,
		cache.KeyCategories, cache.KeyAllOrders, cache.MyOrdersKey(userID),
	} {
		store.Set(k, []byte("stale"))
	}

	order, err := svc.Create(context.Background(), userID, orderRequestFor(productID, 3, 1000))
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, order.Status)
	assert.Equal(t, 7, productRepo.products[productID].Stock)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(1000), order.Items[0].Price)
	assert.Equal(t, "P", order.Items[0].Name)

	for _, k := range []string{
		cache.ProductKey(productID), cache.KeyLatestProducts, cache.KeyAllProducts,
		cache.KeyCategories, cache.KeyAllOrders, cache.MyOrdersKey(userID),
	} {
		assert.False(t, store.Has(k), "key %s must be evicted", k)
	}
}

func TestOrderService_Create_OutOfStock(t *testing.T) {
	svc, orderRepo, productRepo, _ := newOrderFixture()
	productID := uuid.New()
	productRepo.products[productID] = &model.Product{ID: productID, Name: "P", Price: 1000, Stock: 7}

	_, err := svc.Create(context.Background(), uuid.New(), orderRequestFor(productID, 8, 1000))
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 7, productRepo.products[productID].Stock)
	assert.Empty(t, orderRepo.orders)
}

func TestOrderService_Create_MissingProductIsOutOfStock(t *testing.T) {
	svc, orderRepo, _, _ := newOrderFixture()
	_, err := svc.Create(context.Background(), uuid.New(), orderRequestFor(uuid.New(), 1, 1000))
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, orderRepo.orders)
}

func TestOrderService_Create_RejectsBadTotals(t *testing.T) {
	svc, _, productRepo, _ := newOrderFixture()
	productID := uuid.New()
	productRepo.products[productID] = &model.Product{ID: productID, Price: 1000, Stock: 10}

	req := orderRequestFor(productID, 1, 1000)
	req.Total = req.Total + 1
	_, err := svc.Create(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrInvalidTotals)
	assert.Equal(t, 10, productRepo.products[productID].Stock)
}

func TestOrderService_Create_ZeroQuantityRejected(t *testing.T) {
	svc, _, productRepo, _ := newOrderFixture()
	productID := uuid.New()
	productRepo.products[productID] = &model.Product{ID: productID, Price: 1000, Stock: 10}

	req := orderRequestFor(productID, 1, 1000)
	req.Items[0].Quantity = 0
	req.Subtotal, req.Total = 0, 0
	_, err := svc.Create(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 10, productRepo.products[productID].Stock)
}

func TestOrderService_Advance_Monotonic(t *testing.T) {
	svc, orderRepo, _, _ := newOrderFixture()
	orderID := uuid.New()
	orderRepo.orders[orderID] = &model.Order{ID: orderID, UserID: uuid.New(), Status: model.OrderStatusProcessing}

	order, err := svc.Advance(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, order.Status)

	order, err = svc.Advance(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, order.Status)

	// Delivered is terminal; advancing again changes nothing
	order, err = svc.Advance(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, order.Status)
}

func TestOrderService_Advance_UnrecognizedStatusBecomesDelivered(t *testing.T) {
	svc, orderRepo, _, _ := newOrderFixture()
	orderID := uuid.New()
	orderRepo.orders[orderID] = &model.Order{ID: orderID, Status: model.OrderStatus("Pending")}

	order, err := svc.Advance(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, order.Status)
}

func TestOrderService_Advance_NotFound(t *testing.T) {
	svc, _, _, _ := newOrderFixture()
	_, err := svc.Advance(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_Advance_Invalidates(t *testing.T) {
	svc, orderRepo, _, store := newOrderFixture()
	orderID, userID := uuid.New(), uuid.New()
	orderRepo.orders[orderID] = &model.Order{ID: orderID, UserID: userID, Status: model.OrderStatusProcessing}

	store.Set(cache.KeyAllOrders, []byte("stale"))
	store.Set(cache.OrderKey(orderID), []byte("stale"))
	store.Set(cache.MyOrdersKey(userID), []byte("stale"))
	store.Set(cache.KeyLatestProducts, []byte("fresh"))

	_, err := svc.Advance(context.Background(), orderID)
	require.NoError(t, err)

	assert.False(t, store.Has(cache.KeyAllOrders))
	assert.False(t, store.Has(cache.OrderKey(orderID)))
	assert.False(t, store.Has(cache.MyOrdersKey(userID)))
	// product keys are untouched by order-only mutations
	assert.True(t, store.Has(cache.KeyLatestProducts))
}

func TestOrderService_Delete_NotFound(t *testing.T) {
	svc, _, _, _ := newOrderFixture()
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), ErrOrderNotFound)
}

func TestOrderService_GetByID_CachedOnMiss(t *testing.T) {
	svc, orderRepo, _, store := newOrderFixture()
	orderID := uuid.New()
	orderRepo.orders[orderID] = &model.Order{ID: orderID, Status: model.OrderStatusProcessing}

	order, err := svc.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
	assert.True(t, store.Has(cache.OrderKey(orderID)))
}

func TestOrderService_EndToEndScenario(t *testing.T) {
	svc, _, productRepo, store := newOrderFixture()
	userID := uuid.New()
	productID := uuid.New()
	productRepo.products[productID] = &model.Product{ID: productID, Name: "P", Price: 1000, Stock: 10}

	store.Set(cache.ProductKey(productID), []byte("stale"))
	store.Set(cache.KeyAllOrders, []byte("stale"))
	store.Set(cache.MyOrdersKey(userID), []byte("stale"))

	_, err := svc.Create(context.Background(), userID, orderRequestFor(productID, 3, 1000))
	require.NoError(t, err)
	assert.Equal(t, 7, productRepo.products[productID].Stock)
	assert.False(t, store.Has(cache.ProductKey(productID)))
	assert.False(t, store.Has(cache.KeyAllOrders))
	assert.False(t, store.Has(cache.MyOrdersKey(userID)))

	_, err = svc.Create(context.Background(), userID, orderRequestFor(productID, 8, 1000))
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 7, productRepo.products[productID].Stock)
}
