package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oskarn/go-storefront/internal/cache"
	"github.com/oskarn/go-storefront/internal/dto"
	"github.com/oskarn/go-storefront/internal/model"
	"github.com/oskarn/go-storefront/internal/repository"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptyOrder      = errors.New("order has no items")
	ErrInvalidTotals   = errors.New("order totals do not add up")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	ledger      *StockLedger
	cache       *cache.Store
	amqpCh      *amqp.Channel
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	ledger *StockLedger,
	store *cache.Store,
	amqpCh *amqp.Channel,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		ledger:      ledger,
		cache:       store,
		amqpCh:      amqpCh,
	}
}

// Create runs the checkout commit step: validate the request, reduce stock,
// persist the order with line-item snapshots, invalidate, publish. Stock is
// reduced before the order row is written, so a failed decrement aborts
// creation and no order is ever reported for partially reserved items.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req dto.NewOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	total := req.Subtotal + req.Tax + req.ShippingCharges - req.Discount
	if total < 0 {
		total = 0
	}
	if req.Total != total {
		return nil, ErrInvalidTotals
	}

	var items []model.OrderItem
	productIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		product, err := s.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if product == nil {
			// the ledger reports missing products the same as short stock
			return nil, fmt.Errorf("product %s: %w", it.ProductID, ErrOutOfStock)
		}
		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  it.Quantity,
			Price:     product.Price,
		})
		productIDs = append(productIDs, product.ID)
	}

	if err := s.ledger.Reduce(ctx, items); err != nil {
		return nil, err
	}

	order := &model.Order{
		UserID: userID,
		Status: model.OrderStatusProcessing,
		ShippingInfo: model.ShippingInfo{
			Address: req.ShippingInfo.Address,
			City:    req.ShippingInfo.City,
			State:   req.ShippingInfo.State,
			Country: req.ShippingInfo.Country,
			PinCode: req.ShippingInfo.PinCode,
		},
		Subtotal:        req.Subtotal,
		Tax:             req.Tax,
		ShippingCharges: req.ShippingCharges,
		Discount:        req.Discount,
		Total:           total,
		Items:           items,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.cache.Invalidate(cache.Invalidation{
		Product:    true,
		Order:      true,
		Admin:      true,
		UserID:     userID,
		ProductIDs: productIDs,
	})

	s.publish(ctx, order)
	return order, nil
}

func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	key := cache.OrderKey(orderID)
	if cached, ok := s.cache.Get(key); ok {
		order := &model.Order{}
		if json.Unmarshal(cached, order) == nil {
			return order, nil
		}
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	s.fill(key, order)
	return order, nil
}

func (s *OrderService) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	key := cache.MyOrdersKey(userID)
	if cached, ok := s.cache.Get(key); ok {
		var orders []model.Order
		if json.Unmarshal(cached, &orders) == nil {
			return orders, nil
		}
	}

	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	s.fill(key, orders)
	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]model.Order, error) {
	if cached, ok := s.cache.Get(cache.KeyAllOrders); ok {
		var orders []model.Order
		if json.Unmarshal(cached, &orders) == nil {
			return orders, nil
		}
	}

	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}

	s.fill(cache.KeyAllOrders, orders)
	return orders, nil
}

// Advance moves the order one step along Processing → Shipped → Delivered.
// Delivered is terminal: advancing a delivered order re-targets Delivered,
// which persists the same value and changes nothing. Status never regresses.
func (s *OrderService) Advance(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	switch order.Status {
	case model.OrderStatusProcessing:
		order.Status = model.OrderStatusShipped
	default:
		order.Status = model.OrderStatusDelivered
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, order.Status); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	s.cache.Invalidate(cache.Invalidation{
		Order:   true,
		Admin:   true,
		OrderID: orderID,
		UserID:  order.UserID,
	})

	s.publish(ctx, order)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	s.cache.Invalidate(cache.Invalidation{
		Order:   true,
		Admin:   true,
		OrderID: orderID,
		UserID:  order.UserID,
	})
	return nil
}

// publish is best-effort: the confirmation worker is a convenience, never a
// reason to fail the request.
func (s *OrderService) publish(ctx context.Context, order *model.Order) {
	if s.amqpCh == nil {
		return
	}
	msg, _ := json.Marshal(model.OrderMessage{
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  string(order.Status),
	})
	_ = s.amqpCh.PublishWithContext(ctx, "", "orders", false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         msg,
		DeliveryMode: amqp.Persistent,
	})
}

func (s *OrderService) fill(key string, v any) {
	if data, err := json.Marshal(v); err == nil {
		s.cache.Set(key, data)
	}
}
