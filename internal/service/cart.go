package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/oskarn/go-storefront/internal/dto"
	"github.com/oskarn/go-storefront/internal/model"
	"github.com/oskarn/go-storefront/internal/repository"
)

// CartService keeps the client's working cart server-side. The client always
// sends the whole cart with its computed totals; the service checks the
// totals identity and that every referenced product exists before saving.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return &model.Cart{UserID: userID}, nil
	}
	return cart, nil
}

func (s *CartService) Update(ctx context.Context, userID uuid.UUID, req dto.UpdateCartRequest) (*model.Cart, error) {
	total := req.Subtotal + req.Tax + req.ShippingCharges - req.Discount
	if total < 0 {
		total = 0
	}
	if req.Total != total {
		return nil, ErrInvalidTotals
	}

	var items []model.CartItem
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		product, err := s.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		items = append(items, model.CartItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	cart := &model.Cart{
		UserID:          userID,
		Subtotal:        req.Subtotal,
		Tax:             req.Tax,
		ShippingCharges: req.ShippingCharges,
		Discount:        req.Discount,
		Total:           total,
		Items:           items,
	}
	if err := s.cartRepo.Replace(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
