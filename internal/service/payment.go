package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oskarn/go-storefront/internal/dto"
	"github.com/oskarn/go-storefront/internal/model"
	"github.com/oskarn/go-storefront/internal/repository"
)

var (
	ErrInvalidCoupon = errors.New("invalid coupon code")
	ErrCouponExists  = errors.New("coupon code already exists")
)

// All amounts are in the smallest currency unit.
const (
	taxRate               = 0.18
	freeShippingThreshold = 100000
	shippingCharge        = 20000
)

// PaymentGateway is the only contact point with the payment processor;
// integration details live behind it.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, description string) (clientSecret string, err error)
}

type PaymentService struct {
	couponRepo  repository.CouponRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	gateway     PaymentGateway
}

func NewPaymentService(
	couponRepo repository.CouponRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	gateway PaymentGateway,
) *PaymentService {
	return &PaymentService{couponRepo: couponRepo, productRepo: productRepo, userRepo: userRepo, gateway: gateway}
}

// CreateIntent prices the checkout from current product prices and asks the
// gateway for a payment intent. Tax is 18% of the subtotal, flat shipping is
// waived above the threshold, and the total never goes below zero.
func (s *PaymentService) CreateIntent(ctx context.Context, userID uuid.UUID, req dto.PaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var discount int64
	if req.Coupon != "" {
		coupon, err := s.couponRepo.GetByCode(ctx, req.Coupon)
		if err != nil {
			return nil, fmt.Errorf("get coupon: %w", err)
		}
		if coupon == nil {
			return nil, ErrInvalidCoupon
		}
		discount = coupon.Amount
	}

	var subtotal int64
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
		subtotal += product.Price * int64(it.Quantity)
	}

	// exact tax on integer amounts; floor to stay in whole units
	tax := decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromFloat(taxRate)).
		Floor().
		IntPart()

	var shipping int64
	if subtotal <= freeShippingThreshold {
		shipping = shippingCharge
	}

	total := subtotal + tax + shipping - discount
	if total < 0 {
		total = 0
	}

	secret, err := s.gateway.CreateIntent(ctx, total, "go-storefront order for "+user.Name)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &dto.PaymentIntentResponse{
		ClientSecret:    secret,
		Subtotal:        subtotal,
		Tax:             tax,
		ShippingCharges: shipping,
		Discount:        discount,
		Total:           total,
	}, nil
}

func (s *PaymentService) CreateCoupon(ctx context.Context, code string, amount int64) (*model.Coupon, error) {
	existing, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("check coupon: %w", err)
	}
	if existing != nil {
		return nil, ErrCouponExists
	}

	coupon := &model.Coupon{Code: code, Amount: amount}
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}
	return coupon, nil
}

func (s *PaymentService) GetCoupon(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrInvalidCoupon
	}
	return coupon, nil
}

// UpdateCoupon overwrites code and amount where given; omitted fields keep
// their stored value. A new code must not belong to another coupon.
func (s *PaymentService) UpdateCoupon(ctx context.Context, id uuid.UUID, req dto.UpdateCouponRequest) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrInvalidCoupon
	}

	if req.Code != nil {
		existing, err := s.couponRepo.GetByCode(ctx, *req.Code)
		if err != nil {
			return nil, fmt.Errorf("check coupon: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, ErrCouponExists
		}
		coupon.Code = *req.Code
	}
	if req.Amount != nil {
		coupon.Amount = *req.Amount
	}

	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, fmt.Errorf("update coupon: %w", err)
	}
	return coupon, nil
}

// ApplyDiscount resolves a coupon code to its discount amount.
func (s *PaymentService) ApplyDiscount(ctx context.Context, code string) (int64, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return 0, ErrInvalidCoupon
	}
	return coupon.Amount, nil
}

func (s *PaymentService) ListCoupons(ctx context.Context) ([]model.Coupon, error) {
	return s.couponRepo.ListAll(ctx)
}

func (s *PaymentService) DeleteCoupon(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	coupon, err := s.couponRepo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrInvalidCoupon
	}
	return coupon, nil
}
