package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/oskarn/go-storefront/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
}

// --- Product ---

type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       int64    `json:"price" binding:"required,min=1"`
	Stock       int      `json:"stock" binding:"min=0"`
	Category    string   `json:"category" binding:"required"`
	Photos      []string `json:"photos" binding:"required,min=1,max=5"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *int64   `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	Photos      []string `json:"photos"`
}

type SearchProductsRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Price    int64  `form:"price" binding:"min=0"`
	Sort     string `form:"sort" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	Limit    int    `form:"limit,default=8" binding:"min=1,max=100"`
}

type ProductResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	Stock        int       `json:"stock"`
	Category     string    `json:"category"`
	Photos       []string  `json:"photos"`
	Ratings      float64   `json:"ratings"`
	NumOfReviews int       `json:"num_of_reviews"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ProductListResponse struct {
	Products  []ProductResponse `json:"products"`
	TotalPage int               `json:"total_page"`
	Page      int               `json:"page"`
}

// --- Review ---

type NewReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Order ---

type ShippingInfoRequest struct {
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Country string `json:"country" binding:"required"`
	PinCode string `json:"pin_code" binding:"required"`
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type NewOrderRequest struct {
	ShippingInfo    ShippingInfoRequest `json:"shipping_info" binding:"required"`
	Items           []OrderItemRequest  `json:"items" binding:"required,min=1"`
	Subtotal        int64               `json:"subtotal" binding:"min=0"`
	Tax             int64               `json:"tax" binding:"min=0"`
	ShippingCharges int64               `json:"shipping_charges" binding:"min=0"`
	Discount        int64               `json:"discount" binding:"min=0"`
	Total           int64               `json:"total" binding:"min=0"`
}

type OrderItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	Status          model.OrderStatus   `json:"status"`
	ShippingInfo    ShippingInfoRequest `json:"shipping_info"`
	Subtotal        int64               `json:"subtotal"`
	Tax             int64               `json:"tax"`
	ShippingCharges int64               `json:"shipping_charges"`
	Discount        int64               `json:"discount"`
	Total           int64               `json:"total"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

// --- Cart ---

type CartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type UpdateCartRequest struct {
	Items           []CartItemRequest `json:"items"`
	Subtotal        int64             `json:"subtotal" binding:"min=0"`
	Tax             int64             `json:"tax" binding:"min=0"`
	ShippingCharges int64             `json:"shipping_charges" binding:"min=0"`
	Discount        int64             `json:"discount" binding:"min=0"`
	Total           int64             `json:"total" binding:"min=0"`
}

// --- Coupon / Payment ---

type NewCouponRequest struct {
	Code   string `json:"code" binding:"required"`
	Amount int64  `json:"amount" binding:"required,min=0"`
}

type UpdateCouponRequest struct {
	Code   *string `json:"code"`
	Amount *int64  `json:"amount" binding:"omitempty,min=0"`
}

type ApplyDiscountRequest struct {
	Coupon string `json:"coupon" binding:"required"`
}

type CouponResponse struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Amount int64     `json:"amount"`
}

type PaymentIntentRequest struct {
	Items        []OrderItemRequest  `json:"items" binding:"required,min=1"`
	ShippingInfo ShippingInfoRequest `json:"shipping_info" binding:"required"`
	Coupon       string              `json:"coupon"`
}

type PaymentIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	Subtotal        int64  `json:"subtotal"`
	Tax             int64  `json:"tax"`
	ShippingCharges int64  `json:"shipping_charges"`
	Discount        int64  `json:"discount"`
	Total           int64  `json:"total"`
}

// --- Dashboard ---

type CategoryShare struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

type MonthlyPoint struct {
	Month   string `json:"month"`
	Orders  int    `json:"orders"`
	Revenue int64  `json:"revenue"`
}

type DashboardStatsResponse struct {
	Users      int             `json:"users"`
	Products   int             `json:"products"`
	Orders     int             `json:"orders"`
	Revenue    int64           `json:"revenue"`
	Categories []CategoryShare `json:"categories"`
	Monthly    []MonthlyPoint  `json:"monthly"`
}

type StockAvailability struct {
	InStock    int `json:"in_stock"`
	OutOfStock int `json:"out_of_stock"`
}

type PieChartsResponse struct {
	OrderFulfillment  map[string]int    `json:"order_fulfillment"`
	StockAvailability StockAvailability `json:"stock_availability"`
}

type BarChartsResponse struct {
	Orders []MonthlyPoint `json:"orders"`
}

type LineChartsResponse struct {
	Revenue []MonthlyPoint `json:"revenue"`
}
