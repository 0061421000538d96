package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	Email     string
	Password  string
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product amounts are held in the smallest currency unit.
type Product struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Price        int64
	Stock        int
	Category     string
	Photos       []string
	Ratings      float64
	NumOfReviews int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
)

type ShippingInfo struct {
	Address string
	City    string
	State   string
	Country string
	PinCode string
}

type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Status          OrderStatus
	ShippingInfo    ShippingInfo
	Subtotal        int64
	Tax             int64
	ShippingCharges int64
	Discount        int64
	Total           int64
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem snapshots name and price at order time; later product edits
// never alter historical orders.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string
	Quantity  int
	Price     int64
}

type Review struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Coupon struct {
	ID     uuid.UUID
	Code   string
	Amount int64
}

type Cart struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Subtotal        int64
	Tax             int64
	ShippingCharges int64
	Discount        int64
	Total           int64
	Items           []CartItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

type OrderMessage struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
	Status  string    `json:"status"`
}
