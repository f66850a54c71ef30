package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the coarse lifecycle stage of an order. It is distinct from
// the IsPaid/IsDelivered flags, which record the payment and delivery facts.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the five known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderItem is a single line of an order. Name and Price are snapshots taken
// at order-creation time; later catalog changes must not affect them.
type OrderItem struct {
	ProductID string          `json:"product_id" validate:"required"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity" validate:"required,gte=1"`
	Price     decimal.Decimal `json:"price"` // unit price at the time of order
}

// ShippingAddress is an address snapshot, not a live reference.
type ShippingAddress struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone"`
	FullName   string `json:"full_name" validate:"required"`
}

// PaymentResult is the opaque receipt recorded when an order is marked paid.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// Order represents a customer order, from placement through delivery or
// cancellation.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user_id" gorm:"index;type:varchar(36)"`
	User            *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	OrderItems      []OrderItem     `json:"order_items" gorm:"serializer:json"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"serializer:json"`
	PaymentMethod   string          `json:"payment_method"`

	ItemsPrice    decimal.Decimal `json:"items_price" gorm:"type:decimal(12,2)"`
	ShippingPrice decimal.Decimal `json:"shipping_price" gorm:"type:decimal(12,2)"`
	TaxPrice      decimal.Decimal `json:"tax_price" gorm:"type:decimal(12,2)"`
	TotalPrice    decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2)"`

	IsPaid        bool           `json:"is_paid"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`
	PaymentResult *PaymentResult `json:"payment_result,omitempty" gorm:"serializer:json"`

	IsDelivered bool       `json:"is_delivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	Status OrderStatus `json:"status" gorm:"type:varchar(20)"`

	// Version is checked and incremented on every write so two concurrent
	// updates to the same order cannot silently race.
	Version int `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
