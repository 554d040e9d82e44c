package models

import (
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/money"
	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusRefunded},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

type Address struct {
	Street     string `json:"street" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state,omitempty" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,iso3166_1_alpha2"`
	Phone      string `json:"phone,omitempty" validate:"max=32"`
}

type CustomerInfo struct {
	Email           string  `json:"email" validate:"required,email"`
	FirstName       string  `json:"first_name" validate:"required,max=100"`
	LastName        string  `json:"last_name" validate:"required,max=100"`
	ShippingAddress Address `json:"shipping_address" validate:"required"`
}

// OrderItem is a frozen price/quantity snapshot; it is never repriced.
type OrderItem struct {
	ID        uuid.UUID   `json:"id"`
	OrderID   uuid.UUID   `json:"order_id"`
	ProductID int64       `json:"product_id"`
	Name      string      `json:"name,omitempty"`
	Quantity  int         `json:"quantity"`
	UnitPrice money.Money `json:"unit_price"`
	Size      string      `json:"size,omitempty"`
	Color     string      `json:"color,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func (i OrderItem) Total() money.Money {
	return i.UnitPrice.Multiply(int64(i.Quantity))
}

type Order struct {
	ID                    uuid.UUID   `json:"id"`
	CustomerEmail         string      `json:"customer_email"`
	CustomerName          string      `json:"customer_name"`
	ShippingAddress       *Address    `json:"shipping_address"`
	Status                OrderStatus `json:"status"`
	Currency              string      `json:"currency"`
	Subtotal              money.Money `json:"subtotal"`
	DiscountAmount        money.Money `json:"discount_amount"`
	ShippingAmount        money.Money `json:"shipping_amount"`
	Total                 money.Money `json:"total"`
	AppliedDiscountCode   string      `json:"applied_discount_code,omitempty"`
	PaymentIntentID       string      `json:"payment_intent_id,omitempty"`
	PaymentConfirmationID string      `json:"payment_confirmation_id,omitempty"`
	IdempotencyKey        string      `json:"-"`
	SessionID             string      `json:"-"`
	Items                 []OrderItem `json:"items"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// LinesTotal sums the frozen lines; it must equal Subtotal.
func (o *Order) LinesTotal() money.Money {

	total := money.Zero(o.Currency)
	for _, item := range o.Items {
		total = money.New(total.Amount+item.Total().Amount, o.Currency)
	}

	return total
}

type CheckoutRequest struct {
	Customer     CustomerInfo `json:"customer" validate:"required"`
	DiscountCode string       `json:"discount_code,omitempty" validate:"omitempty,max=64"`
}

type CheckoutResponse struct {
	Order        *Order `json:"order"`
	ClientSecret string `json:"client_secret,omitempty"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required,startswith=pi_"`
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Size   int     `json:"size"`
}
