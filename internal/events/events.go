package events

import (
	"context"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/money"
	"github.com/google/uuid"
)

type EventType string

const (
	OrderCreated   EventType = "order.created"
	OrderPaid      EventType = "order.paid"
	OrderCancelled EventType = "order.cancelled"
	OrderRefunded  EventType = "order.refunded"

	// Operator alert topic.
	RedemptionFailed   EventType = "discount.redemption_failed"
	PaymentAfterCancel EventType = "order.payment_after_cancel"
)

type OrderEvent struct {
	Type         EventType          `json:"type"`
	OrderID      uuid.UUID          `json:"order_id"`
	Status       models.OrderStatus `json:"status"`
	Total        money.Money        `json:"total"`
	DiscountCode string             `json:"discount_code,omitempty"`
	Detail       string             `json:"detail,omitempty"`
	OccurredAt   time.Time          `json:"occurred_at"`
}

func NewOrderEvent(eventType EventType, order *models.Order) OrderEvent {
	return OrderEvent{
		Type:         eventType,
		OrderID:      order.ID,
		Status:       order.Status,
		Total:        order.Total,
		DiscountCode: order.AppliedDiscountCode,
		OccurredAt:   time.Now().UTC(),
	}
}

// Publisher emits order lifecycle events and operator alerts. Delivery is
// best effort; callers log failures and carry on.
type Publisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
	PublishOperatorAlert(ctx context.Context, event OrderEvent) error
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher is used when no brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishOrderEvent(context.Context, OrderEvent) error    { return nil }
func (noopPublisher) PublishOperatorAlert(context.Context, OrderEvent) error { return nil }
func (noopPublisher) Close() error                                           { return nil }
