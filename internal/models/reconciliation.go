package models

import (
	"time"

	"github.com/google/uuid"
)

type IssueKind string

const (
	// IssueRedemptionAfterPayment: the order was paid but the discount code
	// could no longer be redeemed because a racing order used the last slot.
	IssueRedemptionAfterPayment IssueKind = "discount_redemption_failed"

	// IssuePaymentAfterCancel: Stripe captured a payment for an order that
	// was already cancelled or refunded. The money has to be returned by hand.
	IssuePaymentAfterCancel IssueKind = "payment_after_cancel"
)

// ReconciliationIssue is an entry in the operator queue.
type ReconciliationIssue struct {
	ID         uuid.UUID  `json:"id"`
	OrderID    uuid.UUID  `json:"order_id"`
	Kind       IssueKind  `json:"kind"`
	Detail     string     `json:"detail"`
	Resolved   bool       `json:"resolved"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
