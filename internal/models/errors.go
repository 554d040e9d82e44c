package models

import "errors"

// Business-rule failures. They are expected outcomes and are wrapped into
// AppErrors by the services, so callers match them with errors.Is.
var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrCartNotFound    = errors.New("cart not found")

	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available for purchase")
	ErrVariantUnavailable = errors.New("product variant not offered")

	ErrDiscountNotFound    = errors.New("discount code not found")
	ErrDiscountInactive    = errors.New("discount code inactive")
	ErrDiscountExpired     = errors.New("discount code expired")
	ErrUsageLimitReached   = errors.New("discount usage limit reached")
	ErrNotApplicableToCart = errors.New("discount not applicable to cart")
	ErrDuplicateDiscount   = errors.New("discount code already exists")

	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrSubtotalMismatch    = errors.New("order lines do not add up to subtotal")
	ErrNegativeTotal       = errors.New("order total would be negative")
	ErrIdempotencyConflict = errors.New("idempotency key already used")
	ErrPaymentMismatch     = errors.New("payment intent does not belong to order")
	ErrPaymentIncomplete   = errors.New("payment has not succeeded")
	ErrPaidAfterCancel     = errors.New("payment captured for a closed order")

	ErrIssueNotFound = errors.New("reconciliation issue not found")
)
