package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/events"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/telemetry"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type OrderService interface {
	// CreatePendingOrder persists the order and its lines atomically and
	// attaches a payment intent. A reused idempotency key returns the order
	// created by the first attempt.
	CreatePendingOrder(ctx context.Context, cart *models.Cart, pricing *PricingResult, customer *models.CustomerInfo, idempotencyKey string) (*models.CheckoutResponse, error)
	// MarkPaid is idempotent: a second call for a paid order is a no-op.
	MarkPaid(ctx context.Context, orderID uuid.UUID, confirmationID string) (*models.Order, error)
	MarkFailed(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	MarkRefunded(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error)
	GetOrderForCustomer(ctx context.Context, id uuid.UUID, email string) (*models.Order, error)
	ListOrders(ctx context.Context, status models.OrderStatus, page, size int) (*models.OrderListResponse, error)
}

type OrderDeps struct {
	Tx             repository.TxManager
	Orders         repository.OrderRepository
	Discounts      repository.DiscountRepository
	Reconciliation repository.ReconciliationRepository
	Carts          repository.CartRepository
	Stripe         stripe.Client
	Publisher      events.Publisher
	Notifier       NotificationService
}

type orderService struct {
	tx           repository.TxManager
	orderRepo    repository.OrderRepository
	discountRepo repository.DiscountRepository
	reconRepo    repository.ReconciliationRepository
	cartRepo     repository.CartRepository
	stripeClient stripe.Client
	publisher    events.Publisher
	notifier     NotificationService
}

func NewOrderService(deps OrderDeps) OrderService {
	return &orderService{
		tx:           deps.Tx,
		orderRepo:    deps.Orders,
		discountRepo: deps.Discounts,
		reconRepo:    deps.Reconciliation,
		cartRepo:     deps.Carts,
		stripeClient: deps.Stripe,
		publisher:    deps.Publisher,
		notifier:     deps.Notifier,
	}
}

// CreatePendingOrder implements OrderService.
func (s *orderService) CreatePendingOrder(ctx context.Context, cart *models.Cart, pricing *PricingResult, customer *models.CustomerInfo, idempotencyKey string) (*models.CheckoutResponse, error) {

	ctx, span := telemetry.Tracer("order").Start(ctx, "order.create_pending")
	defer span.End()

	logger := middleware.LoggerFromContext(ctx)

	order, err := buildOrder(cart, pricing, customer, idempotencyKey)
	if err != nil {
		logger.Error("Order lines do not match the priced subtotal", "error", err)
		return nil, errors.InternalError("Failed to create order").WithError(err)
	}

	created := true

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if !stdErrors.Is(err, models.ErrIdempotencyConflict) {
			logger.Error("Failed to persist order", "error", err)
			return nil, errors.DatabaseError("Failed to create order").WithError(err)
		}

		existing, err := s.orderRepo.GetByIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			return nil, errors.DatabaseError("Failed to load order").WithError(err)
		}

		if !sameCheckout(existing, order) {
			logger.Warn("Idempotency key reused for a different checkout", "order_id", existing.ID.String())
			return nil, errors.ConflictError("Idempotency key already used for a different checkout").WithError(models.ErrIdempotencyConflict)
		}

		logger.Info("Checkout retried with a used idempotency key", "order_id", existing.ID.String())
		order, created = existing, false
	}

	span.SetAttributes(attribute.String("order.id", order.ID.String()), attribute.Bool("order.created", created))

	if created {
		metrics.RecordOrderCreated()
		s.publish(ctx, events.NewOrderEvent(events.OrderCreated, order))
		logger.Info("Pending order created", "order_id", order.ID.String(), "total", order.Total.Amount)
	}

	if order.Status != models.OrderStatusPending {
		return &models.CheckoutResponse{Order: order}, nil
	}

	secret, err := s.ensurePaymentIntent(ctx, order)
	if err != nil {
		logger.Error("Failed to attach payment intent", "order_id", order.ID.String(), "error", err)
		return nil, err
	}

	return &models.CheckoutResponse{Order: order, ClientSecret: secret}, nil
}

// sameCheckout reports whether a retry carries the session and amounts of the
// order its idempotency key created.
func sameCheckout(existing, retry *models.Order) bool {
	return existing.SessionID == retry.SessionID &&
		existing.AppliedDiscountCode == retry.AppliedDiscountCode &&
		existing.Subtotal.Equal(retry.Subtotal) &&
		existing.Total.Equal(retry.Total)
}

func buildOrder(cart *models.Cart, pricing *PricingResult, customer *models.CustomerInfo, idempotencyKey string) (*models.Order, error) {

	now := time.Now().UTC()
	address := customer.ShippingAddress

	order := &models.Order{
		ID:                  uuid.New(),
		CustomerEmail:       strings.ToLower(strings.TrimSpace(customer.Email)),
		CustomerName:        strings.TrimSpace(customer.FirstName + " " + customer.LastName),
		ShippingAddress:     &address,
		Status:              models.OrderStatusPending,
		Currency:            pricing.Subtotal.Currency,
		Subtotal:            pricing.Subtotal,
		DiscountAmount:      pricing.DiscountAmount,
		ShippingAmount:      pricing.ShippingAmount,
		Total:               pricing.Total,
		AppliedDiscountCode: pricing.DiscountCode,
		IdempotencyKey:      idempotencyKey,
		SessionID:           cart.SessionID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	for _, line := range cart.Lines() {
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Size:      line.Variant.Size,
			Color:     line.Variant.Color,
			CreatedAt: now,
		})
	}

	if lines := order.LinesTotal(); !lines.Equal(order.Subtotal) {
		return nil, fmt.Errorf("%w: lines %s, subtotal %s", models.ErrSubtotalMismatch, lines, order.Subtotal)
	}

	return order, nil
}

// ensurePaymentIntent creates the intent on first use and reuses it on retries.
func (s *orderService) ensurePaymentIntent(ctx context.Context, order *models.Order) (string, error) {

	if order.PaymentIntentID != "" {
		intent, err := s.stripeClient.GetPaymentIntent(ctx, order.PaymentIntentID)
		if err != nil {
			return "", errors.ThirdPartyError("Failed to load payment intent").WithError(err)
		}

		return intent.ClientSecret, nil
	}

	intent, err := s.stripeClient.CreatePaymentIntent(ctx, order.Total.Amount, strings.ToLower(order.Currency), order.ID.String(), order.CustomerEmail)
	if err != nil {
		return "", errors.ThirdPartyError("Failed to create payment intent").WithError(err)
	}

	if err := s.orderRepo.SetPaymentIntent(ctx, order.ID, intent.ID); err != nil {
		return "", errors.DatabaseError("Failed to record payment intent").WithError(err)
	}

	order.PaymentIntentID = intent.ID

	return intent.ClientSecret, nil
}

// MarkPaid implements OrderService.
func (s *orderService) MarkPaid(ctx context.Context, orderID uuid.UUID, confirmationID string) (*models.Order, error) {

	ctx, span := telemetry.Tracer("order").Start(ctx, "order.mark_paid")
	defer span.End()

	logger := middleware.LoggerFromContext(ctx).With(slog.String("order_id", orderID.String()))

	var (
		order       *models.Order
		alreadyPaid bool
		closed      bool
		anomaly     *models.ReconciliationIssue
	)

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx repository.DBTX) error {

		locked, err := s.orderRepo.LockByID(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if locked.Status == models.OrderStatusPaid {
			order, alreadyPaid = locked, true
			return nil
		}

		if isClosed(locked.Status) && confirmationID != "" {
			issue, err := s.recordPaymentAfterClose(ctx, tx, locked, confirmationID)
			if err != nil {
				return err
			}
			order, closed, anomaly = locked, true, issue
			return nil
		}

		if !locked.Status.CanTransitionTo(models.OrderStatusPaid) {
			return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, locked.Status, models.OrderStatusPaid)
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, locked.ID, models.OrderStatusPaid, confirmationID); err != nil {
			return err
		}

		locked.Status = models.OrderStatusPaid
		locked.PaymentConfirmationID = confirmationID

		if locked.AppliedDiscountCode != "" {
			issue, err := s.commitRedemption(ctx, tx, locked)
			if err != nil {
				return err
			}
			anomaly = issue
		}

		order = locked

		return nil
	})
	if err != nil {
		return nil, s.transitionError(ctx, logger, models.OrderStatusPaid, err)
	}

	if alreadyPaid {
		logger.Info("Order already paid, ignoring duplicate confirmation")
		return order, nil
	}

	if closed {
		s.reportAnomaly(ctx, logger, order, anomaly)
		return nil, errors.ConflictError("Order is closed, payment queued for reconciliation").
			WithError(fmt.Errorf("%w: order is %s", models.ErrPaidAfterCancel, order.Status))
	}

	metrics.RecordOrderTransition(string(models.OrderStatusPaid))
	logger.Info("Order paid", "confirmation_id", confirmationID)

	if anomaly != nil {
		s.reportAnomaly(ctx, logger, order, anomaly)
	}

	if full, err := s.orderRepo.GetByID(ctx, order.ID); err == nil {
		order = full
	} else {
		logger.Warn("Failed to reload paid order", "error", err)
	}

	s.publish(ctx, events.NewOrderEvent(events.OrderPaid, order))

	if order.SessionID != "" {
		if err := s.cartRepo.DeleteCart(ctx, order.SessionID); err != nil {
			logger.Warn("Failed to clear cart after payment", "error", err)
		}
	}

	if err := s.notifier.SendOrderConfirmation(ctx, order); err != nil {
		logger.Warn("Failed to send order confirmation", "error", err)
	}

	return order, nil
}

// commitRedemption consumes one use of the order's code on tx. A code that
// can no longer be redeemed does not fail the payment; it is queued for an
// operator instead.
func (s *orderService) commitRedemption(ctx context.Context, tx repository.DBTX, order *models.Order) (*models.ReconciliationIssue, error) {

	_, err := s.discountRepo.CommitRedemption(ctx, tx, order.AppliedDiscountCode)
	switch {
	case err == nil:
		metrics.RecordDiscountRedemption("committed")
		return nil, nil
	case stdErrors.Is(err, models.ErrUsageLimitReached), stdErrors.Is(err, models.ErrDiscountNotFound):
		metrics.RecordDiscountRedemption(reasonLabel(err))
	default:
		return nil, err
	}

	issue := &models.ReconciliationIssue{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Kind:      models.IssueRedemptionAfterPayment,
		Detail:    fmt.Sprintf("code %s could not be redeemed after payment: %v", order.AppliedDiscountCode, err),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reconRepo.Create(ctx, tx, issue); err != nil {
		return nil, fmt.Errorf("failed to record reconciliation issue: %w", err)
	}

	return issue, nil
}

func isClosed(status models.OrderStatus) bool {
	return status == models.OrderStatusCancelled || status == models.OrderStatusRefunded
}

// recordPaymentAfterClose queues a capture that arrived for a cancelled or
// refunded order. The order status is left untouched.
func (s *orderService) recordPaymentAfterClose(ctx context.Context, tx repository.DBTX, order *models.Order, confirmationID string) (*models.ReconciliationIssue, error) {

	issue := &models.ReconciliationIssue{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Kind:      models.IssuePaymentAfterCancel,
		Detail:    fmt.Sprintf("payment %s (intent %s) captured while order was %s", confirmationID, order.PaymentIntentID, order.Status),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reconRepo.Create(ctx, tx, issue); err != nil {
		return nil, fmt.Errorf("failed to record reconciliation issue: %w", err)
	}

	return issue, nil
}

func (s *orderService) reportAnomaly(ctx context.Context, logger *slog.Logger, order *models.Order, issue *models.ReconciliationIssue) {

	alertType, message := events.RedemptionFailed, "Discount redemption failed after payment"
	if issue.Kind == models.IssuePaymentAfterCancel {
		alertType, message = events.PaymentAfterCancel, "Payment captured for a closed order"
	}

	logger.Error(message,
		"status", string(order.Status),
		"discount_code", order.AppliedDiscountCode,
		"issue_id", issue.ID.String(),
		"detail", issue.Detail,
	)
	metrics.RecordReconciliationAnomaly(string(issue.Kind))

	alert := events.NewOrderEvent(alertType, order)
	alert.Detail = issue.Detail

	if err := s.publisher.PublishOperatorAlert(ctx, alert); err != nil {
		logger.Error("Failed to publish operator alert", "error", err)
	}
}

// MarkFailed implements OrderService.
func (s *orderService) MarkFailed(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, orderID, models.OrderStatusCancelled, events.OrderCancelled)
}

// Cancel implements OrderService.
func (s *orderService) Cancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, orderID, models.OrderStatusCancelled, events.OrderCancelled)
}

// MarkRefunded implements OrderService.
func (s *orderService) MarkRefunded(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, orderID, models.OrderStatusRefunded, events.OrderRefunded)
}

// transition moves the order to target; an order already in target is a no-op.
func (s *orderService) transition(ctx context.Context, orderID uuid.UUID, target models.OrderStatus, eventType events.EventType) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx).With(slog.String("order_id", orderID.String()))

	var (
		order   *models.Order
		changed bool
	)

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx repository.DBTX) error {

		locked, err := s.orderRepo.LockByID(ctx, tx, orderID)
		if err != nil {
			return err
		}

		order = locked

		if locked.Status == target {
			return nil
		}

		if !locked.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, locked.Status, target)
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, locked.ID, target, ""); err != nil {
			return err
		}

		locked.Status = target
		changed = true

		return nil
	})
	if err != nil {
		return nil, s.transitionError(ctx, logger, target, err)
	}

	if !changed {
		logger.Info("Order already in target status", "status", string(target))
		return order, nil
	}

	metrics.RecordOrderTransition(string(target))
	logger.Info("Order status updated", "status", string(target))

	if target == models.OrderStatusCancelled && order.PaymentIntentID != "" {
		s.releaseIntent(ctx, logger, order)
	}

	s.publish(ctx, events.NewOrderEvent(eventType, order))

	return order, nil
}

// releaseIntent cancels the order's payment intent so a cancelled checkout
// cannot be paid later. A capture that still slips through is caught by MarkPaid.
func (s *orderService) releaseIntent(ctx context.Context, logger *slog.Logger, order *models.Order) {

	_, err := s.stripeClient.CancelPaymentIntent(ctx, order.PaymentIntentID)
	switch {
	case err == nil:
		logger.Info("Payment intent cancelled", "payment_intent_id", order.PaymentIntentID)
	case stripe.IsIntentClosed(err):
		logger.Info("Payment intent already closed", "payment_intent_id", order.PaymentIntentID)
	default:
		logger.Warn("Failed to cancel payment intent", "payment_intent_id", order.PaymentIntentID, "error", err)
	}
}

func (s *orderService) transitionError(ctx context.Context, logger *slog.Logger, target models.OrderStatus, err error) error {

	switch {
	case stdErrors.Is(err, models.ErrOrderNotFound):
		logger.Warn("Order not found for status change", "status", string(target))
		return errors.NotFoundError("Order not found").WithError(err)
	case stdErrors.Is(err, models.ErrInvalidTransition):
		logger.Warn("Rejected order status change", "status", string(target), "error", err)
		return errors.ConflictError("Order cannot move to " + string(target)).WithError(err)
	}

	logger.Error("Order status change failed", "status", string(target), "error", err)
	metrics.RecordTransitionFailure(string(target))

	return errors.DatabaseError("Failed to update order status").WithError(err)
}

// GetOrderByID implements OrderService.
func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, orderLookupError(err)
	}

	return order, nil
}

// GetOrderByPaymentIntent implements OrderService.
func (s *orderService) GetOrderByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error) {

	order, err := s.orderRepo.GetByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		return nil, orderLookupError(err)
	}

	return order, nil
}

// GetOrderForCustomer implements OrderService. A mismatched email reads as
// not found so order ids cannot be probed.
func (s *orderService) GetOrderForCustomer(ctx context.Context, id uuid.UUID, email string) (*models.Order, error) {

	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(order.CustomerEmail, strings.TrimSpace(email)) {
		return nil, errors.NotFoundError("Order not found").WithError(models.ErrOrderNotFound)
	}

	return order, nil
}

// ListOrders implements OrderService.
func (s *orderService) ListOrders(ctx context.Context, status models.OrderStatus, page, size int) (*models.OrderListResponse, error) {

	orders, total, err := s.orderRepo.List(ctx, status, page, size)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return &models.OrderListResponse{Orders: orders, Total: total, Page: page, Size: size}, nil
}

func orderLookupError(err error) error {
	if stdErrors.Is(err, models.ErrOrderNotFound) {
		return errors.NotFoundError("Order not found").WithError(err)
	}

	return errors.DatabaseError("Failed to fetch order").WithError(err)
}

func (s *orderService) publish(ctx context.Context, event events.OrderEvent) {
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to publish order event",
			"event_type", string(event.Type), "order_id", event.OrderID.String(), "error", err)
	}
}
