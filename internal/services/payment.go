package service

import (
	"context"
	"encoding/json"
	stdErrors "errors"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
	"github.com/google/uuid"
	stripeAPI "github.com/stripe/stripe-go/v81"
)

type PaymentService interface {
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error)
	// ConfirmPayment handles a client-confirmed redirect by checking the
	// intent with Stripe before marking the order paid.
	ConfirmPayment(ctx context.Context, orderID uuid.UUID, paymentIntentID string) (*models.Order, error)
	Refund(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

type paymentService struct {
	orders       OrderService
	stripeClient stripe.Client
}

func NewPaymentService(orders OrderService, stripeClient stripe.Client) PaymentService {
	return &paymentService{orders: orders, stripeClient: stripeClient}
}

// ProcessWebhook implements PaymentService.
func (s *paymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error) {

	logger := middleware.LoggerFromContext(ctx)

	event, err := s.stripeClient.VerifyWebhookSignature(payload, signature)
	if err != nil {
		metrics.RecordWebhookEvent("unknown", "rejected")
		return stripe.Event{}, errors.BadRequestError("Webhook signature verification failed").WithError(err)
	}

	eventType := string(event.Type)
	logger = logger.With("stripe_event_id", event.ID, "stripe_event_type", eventType)

	switch eventType {
	case stripe.EventPaymentSucceeded, stripe.EventPaymentFailed, stripe.EventPaymentCanceled:
		var intent stripeAPI.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return event, errors.BadRequestError("Malformed payment intent in webhook").WithError(err)
		}

		order, err := s.resolveOrder(ctx, intent.Metadata[stripe.MetadataOrderID], intent.ID)
		if err != nil {
			return event, s.unresolved(ctx, eventType, err)
		}

		if eventType == stripe.EventPaymentSucceeded {
			if intent.Amount != order.Total.Amount {
				logger.Error("Payment amount does not match order total",
					"order_id", order.ID.String(), "paid", intent.Amount, "total", order.Total.Amount)
				metrics.RecordWebhookEvent(eventType, "mismatch")
				return event, errors.ConflictError("Payment amount does not match order").WithError(models.ErrPaymentMismatch)
			}

			_, err = s.orders.MarkPaid(ctx, order.ID, confirmationID(&intent))
		} else {
			_, err = s.orders.MarkFailed(ctx, order.ID)
		}

		if stdErrors.Is(err, models.ErrPaidAfterCancel) {
			metrics.RecordWebhookEvent(eventType, "reconciliation")
			return event, nil
		}

		if err != nil {
			metrics.RecordWebhookEvent(eventType, "failed")
			return event, err
		}

	case stripe.EventChargeRefunded:
		var charge stripeAPI.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return event, errors.BadRequestError("Malformed charge in webhook").WithError(err)
		}

		intentID := ""
		if charge.PaymentIntent != nil {
			intentID = charge.PaymentIntent.ID
		}

		order, err := s.resolveOrder(ctx, charge.Metadata[stripe.MetadataOrderID], intentID)
		if err != nil {
			return event, s.unresolved(ctx, eventType, err)
		}

		if !charge.Refunded {
			logger.Info("Partial refund recorded by Stripe, order left as paid", "order_id", order.ID.String())
			metrics.RecordWebhookEvent(eventType, "ignored")
			return event, nil
		}

		if _, err := s.orders.MarkRefunded(ctx, order.ID); err != nil {
			metrics.RecordWebhookEvent(eventType, "failed")
			return event, err
		}

	default:
		logger.Info("Ignoring unhandled webhook event")
		metrics.RecordWebhookEvent(eventType, "ignored")
		return event, nil
	}

	metrics.RecordWebhookEvent(eventType, "processed")

	return event, nil
}

// resolveOrder prefers the order id carried in metadata and falls back to
// the stored payment intent id.
func (s *paymentService) resolveOrder(ctx context.Context, metadataOrderID, paymentIntentID string) (*models.Order, error) {

	if id, err := uuid.Parse(metadataOrderID); err == nil {
		return s.orders.GetOrderByID(ctx, id)
	}

	if paymentIntentID == "" {
		return nil, errors.NotFoundError("Order not found").WithError(models.ErrOrderNotFound)
	}

	return s.orders.GetOrderByPaymentIntent(ctx, paymentIntentID)
}

// unresolved acknowledges events for orders this service does not know, so
// Stripe stops retrying them. Infrastructure failures are returned for retry.
func (s *paymentService) unresolved(ctx context.Context, eventType string, err error) error {

	if stdErrors.Is(err, models.ErrOrderNotFound) {
		middleware.LoggerFromContext(ctx).Warn("Webhook references an unknown order", "error", err)
		metrics.RecordWebhookEvent(eventType, "ignored")
		return nil
	}

	metrics.RecordWebhookEvent(eventType, "failed")

	return err
}

func confirmationID(intent *stripeAPI.PaymentIntent) string {
	if intent.LatestCharge != nil && intent.LatestCharge.ID != "" {
		return intent.LatestCharge.ID
	}

	return intent.ID
}

// ConfirmPayment implements PaymentService.
func (s *paymentService) ConfirmPayment(ctx context.Context, orderID uuid.UUID, paymentIntentID string) (*models.Order, error) {

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	intent, err := s.stripeClient.GetPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to verify payment").WithError(err)
	}

	if intent.Metadata[stripe.MetadataOrderID] != order.ID.String() && intent.ID != order.PaymentIntentID {
		middleware.LoggerFromContext(ctx).Warn("Payment intent does not belong to order",
			"order_id", order.ID.String(), "payment_intent_id", intent.ID)
		return nil, errors.BadRequestError("Payment does not belong to this order").WithError(models.ErrPaymentMismatch)
	}

	if intent.Status != stripeAPI.PaymentIntentStatusSucceeded {
		return nil, errors.UnprocessableError("Payment has not succeeded").
			WithDetail("payment status: " + string(intent.Status)).
			WithError(models.ErrPaymentIncomplete)
	}

	if intent.Amount != order.Total.Amount {
		middleware.LoggerFromContext(ctx).Error("Payment amount does not match order total",
			"order_id", order.ID.String(), "paid", intent.Amount, "total", order.Total.Amount)
		return nil, errors.ConflictError("Payment amount does not match order").WithError(models.ErrPaymentMismatch)
	}

	return s.orders.MarkPaid(ctx, order.ID, confirmationID(intent))
}

// Refund implements PaymentService.
func (s *paymentService) Refund(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case models.OrderStatusRefunded:
		return order, nil
	case models.OrderStatusPaid:
	default:
		return nil, errors.ConflictError("Only paid orders can be refunded").WithError(models.ErrInvalidTransition)
	}

	if order.PaymentIntentID == "" {
		return nil, errors.ConflictError("Order has no payment to refund").WithError(models.ErrPaymentIncomplete)
	}

	if _, err := s.stripeClient.RefundPayment(ctx, order.PaymentIntentID, order.Total.Amount); err != nil {
		middleware.LoggerFromContext(ctx).Error("Stripe refund failed", "order_id", order.ID.String(), "error", err)
		return nil, errors.ThirdPartyError("Failed to refund payment").WithError(err)
	}

	return s.orders.MarkRefunded(ctx, order.ID)
}
