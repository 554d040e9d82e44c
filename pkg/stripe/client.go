package stripe

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/balance"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/refund"
	"github.com/stripe/stripe-go/v81/webhook"
)

type Event = stripe.Event

// MetadataOrderID links a PaymentIntent back to its order.
const MetadataOrderID = "order_id"

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventPaymentCanceled  = "payment_intent.canceled"
	EventChargeRefunded   = "charge.refunded"
)

// Client is the subset of Stripe the checkout needs: a payable intent and
// the signals that it succeeded, failed or was refunded.
type Client interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency, orderID, receiptEmail string) (*stripe.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.PaymentIntent, error)
	// CancelPaymentIntent closes an unpaid intent so it can no longer be confirmed.
	CancelPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.PaymentIntent, error)
	RefundPayment(ctx context.Context, paymentIntentID string, amount int64) (*stripe.Refund, error)
	VerifyWebhookSignature(payload []byte, signature string) (Event, error)
	// Ping makes the cheapest authenticated call available.
	Ping(ctx context.Context) error
}

type stripeClient struct {
	webhookSecret string
}

func NewStripeClient(apiKey string, webhookSecret string) Client {
	stripe.Key = apiKey

	return &stripeClient{webhookSecret: webhookSecret}
}

// CreatePaymentIntent uses the order id as idempotency key, so retrying a
// checkout never creates a second intent for the same order.
func (s *stripeClient) CreatePaymentIntent(ctx context.Context, amount int64, currency, orderID, receiptEmail string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	if receiptEmail != "" {
		params.ReceiptEmail = stripe.String(receiptEmail)
	}

	params.Context = ctx
	params.SetIdempotencyKey("order-" + orderID)
	params.AddMetadata(MetadataOrderID, orderID)

	return paymentintent.New(params)
}

func (s *stripeClient) GetPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	return paymentintent.Get(paymentIntentID, params)
}

func (s *stripeClient) CancelPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonAbandoned)),
	}

	params.Context = ctx
	params.SetIdempotencyKey("cancel-" + paymentIntentID)

	return paymentintent.Cancel(paymentIntentID, params)
}

// IsIntentClosed reports whether err is Stripe refusing to act on an intent
// that already succeeded or was cancelled.
func IsIntentClosed(err error) bool {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return false
	}

	return stripeErr.Code == stripe.ErrorCodePaymentIntentUnexpectedState
}

func (s *stripeClient) RefundPayment(ctx context.Context, paymentIntentID string, amount int64) (*stripe.Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Amount:        stripe.Int64(amount),
	}

	params.Context = ctx
	params.SetIdempotencyKey("refund-" + paymentIntentID)

	return refund.New(params)
}

func (s *stripeClient) VerifyWebhookSignature(payload []byte, signature string) (Event, error) {
	if s.webhookSecret == "" {
		return Event{}, errors.New("webhook secret not configured")
	}

	return webhook.ConstructEvent(payload, signature, s.webhookSecret)
}

func (s *stripeClient) Ping(ctx context.Context) error {
	params := &stripe.BalanceParams{}
	params.Context = ctx

	_, err := balance.Get(params)
	return err
}
