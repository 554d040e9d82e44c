package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	serviceMocks "github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	stripeMocks "github.com/aaravmahajanofficial/storefront/pkg/stripe/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	stripeAPI "github.com/stripe/stripe-go/v81"
)

func webhookEvent(eventType string, object string) stripeAPI.Event {
	return stripeAPI.Event{
		ID:   "evt_123",
		Type: stripeAPI.EventType(eventType),
		Data: &stripeAPI.EventData{Raw: json.RawMessage(object)},
	}
}

func intentJSON(orderID string, amount int64, status string) string {
	return fmt.Sprintf(`{"id":"pi_123","object":"payment_intent","amount":%d,"currency":"usd","status":%q,"latest_charge":"ch_789","metadata":{"order_id":%q}}`,
		amount, status, orderID)
}

func TestProcessWebhook(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{}`)

	setup := func(t *testing.T) (*serviceMocks.OrderService, *stripeMocks.Client, service.PaymentService) {
		orders := serviceMocks.NewOrderService(t)
		client := stripeMocks.NewClient(t)
		return orders, client, service.NewPaymentService(orders, client)
	}

	t.Run("Success - Payment Succeeded Marks Order Paid", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := pendingOrder("SAVE10")
		event := webhookEvent("payment_intent.succeeded", intentJSON(order.ID.String(), 9000, "succeeded"))

		client.On("VerifyWebhookSignature", payload, "t=1,v1=abc").Return(event, nil).Once()
		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()
		orders.On("MarkPaid", ctx, order.ID, "ch_789").Return(withStatus(order, models.OrderStatusPaid), nil).Once()

		// Act
		result, err := svc.ProcessWebhook(ctx, payload, "t=1,v1=abc")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "evt_123", result.ID)
	})

	t.Run("Success - Replayed Event Is Safe", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := pendingOrder("SAVE10")
		event := webhookEvent("payment_intent.succeeded", intentJSON(order.ID.String(), 9000, "succeeded"))

		client.On("VerifyWebhookSignature", payload, "sig").Return(event, nil).Twice()
		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Twice()
		orders.On("MarkPaid", ctx, order.ID, "ch_789").Return(withStatus(order, models.OrderStatusPaid), nil).Twice()

		// Act
		_, firstErr := svc.ProcessWebhook(ctx, payload, "sig")
		_, secondErr := svc.ProcessWebhook(ctx, payload, "sig")

		// Assert
		require.NoError(t, firstErr)
		require.NoError(t, secondErr)
	})

	t.Run("Success - Falls Back To Payment Intent Lookup", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := pendingOrder("")
		event := webhookEvent("payment_intent.payment_failed", intentJSON("", 9000, "requires_payment_method"))

		client.On("VerifyWebhookSignature", payload, "sig").Return(event, nil).Once()
		orders.On("GetOrderByPaymentIntent", ctx, "pi_123").Return(order, nil).Once()
		orders.On("MarkFailed", ctx, order.ID).Return(withStatus(order, models.OrderStatusCancelled), nil).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, "sig")

		// Assert
		require.NoError(t, err)
	})

	t.Run("Success - Full Refund Marks Order Refunded", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := withStatus(pendingOrder(""), models.OrderStatusPaid)
		charge := fmt.Sprintf(`{"id":"ch_789","object":"charge","payment_intent":"pi_123","refunded":true,"amount_refunded":9000,"metadata":{"order_id":%q}}`, order.ID)

		client.On("VerifyWebhookSignature", payload, "sig").Return(webhookEvent("charge.refunded", charge), nil).Once()
		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()
		orders.On("MarkRefunded", ctx, order.ID).Return(withStatus(order, models.OrderStatusRefunded), nil).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, "sig")

		// Assert
		require.NoError(t, err)
	})

	t.Run("Success - Partial Refund Leaves Order Paid", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := withStatus(pendingOrder(""), models.OrderStatusPaid)
		charge := `{"id":"ch_789","object":"charge","payment_intent":"pi_123","refunded":false,"amount_refunded":100}`

		client.On("VerifyWebhookSignature", payload, "sig").Return(webhookEvent("charge.refunded", charge), nil).Once()
		orders.On("GetOrderByPaymentIntent", ctx, "pi_123").Return(order, nil).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, "sig")

		// Assert
		require.NoError(t, err)
		orders.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything)
	})

	t.Run("Success - Unknown Order Is Acknowledged", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		event := webhookEvent("payment_intent.succeeded", intentJSON("", 9000, "succeeded"))
		notFound := appErrors.NotFoundError("Order not found").WithError(models.ErrOrderNotFound)

		client.On("VerifyWebhookSignature", payload, "sig").Return(event, nil).Once()
		orders.On("GetOrderByPaymentIntent", ctx, "pi_123").Return(nil, notFound).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, "sig")

		// Assert
		require.NoError(t, err)
		orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success - Unhandled Event Type Ignored", func(t *testing.T) {
		// Arrange
		_, client, svc := setup(t)
		client.On("VerifyWebhookSignature", payload, "sig").Return(webhookEvent("customer.created", `{}`), nil).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, "sig")

		// Assert
		require.NoError(t, err)
	})

	t.Run("Failure - Invalid Signature", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		client.On("VerifyWebhookSignature", payload, "bad").Return(stripeAPI.Event{}, errors.New("signature mismatch")).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, "bad")

		// Assert
		assertAppError(t, err, appErrors.ErrCodeBadRequest, nil)
		orders.AssertNotCalled(t, "GetOrderByID", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Amount Mismatch", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := pendingOrder("SAVE10")
		event := webhookEvent("payment_intent.succeeded", intentJSON(order.ID.String(), 100, "succeeded"))

		client.On("VerifyWebhookSignature", payload, "sig").Return(event, nil).Once()
		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, "sig")

		// Assert
		assertAppError(t, err, appErrors.ErrCodeConflict, models.ErrPaymentMismatch)
		orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Store Error Is Returned For Retry", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := pendingOrder("SAVE10")
		event := webhookEvent("payment_intent.succeeded", intentJSON(order.ID.String(), 9000, "succeeded"))
		dbErr := appErrors.DatabaseError("Failed to update order status")

		client.On("VerifyWebhookSignature", payload, "sig").Return(event, nil).Once()
		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()
		orders.On("MarkPaid", ctx, order.ID, "ch_789").Return(nil, dbErr).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, "sig")

		// Assert
		assertAppError(t, err, appErrors.ErrCodeDatabaseError, nil)
	})

	t.Run("Success - Capture On Cancelled Order Is Acknowledged Once Queued", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := withStatus(pendingOrder(""), models.OrderStatusCancelled)
		event := webhookEvent("payment_intent.succeeded", intentJSON(order.ID.String(), 9000, "succeeded"))
		queued := appErrors.ConflictError("Order is closed, payment queued for reconciliation").WithError(models.ErrPaidAfterCancel)

		client.On("VerifyWebhookSignature", payload, "sig").Return(event, nil).Once()
		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()
		orders.On("MarkPaid", ctx, order.ID, "ch_789").Return(nil, queued).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, "sig")

		// Assert
		require.NoError(t, err)
	})
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*serviceMocks.OrderService, *stripeMocks.Client, service.PaymentService) {
		orders := serviceMocks.NewOrderService(t)
		client := stripeMocks.NewClient(t)
		return orders, client, service.NewPaymentService(orders, client)
	}

	intent := func(orderID string, amount int64, status stripeAPI.PaymentIntentStatus) *stripeAPI.PaymentIntent {
		return &stripeAPI.PaymentIntent{
			ID:       "pi_123",
			Amount:   amount,
			Status:   status,
			Metadata: map[string]string{"order_id": orderID},
		}
	}

	t.Run("Success - Verified Intent Marks Paid", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := pendingOrder("SAVE10")

		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()
		client.On("GetPaymentIntent", ctx, "pi_123").Return(intent(order.ID.String(), 9000, stripeAPI.PaymentIntentStatusSucceeded), nil).Once()
		orders.On("MarkPaid", ctx, order.ID, "pi_123").Return(withStatus(order, models.OrderStatusPaid), nil).Once()

		// Act
		paid, err := svc.ConfirmPayment(ctx, order.ID, "pi_123")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPaid, paid.Status)
	})

	t.Run("Failure - Intent Not Succeeded", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := pendingOrder("")

		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()
		client.On("GetPaymentIntent", ctx, "pi_123").Return(intent(order.ID.String(), 9000, stripeAPI.PaymentIntentStatusProcessing), nil).Once()

		// Act
		_, err := svc.ConfirmPayment(ctx, order.ID, "pi_123")

		// Assert
		assertAppError(t, err, appErrors.ErrCodeUnprocessable, models.ErrPaymentIncomplete)
	})

	t.Run("Failure - Intent For Another Order", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := pendingOrder("")
		order.PaymentIntentID = "pi_other"
		foreign := intent("3f1c6d1e-0000-4000-8000-000000000000", 9000, stripeAPI.PaymentIntentStatusSucceeded)

		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()
		client.On("GetPaymentIntent", ctx, "pi_123").Return(foreign, nil).Once()

		// Act
		_, err := svc.ConfirmPayment(ctx, order.ID, "pi_123")

		// Assert
		assertAppError(t, err, appErrors.ErrCodeBadRequest, models.ErrPaymentMismatch)
	})

	t.Run("Failure - Stripe Unavailable", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := pendingOrder("")

		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()
		client.On("GetPaymentIntent", ctx, "pi_123").Return(nil, errors.New("stripe: 500")).Once()

		// Act
		_, err := svc.ConfirmPayment(ctx, order.ID, "pi_123")

		// Assert
		assertAppError(t, err, appErrors.ErrCodeThirdPartyError, nil)
	})
}

func TestRefund(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*serviceMocks.OrderService, *stripeMocks.Client, service.PaymentService) {
		orders := serviceMocks.NewOrderService(t)
		client := stripeMocks.NewClient(t)
		return orders, client, service.NewPaymentService(orders, client)
	}

	t.Run("Success - Refunds Paid Order", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := withStatus(pendingOrder(""), models.OrderStatusPaid)

		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()
		client.On("RefundPayment", ctx, "pi_123", int64(9000)).Return(&stripeAPI.Refund{ID: "re_1"}, nil).Once()
		orders.On("MarkRefunded", ctx, order.ID).Return(withStatus(order, models.OrderStatusRefunded), nil).Once()

		// Act
		refunded, err := svc.Refund(ctx, order.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusRefunded, refunded.Status)
	})

	t.Run("Success - Already Refunded", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := withStatus(pendingOrder(""), models.OrderStatusRefunded)
		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()

		// Act
		refunded, err := svc.Refund(ctx, order.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, order, refunded)
		client.AssertNotCalled(t, "RefundPayment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Pending Order", func(t *testing.T) {
		// Arrange
		orders, _, svc := setup(t)
		order := pendingOrder("")
		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()

		// Act
		_, err := svc.Refund(ctx, order.ID)

		// Assert
		assertAppError(t, err, appErrors.ErrCodeConflict, models.ErrInvalidTransition)
	})

	t.Run("Failure - Stripe Refund Rejected", func(t *testing.T) {
		// Arrange
		orders, client, svc := setup(t)
		order := withStatus(pendingOrder(""), models.OrderStatusPaid)

		orders.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()
		client.On("RefundPayment", ctx, "pi_123", int64(9000)).Return(nil, errors.New("charge already refunded")).Once()

		// Act
		_, err := svc.Refund(ctx, order.ID)

		// Assert
		assertAppError(t, err, appErrors.ErrCodeThirdPartyError, nil)
		orders.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything)
	})
}
