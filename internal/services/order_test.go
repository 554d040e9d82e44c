package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/events"
	eventMocks "github.com/aaravmahajanofficial/storefront/internal/events/mocks"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/money"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	serviceMocks "github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	stripeMocks "github.com/aaravmahajanofficial/storefront/pkg/stripe/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	stripeAPI "github.com/stripe/stripe-go/v81"
)

type orderFixture struct {
	tx        *mocks.TxManager
	orders    *mocks.OrderRepository
	discounts *mocks.DiscountRepository
	recon     *mocks.ReconciliationRepository
	carts     *mocks.CartRepository
	stripe    *stripeMocks.Client
	publisher *eventMocks.Publisher
	notifier  *serviceMocks.NotificationService
	service   service.OrderService
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		tx:        mocks.NewTxManager(t),
		orders:    mocks.NewOrderRepository(t),
		discounts: mocks.NewDiscountRepository(t),
		recon:     mocks.NewReconciliationRepository(t),
		carts:     mocks.NewCartRepository(t),
		stripe:    stripeMocks.NewClient(t),
		publisher: eventMocks.NewPublisher(t),
		notifier:  serviceMocks.NewNotificationService(t),
	}

	f.service = service.NewOrderService(service.OrderDeps{
		Tx:             f.tx,
		Orders:         f.orders,
		Discounts:      f.discounts,
		Reconciliation: f.recon,
		Carts:          f.carts,
		Stripe:         f.stripe,
		Publisher:      f.publisher,
		Notifier:       f.notifier,
	})

	return f
}

// runTxInline executes the unit of work directly, standing in for a real transaction.
func (f *orderFixture) runTxInline() {
	f.tx.On("RunInTx", mock.Anything, mock.Anything).Return(
		func(ctx context.Context, fn func(context.Context, repository.DBTX) error) error {
			return fn(ctx, nil)
		})
}

func eventOfType(eventType events.EventType) any {
	return mock.MatchedBy(func(e events.OrderEvent) bool { return e.Type == eventType })
}

func pendingOrder(code string) *models.Order {
	return &models.Order{
		ID:                  uuid.New(),
		CustomerEmail:       "buyer@example.com",
		CustomerName:        "Ada Lovelace",
		Status:              models.OrderStatusPending,
		Currency:            "USD",
		Subtotal:            money.New(10000, "USD"),
		DiscountAmount:      money.New(1000, "USD"),
		ShippingAmount:      money.Zero("USD"),
		Total:               money.New(9000, "USD"),
		AppliedDiscountCode: code,
		PaymentIntentID:     "pi_123",
		SessionID:           sessionID,
	}
}

func withStatus(o *models.Order, status models.OrderStatus) *models.Order {
	clone := *o
	clone.Status = status
	return &clone
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Commits Redemption With Status", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := pendingOrder("SAVE10")

		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, mock.Anything, order.ID, models.OrderStatusPaid, "ch_1").Return(nil).Once()
		f.discounts.On("CommitRedemption", mock.Anything, mock.Anything, "SAVE10").Return(int64(1), nil).Once()
		f.orders.On("GetByID", mock.Anything, order.ID).Return(withStatus(order, models.OrderStatusPaid), nil).Once()
		f.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(events.OrderPaid)).Return(nil).Once()
		f.carts.On("DeleteCart", mock.Anything, sessionID).Return(nil).Once()
		f.notifier.On("SendOrderConfirmation", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil).Once()

		// Act
		paid, err := f.service.MarkPaid(ctx, order.ID, "ch_1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPaid, paid.Status)
		f.recon.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "PublishOperatorAlert", mock.Anything, mock.Anything)
	})

	t.Run("Success - Second Confirmation Is A No-op", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := pendingOrder("SAVE10")

		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, mock.Anything, order.ID, models.OrderStatusPaid, "ch_1").Return(nil).Once()
		f.discounts.On("CommitRedemption", mock.Anything, mock.Anything, "SAVE10").Return(int64(1), nil).Once()
		f.orders.On("GetByID", mock.Anything, order.ID).Return(withStatus(order, models.OrderStatusPaid), nil).Once()
		f.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(events.OrderPaid)).Return(nil).Once()
		f.carts.On("DeleteCart", mock.Anything, sessionID).Return(nil).Once()
		f.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := f.service.MarkPaid(ctx, order.ID, "ch_1")
		require.NoError(t, err)

		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(withStatus(order, models.OrderStatusPaid), nil).Once()

		// Act
		again, err := f.service.MarkPaid(ctx, order.ID, "ch_1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPaid, again.Status)
		f.discounts.AssertNumberOfCalls(t, "CommitRedemption", 1)
		f.orders.AssertNumberOfCalls(t, "UpdateStatus", 1)
		f.publisher.AssertNumberOfCalls(t, "PublishOrderEvent", 1)
		f.notifier.AssertNumberOfCalls(t, "SendOrderConfirmation", 1)
	})

	t.Run("Success - Exhausted Code Goes To Reconciliation", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := pendingOrder("LASTONE")

		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, mock.Anything, order.ID, models.OrderStatusPaid, "ch_2").Return(nil).Once()
		f.discounts.On("CommitRedemption", mock.Anything, mock.Anything, "LASTONE").Return(int64(0), models.ErrUsageLimitReached).Once()
		f.recon.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(issue *models.ReconciliationIssue) bool {
			return issue.OrderID == order.ID && issue.Kind == models.IssueRedemptionAfterPayment
		})).Return(nil).Once()
		f.publisher.On("PublishOperatorAlert", mock.Anything, mock.MatchedBy(func(e events.OrderEvent) bool {
			return e.Type == events.RedemptionFailed && e.OrderID == order.ID && e.Detail != ""
		})).Return(nil).Once()
		f.orders.On("GetByID", mock.Anything, order.ID).Return(withStatus(order, models.OrderStatusPaid), nil).Once()
		f.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(events.OrderPaid)).Return(nil).Once()
		f.carts.On("DeleteCart", mock.Anything, sessionID).Return(nil).Once()
		f.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(nil).Once()

		// Act
		paid, err := f.service.MarkPaid(ctx, order.ID, "ch_2")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPaid, paid.Status)
	})

	t.Run("Success - No Code Skips Redemption", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := pendingOrder("")
		order.SessionID = ""

		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, mock.Anything, order.ID, models.OrderStatusPaid, "pi_123").Return(nil).Once()
		f.orders.On("GetByID", mock.Anything, order.ID).Return(nil, errors.New("replica lag")).Once()
		f.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(events.OrderPaid)).Return(errors.New("broker down")).Once()
		f.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(errors.New("sendgrid down")).Once()

		// Act
		paid, err := f.service.MarkPaid(ctx, order.ID, "pi_123")

		// Assert
		require.NoError(t, err, "side effects after commit must not fail the payment")
		assert.Equal(t, models.OrderStatusPaid, paid.Status)
		f.discounts.AssertNotCalled(t, "CommitRedemption", mock.Anything, mock.Anything, mock.Anything)
		f.carts.AssertNotCalled(t, "DeleteCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Cancelled Order Cannot Be Paid", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := withStatus(pendingOrder("SAVE10"), models.OrderStatusCancelled)
		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()
		f.recon.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*models.ReconciliationIssue")).Return(nil).Once()
		f.publisher.On("PublishOperatorAlert", mock.Anything, mock.Anything).Return(nil).Once()

		// Act
		paid, err := f.service.MarkPaid(ctx, order.ID, "ch_1")

		// Assert
		assert.Nil(t, paid)
		assertAppError(t, err, appErrors.ErrCodeConflict, models.ErrPaidAfterCancel)
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.discounts.AssertNotCalled(t, "CommitRedemption", mock.Anything, mock.Anything, mock.Anything)
	})

	for _, status := range []models.OrderStatus{models.OrderStatusCancelled, models.OrderStatusRefunded} {
		t.Run("Failure - Capture On "+string(status)+" Order Queued For Reconciliation", func(t *testing.T) {
			// Arrange
			f := newOrderFixture(t)
			f.runTxInline()
			order := withStatus(pendingOrder(""), status)

			f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()
			f.recon.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(issue *models.ReconciliationIssue) bool {
				return issue.OrderID == order.ID &&
					issue.Kind == models.IssuePaymentAfterCancel &&
					strings.Contains(issue.Detail, "ch_late") &&
					strings.Contains(issue.Detail, "pi_123")
			})).Return(nil).Once()
			f.publisher.On("PublishOperatorAlert", mock.Anything, mock.MatchedBy(func(e events.OrderEvent) bool {
				return e.Type == events.PaymentAfterCancel && e.OrderID == order.ID && e.Status == status
			})).Return(nil).Once()

			// Act
			paid, err := f.service.MarkPaid(ctx, order.ID, "ch_late")

			// Assert
			assert.Nil(t, paid)
			assertAppError(t, err, appErrors.ErrCodeConflict, models.ErrPaidAfterCancel)
			f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.publisher.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
			f.notifier.AssertNotCalled(t, "SendOrderConfirmation", mock.Anything, mock.Anything)
		})
	}

	t.Run("Failure - Reconciliation Insert Error On Closed Order", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := withStatus(pendingOrder(""), models.OrderStatusCancelled)
		dbErr := errors.New("connection reset")

		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()
		f.recon.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(dbErr).Once()

		// Act
		_, err := f.service.MarkPaid(ctx, order.ID, "ch_late")

		// Assert
		assertAppError(t, err, appErrors.ErrCodeDatabaseError, dbErr)
		f.publisher.AssertNotCalled(t, "PublishOperatorAlert", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Order Not Found", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		id := uuid.New()
		f.orders.On("LockByID", mock.Anything, mock.Anything, id).Return(nil, models.ErrOrderNotFound).Once()

		// Act
		_, err := f.service.MarkPaid(ctx, id, "ch_1")

		// Assert
		assertAppError(t, err, appErrors.ErrCodeNotFound, models.ErrOrderNotFound)
	})

	t.Run("Failure - Redemption Store Error Rolls Back", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := pendingOrder("SAVE10")
		dbErr := errors.New("deadlock detected")

		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, mock.Anything, order.ID, models.OrderStatusPaid, "ch_1").Return(nil).Once()
		f.discounts.On("CommitRedemption", mock.Anything, mock.Anything, "SAVE10").Return(int64(0), dbErr).Once()

		// Act
		paid, err := f.service.MarkPaid(ctx, order.ID, "ch_1")

		// Assert
		assert.Nil(t, paid)
		assertAppError(t, err, appErrors.ErrCodeDatabaseError, dbErr)
		f.publisher.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
		f.notifier.AssertNotCalled(t, "SendOrderConfirmation", mock.Anything, mock.Anything)
	})
}

func TestCancelAndRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Cancel Pending Order", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := pendingOrder("SAVE10")
		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, mock.Anything, order.ID, models.OrderStatusCancelled, "").Return(nil).Once()
		f.stripe.On("CancelPaymentIntent", mock.Anything, "pi_123").Return(&stripeAPI.PaymentIntent{ID: "pi_123", Status: stripeAPI.PaymentIntentStatusCanceled}, nil).Once()
		f.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(events.OrderCancelled)).Return(nil).Once()

		// Act
		cancelled, err := f.service.Cancel(ctx, order.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
		f.discounts.AssertNotCalled(t, "CommitRedemption", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success - Failed Payment Cancels Intent", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := pendingOrder("")
		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, mock.Anything, order.ID, models.OrderStatusCancelled, "").Return(nil).Once()
		f.stripe.On("CancelPaymentIntent", mock.Anything, "pi_123").Return(nil, &stripeAPI.Error{Code: stripeAPI.ErrorCodePaymentIntentUnexpectedState}).Once()
		f.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(events.OrderCancelled)).Return(nil).Once()

		// Act
		result, err := f.service.MarkFailed(ctx, order.ID)

		// Assert
		require.NoError(t, err, "an intent Stripe already closed does not fail the cancel")
		assert.Equal(t, models.OrderStatusCancelled, result.Status)
	})

	t.Run("Success - Stripe Outage Does Not Block Cancel", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := pendingOrder("")
		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, mock.Anything, order.ID, models.OrderStatusCancelled, "").Return(nil).Once()
		f.stripe.On("CancelPaymentIntent", mock.Anything, "pi_123").Return(nil, errors.New("stripe: 503")).Once()
		f.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(events.OrderCancelled)).Return(nil).Once()

		// Act
		result, err := f.service.Cancel(ctx, order.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, result.Status)
	})

	t.Run("Success - Order Without Intent Skips Stripe", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := pendingOrder("")
		order.PaymentIntentID = ""
		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, mock.Anything, order.ID, models.OrderStatusCancelled, "").Return(nil).Once()
		f.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(events.OrderCancelled)).Return(nil).Once()

		// Act
		_, err := f.service.Cancel(ctx, order.ID)

		// Assert
		require.NoError(t, err)
		f.stripe.AssertNotCalled(t, "CancelPaymentIntent", mock.Anything, mock.Anything)
	})

	t.Run("Success - Failed Payment On Cancelled Order Is A No-op", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := withStatus(pendingOrder(""), models.OrderStatusCancelled)
		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()

		// Act
		result, err := f.service.MarkFailed(ctx, order.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, result.Status)
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Paid Order Cannot Be Cancelled", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := withStatus(pendingOrder(""), models.OrderStatusPaid)
		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()

		// Act
		_, err := f.service.Cancel(ctx, order.ID)

		// Assert
		assertAppError(t, err, appErrors.ErrCodeConflict, models.ErrInvalidTransition)
	})

	t.Run("Success - Refund Paid Order", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := withStatus(pendingOrder(""), models.OrderStatusPaid)
		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, mock.Anything, order.ID, models.OrderStatusRefunded, "").Return(nil).Once()
		f.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(events.OrderRefunded)).Return(nil).Once()

		// Act
		refunded, err := f.service.MarkRefunded(ctx, order.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusRefunded, refunded.Status)
	})

	t.Run("Success - Refund Twice Is A No-op", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.runTxInline()
		order := withStatus(pendingOrder(""), models.OrderStatusRefunded)
		f.orders.On("LockByID", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()

		// Act
		refunded, err := f.service.MarkRefunded(ctx, order.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusRefunded, refunded.Status)
	})
}

func TestCreatePendingOrder(t *testing.T) {
	ctx := context.Background()
	customer := &models.CustomerInfo{
		Email:     "Buyer@Example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		ShippingAddress: models.Address{
			Street: "1 Analytical Way", City: "London", PostalCode: "N1 9GU", Country: "GB",
		},
	}

	priced := func(t *testing.T, cart *models.Cart) *service.PricingResult {
		t.Helper()
		decision := &models.DiscountDecision{Code: "SAVE10", DiscountAmount: money.New(1000, "USD")}
		result, err := service.NewPricingService(fixedShipping{}).Price(cart, decision)
		require.NoError(t, err)
		return result
	}

	t.Run("Success - Persists Order And Creates Intent", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		cart := cartWith(t, line(1, 5000, 2))

		f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
			return o.Status == models.OrderStatusPending &&
				len(o.Items) == 1 && o.Items[0].Quantity == 2 &&
				o.Total.Amount == 9000 && o.AppliedDiscountCode == "SAVE10" &&
				o.CustomerEmail == "buyer@example.com" && o.IdempotencyKey == "idem-1" && o.SessionID == sessionID
		})).Return(nil).Once()
		f.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(events.OrderCreated)).Return(nil).Once()
		f.stripe.On("CreatePaymentIntent", mock.Anything, int64(9000), "usd", mock.AnythingOfType("string"), "buyer@example.com").
			Return(&stripeAPI.PaymentIntent{ID: "pi_new", ClientSecret: "pi_new_secret"}, nil).Once()
		f.orders.On("SetPaymentIntent", mock.Anything, mock.AnythingOfType("uuid.UUID"), "pi_new").Return(nil).Once()

		// Act
		resp, err := f.service.CreatePendingOrder(ctx, cart, priced(t, cart), customer, "idem-1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "pi_new_secret", resp.ClientSecret)
		assert.Equal(t, "pi_new", resp.Order.PaymentIntentID)
		assert.Equal(t, "Ada Lovelace", resp.Order.CustomerName)
		assert.Equal(t, resp.Order.Subtotal, resp.Order.LinesTotal())
	})

	t.Run("Success - Retry With Same Key Returns Existing Order", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		cart := cartWith(t, line(1, 5000, 2))
		existing := pendingOrder("SAVE10")

		f.orders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(models.ErrIdempotencyConflict).Once()
		f.orders.On("GetByIdempotencyKey", mock.Anything, "idem-1").Return(existing, nil).Once()
		f.stripe.On("GetPaymentIntent", mock.Anything, "pi_123").Return(&stripeAPI.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil).Once()

		// Act
		resp, err := f.service.CreatePendingOrder(ctx, cart, priced(t, cart), customer, "idem-1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, existing.ID, resp.Order.ID)
		assert.Equal(t, "pi_123_secret", resp.ClientSecret)
		f.publisher.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
		f.stripe.AssertNotCalled(t, "CreatePaymentIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success - Retry After Paid Returns Order Without Secret", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		cart := cartWith(t, line(1, 5000, 2))
		existing := withStatus(pendingOrder("SAVE10"), models.OrderStatusPaid)

		f.orders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(models.ErrIdempotencyConflict).Once()
		f.orders.On("GetByIdempotencyKey", mock.Anything, "idem-1").Return(existing, nil).Once()

		// Act
		resp, err := f.service.CreatePendingOrder(ctx, cart, priced(t, cart), customer, "idem-1")

		// Assert
		require.NoError(t, err)
		assert.Empty(t, resp.ClientSecret)
		assert.Equal(t, models.OrderStatusPaid, resp.Order.Status)
	})

	t.Run("Failure - Key Reused By Another Session", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		cart := cartWith(t, line(1, 5000, 2))
		existing := pendingOrder("SAVE10")
		existing.SessionID = "another-shopper"

		f.orders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(models.ErrIdempotencyConflict).Once()
		f.orders.On("GetByIdempotencyKey", mock.Anything, "idem-1").Return(existing, nil).Once()

		// Act
		resp, err := f.service.CreatePendingOrder(ctx, cart, priced(t, cart), customer, "idem-1")

		// Assert
		assert.Nil(t, resp)
		assertAppError(t, err, appErrors.ErrCodeConflict, models.ErrIdempotencyConflict)
		f.stripe.AssertNotCalled(t, "GetPaymentIntent", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Key Reused With Different Cart", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		cart := cartWith(t, line(1, 5000, 3))
		existing := pendingOrder("SAVE10")

		f.orders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(models.ErrIdempotencyConflict).Once()
		f.orders.On("GetByIdempotencyKey", mock.Anything, "idem-1").Return(existing, nil).Once()

		// Act
		resp, err := f.service.CreatePendingOrder(ctx, cart, priced(t, cart), customer, "idem-1")

		// Assert
		assert.Nil(t, resp)
		assertAppError(t, err, appErrors.ErrCodeConflict, models.ErrIdempotencyConflict)
		f.stripe.AssertNotCalled(t, "GetPaymentIntent", mock.Anything, mock.Anything)
		f.stripe.AssertNotCalled(t, "CreatePaymentIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Insert Rolled Back", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		cart := cartWith(t, line(1, 5000, 2))
		dbErr := errors.New("insert order_items: check constraint")
		f.orders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(dbErr).Once()

		// Act
		resp, err := f.service.CreatePendingOrder(ctx, cart, priced(t, cart), customer, "idem-1")

		// Assert
		assert.Nil(t, resp)
		assertAppError(t, err, appErrors.ErrCodeDatabaseError, dbErr)
		f.stripe.AssertNotCalled(t, "CreatePaymentIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Stripe Unavailable", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		cart := cartWith(t, line(1, 5000, 2))
		f.orders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil).Once()
		f.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(events.OrderCreated)).Return(nil).Once()
		f.stripe.On("CreatePaymentIntent", mock.Anything, int64(9000), "usd", mock.Anything, mock.Anything).
			Return(nil, errors.New("stripe: 503")).Once()

		// Act
		resp, err := f.service.CreatePendingOrder(ctx, cart, priced(t, cart), customer, "idem-1")

		// Assert
		assert.Nil(t, resp)
		assertAppError(t, err, appErrors.ErrCodeThirdPartyError, nil)
		f.orders.AssertNotCalled(t, "SetPaymentIntent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Lines Do Not Match Subtotal", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		cart := cartWith(t, line(1, 5000, 2))
		pricing := priced(t, cart)
		pricing.Subtotal = money.New(9999, "USD")

		// Act
		_, err := f.service.CreatePendingOrder(ctx, cart, pricing, customer, "idem-1")

		// Assert
		assertAppError(t, err, appErrors.ErrCodeInternal, models.ErrSubtotalMismatch)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestGetOrderForCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Email Matches Case Insensitively", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		order := pendingOrder("")
		f.orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()

		// Act
		result, err := f.service.GetOrderForCustomer(ctx, order.ID, "BUYER@example.com ")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, order.ID, result.ID)
	})

	t.Run("Failure - Other Email Reads As Not Found", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		order := pendingOrder("")
		f.orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()

		// Act
		_, err := f.service.GetOrderForCustomer(ctx, order.ID, "someone@else.com")

		// Assert
		assertAppError(t, err, appErrors.ErrCodeNotFound, models.ErrOrderNotFound)
	})

	t.Run("Success - List Orders", func(t *testing.T) {
		// Arrange
		f := newOrderFixture(t)
		f.orders.On("List", ctx, models.OrderStatusPaid, 2, 20).Return([]models.Order{*pendingOrder("")}, 21, nil).Once()

		// Act
		result, err := f.service.ListOrders(ctx, models.OrderStatusPaid, 2, 20)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 21, result.Total)
		assert.Len(t, result.Orders, 1)
	})
}
