package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	stripeAPI "github.com/stripe/stripe-go/v81"
)

func TestHandleStripeWebhook(t *testing.T) {
	payload := `{"id":"evt_123","type":"payment_intent.succeeded"}`

	t.Run("Success - Event Processed", func(t *testing.T) {
		// Arrange
		paymentService := mocks.NewPaymentService(t)
		handler := handlers.NewPaymentHandler(paymentService)
		paymentService.On("ProcessWebhook", mock.Anything, []byte(payload), "t=1,v1=abc").
			Return(stripeAPI.Event{ID: "evt_123", Type: "payment_intent.succeeded"}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(payload), nil)
		req.Header.Set("Stripe-Signature", "t=1,v1=abc")
		rr := httptest.NewRecorder()

		// Act
		handler.HandleStripeWebhook().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Missing Signature", func(t *testing.T) {
		// Arrange
		paymentService := mocks.NewPaymentService(t)
		handler := handlers.NewPaymentHandler(paymentService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(payload), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.HandleStripeWebhook().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		paymentService.AssertNotCalled(t, "ProcessWebhook", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Bad Signature", func(t *testing.T) {
		// Arrange
		paymentService := mocks.NewPaymentService(t)
		handler := handlers.NewPaymentHandler(paymentService)
		paymentService.On("ProcessWebhook", mock.Anything, []byte(payload), "forged").
			Return(stripeAPI.Event{}, appErrors.BadRequestError("Webhook signature verification failed")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(payload), nil)
		req.Header.Set("Stripe-Signature", "forged")
		rr := httptest.NewRecorder()

		// Act
		handler.HandleStripeWebhook().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRefundOrder(t *testing.T) {

	t.Run("Success - Refunded", func(t *testing.T) {
		// Arrange
		paymentService := mocks.NewPaymentService(t)
		handler := handlers.NewPaymentHandler(paymentService)
		order := sampleOrder(models.OrderStatusRefunded)
		paymentService.On("Refund", mock.Anything, order.ID).Return(order, nil).Once()

		req := testutils.CreateAdminRequest(http.MethodPost, "/api/v1/admin/orders/"+order.ID.String()+"/refund", nil, map[string]string{"id": order.ID.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.RefundOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Not Paid", func(t *testing.T) {
		// Arrange
		paymentService := mocks.NewPaymentService(t)
		handler := handlers.NewPaymentHandler(paymentService)
		order := sampleOrder(models.OrderStatusPending)
		paymentService.On("Refund", mock.Anything, order.ID).
			Return(nil, appErrors.ConflictError("Only paid orders can be refunded").WithError(models.ErrInvalidTransition)).Once()

		req := testutils.CreateAdminRequest(http.MethodPost, "/api/v1/admin/orders/"+order.ID.String()+"/refund", nil, map[string]string{"id": order.ID.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.RefundOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}
