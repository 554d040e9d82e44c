package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

const maxWebhookBytes = 64 << 10

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// HandleStripeWebhook godoc
//	@Summary		Stripe webhook
//	@Description	Receives payment_intent and charge events. Events for unknown orders are acknowledged.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header		string					true	"Stripe signature"
//	@Success		200					{object}	map[string]bool			"Event processed"
//	@Failure		400					{object}	response.ErrorResponse	"Missing or invalid signature"
//	@Failure		409					{object}	response.ErrorResponse	"Payment does not match order"
//	@Failure		500					{object}	response.ErrorResponse	"Processing failed, Stripe will retry"
//	@Router			/payments/webhook [post]
func (h *PaymentHandler) HandleStripeWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
		if err != nil {
			logger.Error("Error reading webhook body", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Failed to read request body"))
			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			logger.Warn("Missing Stripe signature")
			response.Error(w, errors.BadRequestError("Stripe Signature is required"))
			return
		}

		event, err := h.paymentService.ProcessWebhook(r.Context(), payload, signature)
		if err != nil {
			logger.Error("Failed to process payment webhook",
				slog.String("eventId", event.ID),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Payment webhook processed", slog.String("eventId", event.ID), slog.String("eventType", string(event.Type)))
		response.Success(w, http.StatusOK, map[string]bool{"received": true})
	}
}

// RefundOrder godoc
//	@Summary		Refund a paid order (Admin)
//	@Description	Refunds the full amount through Stripe and marks the order refunded.
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Order			"Refunded order"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Failure		409	{object}	response.ErrorResponse	"Order is not paid"
//	@Failure		502	{object}	response.ErrorResponse	"Payment provider error"
//	@Security		BearerAuth
//	@Router			/admin/orders/{id}/refund [post]
func (h *PaymentHandler) RefundOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		order, err := h.paymentService.Refund(r.Context(), id)
		if err != nil {
			logger.Warn("Refund failed", slog.String("orderId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order refunded", slog.String("orderId", id.String()))
		response.Success(w, http.StatusOK, order)
	}
}
