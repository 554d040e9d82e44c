package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	maxIdempotencyKeyLen = 255
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	paymentService  service.PaymentService
	orderService    service.OrderService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService, paymentService service.PaymentService, orderService service.OrderService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		paymentService:  paymentService,
		orderService:    orderService,
		validator:       validator.New(),
	}
}

// StartCheckout godoc
//	@Summary		Turn the cart into a pending order
//	@Description	Prices the cart, applies the optional discount code, persists a pending order and creates a Stripe payment intent. Retrying with the same Idempotency-Key returns the same order.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string					false	"Shopper session id"
//	@Param			Idempotency-Key	header		string					true	"Client generated key, unique per checkout attempt"
//	@Param			checkout		body		models.CheckoutRequest	true	"Customer details and optional discount code"
//	@Success		201				{object}	models.CheckoutResponse	"Pending order and payment client secret"
//	@Failure		400				{object}	response.ErrorResponse	"Validation error or empty cart"
//	@Failure		404				{object}	response.ErrorResponse	"Invalid discount code"
//	@Failure		422				{object}	response.ErrorResponse	"Code does not apply to this cart"
//	@Failure		502				{object}	response.ErrorResponse	"Payment provider unavailable"
//	@Failure		500				{object}	response.ErrorResponse	"Internal server error"
//	@Router			/checkout [post]
func (h *CheckoutHandler) StartCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		session, err := sessionID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		idempotencyKey := r.Header.Get(IdempotencyKeyHeader)
		if idempotencyKey == "" || len(idempotencyKey) > maxIdempotencyKeyLen {
			response.Error(w, errors.BadRequestError("Idempotency-Key header is required"))
			return
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		sanitizeCustomer(&req.Customer)
		if req.Customer.FirstName == "" || req.Customer.LastName == "" || req.Customer.ShippingAddress.Street == "" {
			response.Error(w, errors.ValidationError("Customer name and address must contain text"))
			return
		}

		resp, err := h.checkoutService.StartCheckout(r.Context(), session, &req, idempotencyKey)
		if err != nil {
			logger.Warn("Checkout failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Checkout started", slog.String("orderId", resp.Order.ID.String()))
		response.Success(w, http.StatusCreated, resp)
	}
}

func sanitizeCustomer(c *models.CustomerInfo) {
	c.FirstName = utils.SanitizeText(c.FirstName)
	c.LastName = utils.SanitizeText(c.LastName)

	a := &c.ShippingAddress
	a.Street = utils.SanitizeText(a.Street)
	a.City = utils.SanitizeText(a.City)
	a.State = utils.SanitizeText(a.State)
	a.PostalCode = utils.SanitizeText(a.PostalCode)
	a.Phone = utils.SanitizeText(a.Phone)
}

// ConfirmPayment godoc
//	@Summary		Confirm a payment after client-side authorisation
//	@Description	Verifies the payment intent with Stripe and marks the order paid. Safe to call more than once.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Order ID (UUID)"	Format(uuid)
//	@Param			payment	body		models.ConfirmPaymentRequest	true	"Payment intent id"
//	@Success		200		{object}	models.Order					"Paid order"
//	@Failure		400		{object}	response.ErrorResponse			"Invalid id or intent belongs to another order"
//	@Failure		404		{object}	response.ErrorResponse			"Order not found"
//	@Failure		409		{object}	response.ErrorResponse			"Order cannot be paid"
//	@Failure		422		{object}	response.ErrorResponse			"Payment has not succeeded"
//	@Failure		502		{object}	response.ErrorResponse			"Payment provider unavailable"
//	@Router			/checkout/{id}/confirm [post]
func (h *CheckoutHandler) ConfirmPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("orderId", id.String()))

		var req models.ConfirmPaymentRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.paymentService.ConfirmPayment(r.Context(), id, req.PaymentIntentID)
		if err != nil {
			logger.Warn("Payment confirmation failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Payment confirmed")
		response.Success(w, http.StatusOK, order)
	}
}

// CancelCheckout godoc
//	@Summary		Abandon a pending order
//	@Tags			Checkout
//	@Produce		json
//	@Param			id		path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Param			email	query		string					true	"Email used at checkout"
//	@Success		200		{object}	models.Order			"Cancelled order"
//	@Failure		404		{object}	response.ErrorResponse	"Order not found"
//	@Failure		409		{object}	response.ErrorResponse	"Order is no longer pending"
//	@Router			/checkout/{id}/cancel [post]
func (h *CheckoutHandler) CancelCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		email := r.URL.Query().Get("email")
		if email == "" {
			response.Error(w, errors.BadRequestError("email query parameter is required"))
			return
		}

		if _, err := h.orderService.GetOrderForCustomer(r.Context(), id, email); err != nil {
			response.Error(w, err)
			return
		}

		order, err := h.orderService.Cancel(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to cancel order", slog.String("orderId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Checkout abandoned", slog.String("orderId", id.String()))
		response.Success(w, http.StatusOK, order)
	}
}
