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
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GetOrder godoc
//	@Summary		Get an order as the customer
//	@Description	Returns the order when the email matches the one used at checkout.
//	@Tags			Orders
//	@Produce		json
//	@Param			id		path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Param			email	query		string					true	"Email used at checkout"
//	@Success		200		{object}	models.Order			"Order"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid order ID format"
//	@Failure		404		{object}	response.ErrorResponse	"Order not found"
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r)
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		email := r.URL.Query().Get("email")
		if email == "" {
			response.Error(w, errors.BadRequestError("email query parameter is required"))
			return
		}

		order, err := h.orderService.GetOrderForCustomer(r.Context(), id, email)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders godoc
//	@Summary		List orders (Admin)
//	@Tags			Admin
//	@Produce		json
//	@Param			status		query		string						false	"Filter by status"	Enums(pending, paid, cancelled, refunded)
//	@Param			page		query		int							false	"Page number (default: 1)"
//	@Param			pageSize	query		int							false	"Items per page (default: 10, max: 100)"
//	@Success		200			{object}	models.OrderListResponse	"Orders"
//	@Failure		400			{object}	response.ErrorResponse		"Unknown status"
//	@Failure		401			{object}	response.ErrorResponse		"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/admin/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		status := models.OrderStatus(r.URL.Query().Get("status"))
		switch status {
		case "", models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusCancelled, models.OrderStatusRefunded:
		default:
			response.Error(w, errors.BadRequestError("Unknown order status"))
			return
		}

		page, pageSize := utils.ParsePagination(r)

		result, err := h.orderService.ListOrders(r.Context(), status, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Orders listed", slog.Int("count", len(result.Orders)), slog.Int("total", result.Total))
		response.Success(w, http.StatusOK, result)
	}
}

// GetOrderAdmin godoc
//	@Summary		Get any order (Admin)
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Order			"Order"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Security		BearerAuth
//	@Router			/admin/orders/{id} [get]
func (h *OrderHandler) GetOrderAdmin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}
