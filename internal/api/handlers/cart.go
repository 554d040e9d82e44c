package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// GetCart godoc
//	@Summary		Get the session cart
//	@Description	Returns the cart bound to the X-Session-ID header. A new session id is issued and echoed when the header is absent.
//	@Tags			Cart
//	@Produce		json
//	@Param			X-Session-ID	header		string					false	"Shopper session id"
//	@Success		200				{object}	models.CartResponse		"Current cart with subtotal"
//	@Failure		500				{object}	response.ErrorResponse	"Internal server error"
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		session, err := sessionID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), session)
		if err != nil {
			logger.Error("Failed to get cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.NewCartResponse(cart))
	}
}

// AddItem godoc
//	@Summary		Add an item to the cart
//	@Description	Adds a product variant. A line with the same product, size and color is merged by summing quantities.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string					false	"Shopper session id"
//	@Param			item			body		models.CartItemRequest	true	"Product variant and quantity"
//	@Success		200				{object}	models.CartResponse		"Updated cart"
//	@Failure		400				{object}	response.ErrorResponse	"Validation error or product unavailable"
//	@Failure		404				{object}	response.ErrorResponse	"Product not found"
//	@Failure		500				{object}	response.ErrorResponse	"Internal server error"
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		session, err := sessionID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.CartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add to cart input")
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), session, &req)
		if err != nil {
			logger.Warn("Failed to add item to cart", slog.Int64("productId", req.ProductID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.Int64("productId", req.ProductID), slog.Int("quantity", req.Quantity))
		response.Success(w, http.StatusOK, models.NewCartResponse(cart))
	}
}

// UpdateItem godoc
//	@Summary		Set the quantity of a cart line
//	@Description	Replaces the quantity of a line. A quantity of zero or less removes it.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string						false	"Shopper session id"
//	@Param			item			body		models.UpdateQuantityRequest	true	"Line key and new quantity"
//	@Success		200				{object}	models.CartResponse			"Updated cart"
//	@Failure		400				{object}	response.ErrorResponse		"Validation error"
//	@Failure		404				{object}	response.ErrorResponse		"Cart or line not found"
//	@Failure		500				{object}	response.ErrorResponse		"Internal server error"
//	@Router			/cart/items [put]
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		session, err := sessionID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update quantity input")
			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), session, &req)
		if err != nil {
			logger.Warn("Failed to update cart line", slog.Int64("productId", req.ProductID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.NewCartResponse(cart))
	}
}

// RemoveItem godoc
//	@Summary		Remove a cart line
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string					false	"Shopper session id"
//	@Param			item			body		models.RemoveItemRequest	true	"Line key"
//	@Success		200				{object}	models.CartResponse		"Updated cart"
//	@Failure		404				{object}	response.ErrorResponse	"Cart or line not found"
//	@Failure		500				{object}	response.ErrorResponse	"Internal server error"
//	@Router			/cart/items [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		session, err := sessionID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.RemoveItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), session, &req)
		if err != nil {
			logger.Warn("Failed to remove cart line", slog.Int64("productId", req.ProductID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.NewCartResponse(cart))
	}
}

// ClearCart godoc
//	@Summary		Empty the cart
//	@Tags			Cart
//	@Param			X-Session-ID	header	string	false	"Shopper session id"
//	@Success		204				"Cart cleared"
//	@Failure		500				{object}	response.ErrorResponse	"Internal server error"
//	@Router			/cart [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, err := sessionID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.cartService.ClearCart(r.Context(), session); err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
