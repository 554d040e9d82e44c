package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type DiscountHandler struct {
	discountService service.DiscountService
	cartService     service.CartService
	validator       *validator.Validate
	now             func() time.Time
}

func NewDiscountHandler(discountService service.DiscountService, cartService service.CartService) *DiscountHandler {
	return &DiscountHandler{
		discountService: discountService,
		cartService:     cartService,
		validator:       validator.New(),
		now:             time.Now,
	}
}

// VerifyDiscount godoc
//	@Summary		Check a discount code against the cart
//	@Description	Computes the discount the code would give the current cart. Nothing is redeemed. Rate limited per client.
//	@Tags			Discounts
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string							false	"Shopper session id"
//	@Param			code			body		models.VerifyDiscountRequest	true	"Discount code"
//	@Success		200				{object}	models.DiscountDecision			"Discount that applies"
//	@Failure		404				{object}	response.ErrorResponse			"Invalid discount code"
//	@Failure		422				{object}	response.ErrorResponse			"Code does not apply to this cart"
//	@Failure		429				{object}	response.ErrorResponse			"Too many attempts"
//	@Failure		500				{object}	response.ErrorResponse			"Internal server error"
//	@Router			/discounts/verify [post]
func (h *DiscountHandler) VerifyDiscount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, err := sessionID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.VerifyDiscountRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), session)
		if err != nil {
			response.Error(w, err)
			return
		}

		decision, err := h.discountService.Validate(r.Context(), req.Code, cart, h.now().UTC())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, decision)
	}
}

// ListDiscounts godoc
//	@Summary		List discount codes (Admin)
//	@Tags			Admin
//	@Produce		json
//	@Param			page		query		int														false	"Page number (default: 1)"
//	@Param			pageSize	query		int														false	"Items per page (default: 10, max: 100)"
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.DiscountCode}	"Discount codes"
//	@Failure		401			{object}	response.ErrorResponse									"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse									"Internal server error"
//	@Security		BearerAuth
//	@Router			/discounts [get]
func (h *DiscountHandler) ListDiscounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, pageSize := utils.ParsePagination(r)

		result, err := h.discountService.ListDiscounts(r.Context(), page, pageSize)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list discounts", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, result)
	}
}

// CreateDiscount godoc
//	@Summary		Create a discount code (Admin)
//	@Description	Percentage values are whole percents ("10" or "10%"); fixed values and minimum purchase are major units ("5.00").
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			discount	body		models.CreateDiscountRequest	true	"Discount definition"
//	@Success		201			{object}	models.DiscountCode				"Created discount"
//	@Failure		400			{object}	response.ErrorResponse			"Validation error"
//	@Failure		401			{object}	response.ErrorResponse			"Authentication required"
//	@Failure		409			{object}	response.ErrorResponse			"Code already exists"
//	@Failure		500			{object}	response.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/discounts [post]
func (h *DiscountHandler) CreateDiscount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateDiscountRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create discount input")
			return
		}

		discount, err := h.discountService.CreateDiscount(r.Context(), &req)
		if err != nil {
			logger.Warn("Failed to create discount", slog.String("code", req.Code), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Discount created", slog.String("code", discount.Code))
		response.Success(w, http.StatusCreated, discount)
	}
}
