package service

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
)

type CheckoutService interface {
	StartCheckout(ctx context.Context, sessionID string, req *models.CheckoutRequest, idempotencyKey string) (*models.CheckoutResponse, error)
}

type checkoutService struct {
	cartRepo  repository.CartRepository
	discounts DiscountService
	pricing   PricingService
	orders    OrderService
	now       func() time.Time
}

func NewCheckoutService(cartRepo repository.CartRepository, discounts DiscountService, pricing PricingService, orders OrderService) CheckoutService {
	return &checkoutService{cartRepo: cartRepo, discounts: discounts, pricing: pricing, orders: orders, now: time.Now}
}

// StartCheckout implements CheckoutService.
func (s *checkoutService) StartCheckout(ctx context.Context, sessionID string, req *models.CheckoutRequest, idempotencyKey string) (*models.CheckoutResponse, error) {

	logger := middleware.LoggerFromContext(ctx)

	cart, err := s.cartRepo.GetCart(ctx, sessionID)
	if err != nil {
		if stdErrors.Is(err, models.ErrCartNotFound) {
			return nil, errors.BadRequestError("Cannot checkout an empty cart").WithError(models.ErrEmptyCart)
		}

		return nil, errors.DatabaseError("Failed to load cart").WithError(err)
	}

	if cart.IsEmpty() {
		return nil, errors.BadRequestError("Cannot checkout an empty cart").WithError(models.ErrEmptyCart)
	}

	var decision *models.DiscountDecision
	if req.DiscountCode != "" {
		decision, err = s.discounts.Validate(ctx, req.DiscountCode, cart, s.now().UTC())
		if err != nil {
			return nil, err
		}
	}

	pricing, err := s.pricing.Price(cart, decision)
	if err != nil {
		if stdErrors.Is(err, models.ErrEmptyCart) {
			return nil, errors.BadRequestError("Cannot checkout an empty cart").WithError(err)
		}

		logger.Error("Pricing invariant violated", "error", err)
		return nil, errors.InternalError("Failed to price order").WithError(err)
	}

	return s.orders.CreatePendingOrder(ctx, cart, pricing, &req.Customer, idempotencyKey)
}
