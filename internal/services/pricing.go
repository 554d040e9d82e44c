package service

import (
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/money"
)

type PricingResult struct {
	Subtotal       money.Money `json:"subtotal"`
	DiscountAmount money.Money `json:"discount_amount"`
	ShippingAmount money.Money `json:"shipping_amount"`
	Total          money.Money `json:"total"`
	DiscountCode   string      `json:"discount_code,omitempty"`
}

// ShippingCalculator quotes shipping for a pre-discount subtotal.
type ShippingCalculator interface {
	Quote(subtotal money.Money) money.Money
}

// FlatRateShipping charges Rate below FreeThreshold and nothing at or above it.
// A zero threshold disables free shipping.
type FlatRateShipping struct {
	Rate          int64
	FreeThreshold int64
}

func NewFlatRateShipping(cfg config.Shipping) FlatRateShipping {
	return FlatRateShipping{Rate: cfg.FlatRate, FreeThreshold: cfg.FreeThreshold}
}

func (f FlatRateShipping) Quote(subtotal money.Money) money.Money {
	if f.FreeThreshold > 0 && subtotal.Amount >= f.FreeThreshold {
		return money.Zero(subtotal.Currency)
	}

	return money.New(f.Rate, subtotal.Currency)
}

type PricingService interface {
	Price(cart *models.Cart, decision *models.DiscountDecision) (*PricingResult, error)
	// Reprice recomputes the result from a persisted order's frozen lines.
	Reprice(order *models.Order) (*PricingResult, error)
}

type pricingService struct {
	shipping ShippingCalculator
}

func NewPricingService(shipping ShippingCalculator) PricingService {
	return &pricingService{shipping: shipping}
}

// Price implements PricingService.
func (s *pricingService) Price(cart *models.Cart, decision *models.DiscountDecision) (*PricingResult, error) {

	if cart == nil || cart.IsEmpty() {
		return nil, models.ErrEmptyCart
	}

	subtotal := cart.Subtotal()
	discount := money.Zero(subtotal.Currency)
	code := ""

	if decision != nil {
		discount = decision.DiscountAmount
		code = decision.Code
	}

	return s.compose(subtotal, discount, s.shipping.Quote(subtotal), code)
}

// Reprice implements PricingService.
func (s *pricingService) Reprice(order *models.Order) (*PricingResult, error) {

	if len(order.Items) == 0 {
		return nil, models.ErrEmptyCart
	}

	return s.compose(order.LinesTotal(), order.DiscountAmount, order.ShippingAmount, order.AppliedDiscountCode)
}

func (s *pricingService) compose(subtotal, discount, shipping money.Money, code string) (*PricingResult, error) {

	// discounts are clamped to the subtotal upstream, so a failure here is a bug
	afterDiscount, err := subtotal.Subtract(discount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrNegativeTotal, err)
	}

	total, err := afterDiscount.Add(shipping)
	if err != nil {
		return nil, fmt.Errorf("failed to add shipping: %w", err)
	}

	return &PricingResult{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		ShippingAmount: shipping,
		Total:          total,
		DiscountCode:   code,
	}, nil
}
