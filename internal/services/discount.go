package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/money"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
)

type DiscountService interface {
	// Validate checks code against the cart at now and computes the amount.
	// It never records a redemption.
	Validate(ctx context.Context, code string, cart *models.Cart, now time.Time) (*models.DiscountDecision, error)
	ListDiscounts(ctx context.Context, page, size int) (*models.PaginatedResponse, error)
	CreateDiscount(ctx context.Context, req *models.CreateDiscountRequest) (*models.DiscountCode, error)
}

type discountService struct {
	repo        repository.DiscountRepository
	productRepo repository.ProductRepository
	currency    string
}

func NewDiscountService(repo repository.DiscountRepository, productRepo repository.ProductRepository, currency string) DiscountService {
	return &discountService{repo: repo, productRepo: productRepo, currency: currency}
}

// Validate implements DiscountService.
func (s *discountService) Validate(ctx context.Context, code string, cart *models.Cart, now time.Time) (*models.DiscountDecision, error) {

	logger := middleware.LoggerFromContext(ctx)
	normalized := models.NormalizeCode(code)

	discount, err := s.repo.GetByCode(ctx, normalized)
	if err != nil {
		if stdErrors.Is(err, models.ErrDiscountNotFound) {
			return nil, s.reject(ctx, normalized, models.ErrDiscountNotFound)
		}

		logger.Error("Failed to load discount code", "code", normalized, "error", err)
		return nil, errors.DatabaseError("Failed to verify discount").WithError(err)
	}

	switch {
	case !discount.Active:
		return nil, s.reject(ctx, normalized, models.ErrDiscountInactive)
	case !discount.ActiveAt(now):
		return nil, s.reject(ctx, normalized, models.ErrDiscountExpired)
	case discount.Exhausted():
		return nil, s.reject(ctx, normalized, models.ErrUsageLimitReached)
	}

	subtotal := cart.Subtotal()

	if money.Zero(discount.Currency).Currency != subtotal.Currency {
		return nil, s.reject(ctx, normalized, fmt.Errorf("%w: code is %s, cart is %s", models.ErrNotApplicableToCart, discount.Currency, subtotal.Currency))
	}

	if discount.Restricted() {
		applies, err := s.appliesToCart(ctx, discount, cart)
		if err != nil {
			logger.Error("Failed to resolve collection membership", "code", normalized, "error", err)
			return nil, errors.DatabaseError("Failed to verify discount").WithError(err)
		}

		if !applies {
			return nil, s.reject(ctx, normalized, models.ErrNotApplicableToCart)
		}
	}

	if discount.MinPurchase > 0 && subtotal.Amount < discount.MinPurchase {
		return nil, s.reject(ctx, normalized, models.ErrNotApplicableToCart)
	}

	var (
		amount  money.Money
		display string
	)

	switch discount.Kind {
	case models.DiscountPercentage:
		amount = money.Min(subtotal.PercentageOf(discount.Value), subtotal)
		display = strconv.FormatInt(discount.Value, 10) + "% off"
	default:
		fixed := money.New(discount.Value, discount.Currency)
		amount = money.Min(fixed, subtotal)
		display = fixed.String() + " off"
	}

	metrics.RecordDiscountValidation("valid")
	logger.Info("Discount code validated", "code", normalized, "discount_amount", amount.Amount)

	return &models.DiscountDecision{
		Code:           discount.Code,
		Kind:           discount.Kind,
		DiscountAmount: amount,
		Display:        display,
	}, nil
}

// reject maps a business-rule failure onto the public error. Unknown,
// inactive, expired and exhausted codes look the same to the customer.
func (s *discountService) reject(ctx context.Context, code string, reason error) error {

	middleware.LoggerFromContext(ctx).Info("Discount code rejected", "code", code, "reason", reason.Error())
	metrics.RecordDiscountValidation(reasonLabel(reason))

	if stdErrors.Is(reason, models.ErrNotApplicableToCart) {
		return errors.UnprocessableError("Discount code does not apply to this cart").WithError(reason)
	}

	return errors.NotFoundError("Invalid discount code").WithError(reason)
}

func reasonLabel(reason error) string {
	switch {
	case stdErrors.Is(reason, models.ErrDiscountNotFound):
		return "not_found"
	case stdErrors.Is(reason, models.ErrDiscountInactive):
		return "inactive"
	case stdErrors.Is(reason, models.ErrDiscountExpired):
		return "expired"
	case stdErrors.Is(reason, models.ErrUsageLimitReached):
		return "limit_reached"
	default:
		return "not_applicable"
	}
}

func (s *discountService) appliesToCart(ctx context.Context, discount *models.DiscountCode, cart *models.Cart) (bool, error) {

	products := make(map[int64]struct{}, len(discount.ApplicableProductIDs))
	for _, id := range discount.ApplicableProductIDs {
		products[id] = struct{}{}
	}

	productIDs := make([]int64, 0, len(cart.Items))
	for _, line := range cart.Items {
		if _, ok := products[line.ProductID]; ok {
			return true, nil
		}
		productIDs = append(productIDs, line.ProductID)
	}

	if len(discount.ApplicableCollectionIDs) == 0 || len(productIDs) == 0 {
		return false, nil
	}

	membership, err := s.productRepo.GetCollectionIDs(ctx, productIDs)
	if err != nil {
		return false, err
	}

	collections := make(map[int64]struct{}, len(discount.ApplicableCollectionIDs))
	for _, id := range discount.ApplicableCollectionIDs {
		collections[id] = struct{}{}
	}

	for _, ids := range membership {
		for _, id := range ids {
			if _, ok := collections[id]; ok {
				return true, nil
			}
		}
	}

	return false, nil
}

// ListDiscounts implements DiscountService.
func (s *discountService) ListDiscounts(ctx context.Context, page, size int) (*models.PaginatedResponse, error) {

	discounts, total, err := s.repo.List(ctx, page, size)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch discounts").WithError(err)
	}

	return models.NewPage(discounts, total, page, size), nil
}

// CreateDiscount implements DiscountService.
func (s *discountService) CreateDiscount(ctx context.Context, req *models.CreateDiscountRequest) (*models.DiscountCode, error) {

	value, err := s.parseValue(req.Kind, req.Value)
	if err != nil {
		return nil, err
	}

	var minPurchase int64
	if req.MinPurchase != "" {
		parsed, err := money.ParseMajor(req.MinPurchase, s.currency)
		if err != nil {
			return nil, errors.InvalidField("min_purchase_amount", err.Error())
		}
		minPurchase = parsed.Amount
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	discount := &models.DiscountCode{
		Code:                    models.NormalizeCode(req.Code),
		Kind:                    req.Kind,
		Value:                   value,
		Currency:                money.Zero(s.currency).Currency,
		MinPurchase:             minPurchase,
		ValidFrom:               req.ValidFrom.UTC(),
		ValidUntil:              req.ValidUntil.UTC(),
		UsageLimit:              req.UsageLimit,
		ApplicableProductIDs:    req.ApplicableProductIDs,
		ApplicableCollectionIDs: req.ApplicableCollectionIDs,
		Active:                  active,
	}

	if err := s.repo.Create(ctx, discount); err != nil {
		if stdErrors.Is(err, models.ErrDuplicateDiscount) {
			return nil, errors.ConflictError("Discount code already exists").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to create discount").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Discount code created", "code", discount.Code, "type", discount.Kind)

	return discount, nil
}

func (s *discountService) parseValue(kind models.DiscountKind, raw string) (int64, error) {

	switch kind {
	case models.DiscountPercentage:
		percent, err := money.ParsePercent(raw)
		if err != nil {
			return 0, errors.InvalidField("value", err.Error())
		}

		if percent < 1 || percent > 100 {
			return 0, errors.InvalidField("value", fmt.Sprintf("percentage must be between 1 and 100, got %d", percent))
		}

		return percent, nil
	case models.DiscountFixed:
		amount, err := money.ParseMajor(raw, s.currency)
		if err != nil {
			return 0, errors.InvalidField("value", err.Error())
		}

		if amount.Amount <= 0 {
			return 0, errors.InvalidField("value", "fixed amount must be greater than zero")
		}

		return amount.Amount, nil
	default:
		return 0, errors.InvalidField("type", "must be percentage or fixed")
	}
}
