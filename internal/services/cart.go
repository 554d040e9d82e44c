package service

import (
	"context"
	stdErrors "errors"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/money"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
)

// CartService runs each command as load, mutate a copy, persist, return.
// The stored cart is untouched when any step fails.
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	AddItem(ctx context.Context, sessionID string, req *models.CartItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, req *models.UpdateQuantityRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, sessionID string, req *models.RemoveItemRequest) (*models.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
}

type cartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
	currency    string
}

func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository, currency string) CartService {
	return &cartService{repo: repo, productRepo: productRepo, currency: currency}
}

// GetCart implements CartService. A session without a stored cart gets an empty one.
func (s *cartService) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {

	cart, err := s.repo.GetCart(ctx, sessionID)
	if err != nil {
		if stdErrors.Is(err, models.ErrCartNotFound) {
			return models.NewCart(sessionID, s.currency), nil
		}

		return nil, errors.DatabaseError("Failed to load cart").WithError(err)
	}

	return cart, nil
}

// AddItem implements CartService.
func (s *cartService) AddItem(ctx context.Context, sessionID string, req *models.CartItemRequest) (*models.Cart, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if stdErrors.Is(err, models.ErrProductNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to load product").WithError(err)
	}

	if !product.Purchasable() {
		return nil, errors.BadRequestError("Product is not available for purchase").WithError(models.ErrProductUnavailable)
	}

	variant := models.Variant{Size: req.Size, Color: req.Color}
	if !product.OffersVariant(variant) {
		return nil, errors.BadRequestError("Selected size or color is not offered").WithError(models.ErrVariantUnavailable)
	}

	return s.mutate(ctx, sessionID, func(cart *models.Cart) error {
		return cart.AddItem(product.ID, product.Name, product.Price, req.Quantity, variant)
	})
}

// UpdateQuantity implements CartService.
func (s *cartService) UpdateQuantity(ctx context.Context, sessionID string, req *models.UpdateQuantityRequest) (*models.Cart, error) {

	variant := models.Variant{Size: req.Size, Color: req.Color}

	return s.mutate(ctx, sessionID, func(cart *models.Cart) error {
		return cart.SetQuantity(req.ProductID, variant, req.Quantity)
	})
}

// RemoveItem implements CartService.
func (s *cartService) RemoveItem(ctx context.Context, sessionID string, req *models.RemoveItemRequest) (*models.Cart, error) {

	variant := models.Variant{Size: req.Size, Color: req.Color}

	return s.mutate(ctx, sessionID, func(cart *models.Cart) error {
		cart.RemoveItem(req.ProductID, variant)
		return nil
	})
}

// ClearCart implements CartService.
func (s *cartService) ClearCart(ctx context.Context, sessionID string) error {

	if err := s.repo.DeleteCart(ctx, sessionID); err != nil {
		return errors.DatabaseError("Failed to clear cart").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Cart cleared", "session_id", sessionID)

	return nil
}

func (s *cartService) mutate(ctx context.Context, sessionID string, apply func(cart *models.Cart) error) (*models.Cart, error) {

	current, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next := current.Clone()

	if err := apply(next); err != nil {
		return nil, cartError(err)
	}

	if err := s.repo.SaveCart(ctx, next); err != nil {
		return nil, errors.DatabaseError("Failed to update cart").WithError(err)
	}

	return next, nil
}

func cartError(err error) error {
	switch {
	case stdErrors.Is(err, models.ErrLineNotFound):
		return errors.NotFoundError("Item not found in the cart").WithError(err)
	case stdErrors.Is(err, models.ErrInvalidQuantity):
		return errors.ValidationError("Quantity must be at least 1").WithError(err)
	case stdErrors.Is(err, money.ErrCurrencyMismatch):
		return errors.BadRequestError("Item currency does not match the cart").WithError(err)
	default:
		return errors.InternalError("Failed to update cart").WithError(err)
	}
}
