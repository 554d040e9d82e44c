package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

// CartRepository keeps one cart per shopper session in the cache.
type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}

type cartRepository struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewCartRepository(c cache.Cache, ttl time.Duration) CartRepository {
	return &cartRepository{cache: c, ttl: ttl}
}

// GetCart slides the session TTL on every read.
func (r *cartRepository) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {

	cart := &models.Cart{}

	found, err := r.cache.GetAndTouch(ctx, cache.Key(cache.CartKeyPrefix, sessionID), cart, r.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if !found {
		return nil, models.ErrCartNotFound
	}

	if cart.Items == nil {
		cart.Items = []models.CartLine{}
	}

	return cart, nil
}

func (r *cartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {

	if err := r.cache.Set(ctx, cache.Key(cache.CartKeyPrefix, cart.SessionID), cart, r.ttl); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteCart(ctx context.Context, sessionID string) error {

	if err := r.cache.Delete(ctx, cache.Key(cache.CartKeyPrefix, sessionID)); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	return nil
}
