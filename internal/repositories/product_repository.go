package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/money"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/lib/pq"
)

// ProductRepository is the read-only catalog view the checkout core needs.
type ProductRepository interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	// GetCollectionIDs maps each product id to the collections containing it.
	GetCollectionIDs(ctx context.Context, productIDs []int64) (map[int64][]int64, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, slug, price, currency, image, sizes, colors, status, created_at, updated_at
		FROM products
		WHERE id = $1`

	product := &models.Product{}

	var (
		amount   int64
		currency string
	)

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&product.ID, &product.Name, &product.Slug, &amount, &currency, &product.Image,
		pq.Array(&product.Sizes), pq.Array(&product.Colors), &product.Status, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("querying product %d: %w", id, err)
	}

	product.Price = money.New(amount, currency)

	return product, nil
}

func (r *productRepository) GetCollectionIDs(ctx context.Context, productIDs []int64) (map[int64][]int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	memberships := make(map[int64][]int64, len(productIDs))
	if len(productIDs) == 0 {
		return memberships, nil
	}

	query := `
		SELECT product_id, collection_id
		FROM collection_products
		WHERE product_id = ANY($1)
		ORDER BY product_id, collection_id`

	rows, err := r.DB.QueryContext(dbCtx, query, pq.Array(productIDs))
	if err != nil {
		return nil, fmt.Errorf("querying collection membership: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID, collectionID int64
		if err := rows.Scan(&productID, &collectionID); err != nil {
			return nil, fmt.Errorf("scanning collection membership: %w", err)
		}
		memberships[productID] = append(memberships[productID], collectionID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collection membership: %w", err)
	}

	return memberships, nil
}

type cachedProductRepository struct {
	next  ProductRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedProductRepository serves product reads from the cache first.
// Cache failures fall through to the wrapped repository.
func NewCachedProductRepository(next ProductRepository, c cache.Cache, ttl time.Duration) ProductRepository {
	return &cachedProductRepository{next: next, cache: c, ttl: ttl}
}

func (r *cachedProductRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {

	logger := middleware.LoggerFromContext(ctx)
	key := cache.Key(cache.ProductKeyPrefix, strconv.FormatInt(id, 10))

	var product models.Product

	found, err := r.cache.Get(ctx, key, &product)
	if err != nil {
		logger.Warn("Product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if found {
		return &product, nil
	}

	fresh, err := r.next.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, fresh, r.ttl); err != nil {
		logger.Warn("Product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return fresh, nil
}

func (r *cachedProductRepository) GetCollectionIDs(ctx context.Context, productIDs []int64) (map[int64][]int64, error) {
	return r.next.GetCollectionIDs(ctx, productIDs)
}
