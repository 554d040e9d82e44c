package service

import (
	"context"
	stdErrors "errors"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
)

// ProductService is the shopper's read-only view of the catalog.
type ProductService interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

// GetProduct implements ProductService. Draft and archived products are
// reported as missing so unpublished items never leak to shoppers.
func (s *productService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, models.ErrProductNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		middleware.LoggerFromContext(ctx).Error("Product lookup failed", slog.Int64("product_id", id), slog.String("error", err.Error()))
		return nil, errors.DatabaseError("Failed to load product").WithError(err)
	}

	if !product.Purchasable() {
		return nil, errors.NotFoundError("Product not found").WithError(models.ErrProductUnavailable)
	}

	return product, nil
}
