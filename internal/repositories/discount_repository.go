package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

type DiscountRepository interface {
	GetByCode(ctx context.Context, code string) (*models.DiscountCode, error)
	List(ctx context.Context, page, size int) ([]models.DiscountCode, int, error)
	Create(ctx context.Context, discount *models.DiscountCode) error
	// CommitRedemption atomically consumes one use of the code on tx and
	// returns the new usage count.
	CommitRedemption(ctx context.Context, tx DBTX, code string) (int64, error)
}

type discountRepository struct {
	DB *sql.DB
}

func NewDiscountRepository(db *sql.DB) DiscountRepository {
	return &discountRepository{DB: db}
}

const discountColumns = `id, code, kind, value, currency, min_purchase, valid_from, valid_until, usage_limit, usage_count,
		applicable_product_ids, applicable_collection_ids, active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDiscount(row rowScanner) (*models.DiscountCode, error) {

	d := &models.DiscountCode{}

	err := row.Scan(&d.ID, &d.Code, &d.Kind, &d.Value, &d.Currency, &d.MinPurchase, &d.ValidFrom, &d.ValidUntil, &d.UsageLimit, &d.UsageCount,
		pq.Array(&d.ApplicableProductIDs), pq.Array(&d.ApplicableCollectionIDs), &d.Active, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (r *discountRepository) GetByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + discountColumns + ` FROM discounts WHERE code = $1`

	discount, err := scanDiscount(r.DB.QueryRowContext(dbCtx, query, models.NormalizeCode(code)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrDiscountNotFound
		}
		return nil, fmt.Errorf("querying discount: %w", err)
	}

	return discount, nil
}

func (r *discountRepository) List(ctx context.Context, page, size int) ([]models.DiscountCode, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM discounts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting discounts: %w", err)
	}

	offset := models.PageOffset(page, size)

	query := `SELECT ` + discountColumns + ` FROM discounts ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list discounts: %w", err)
	}
	defer rows.Close()

	discounts := []models.DiscountCode{}

	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan discount: %w", err)
		}
		discounts = append(discounts, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return discounts, total, nil
}

func (r *discountRepository) Create(ctx context.Context, d *models.DiscountCode) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO discounts (code, kind, value, currency, min_purchase, valid_from, valid_until, usage_limit,
			applicable_product_ids, applicable_collection_ids, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, usage_count, created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, models.NormalizeCode(d.Code), d.Kind, d.Value, d.Currency, d.MinPurchase, d.ValidFrom, d.ValidUntil, d.UsageLimit,
		pq.Array(d.ApplicableProductIDs), pq.Array(d.ApplicableCollectionIDs), d.Active).Scan(&d.ID, &d.UsageCount, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return models.ErrDuplicateDiscount
		}
		return fmt.Errorf("failed to insert discount: %w", err)
	}

	d.Code = models.NormalizeCode(d.Code)

	return nil
}

// CommitRedemption is the only writer of usage_count. The limit check and
// the increment are one statement, so concurrent commits never overshoot.
func (r *discountRepository) CommitRedemption(ctx context.Context, tx DBTX, code string) (int64, error) {

	code = models.NormalizeCode(code)

	query := `
		UPDATE discounts
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE code = $1 AND (usage_limit = 0 OR usage_count < usage_limit)
		RETURNING usage_count`

	var usageCount int64

	err := tx.QueryRowContext(ctx, query, code).Scan(&usageCount)
	if err == nil {
		return usageCount, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to commit redemption: %w", err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM discounts WHERE code = $1)`, code).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check discount existence: %w", err)
	}

	if !exists {
		return 0, models.ErrDiscountNotFound
	}

	return 0, models.ErrUsageLimitReached
}
