package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/money"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type OrderRepository interface {
	// Create inserts the header and all lines in one transaction. A reused
	// idempotency key yields models.ErrIdempotencyConflict and no rows.
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error)
	List(ctx context.Context, status models.OrderStatus, page, size int) ([]models.Order, int, error)
	SetPaymentIntent(ctx context.Context, id uuid.UUID, paymentIntentID string) error
	// LockByID reads the header with FOR UPDATE inside tx.
	LockByID(ctx context.Context, tx DBTX, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, tx DBTX, id uuid.UUID, status models.OrderStatus, confirmationID string) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `id, customer_email, customer_name, shipping_address, status, currency, subtotal, discount_amount, shipping_amount, total,
		COALESCE(applied_discount_code, ''), COALESCE(payment_intent_id, ''), COALESCE(payment_confirmation_id, ''),
		COALESCE(idempotency_key, ''), session_id, created_at, updated_at`

const orderItemColumns = `id, order_id, product_id, name, quantity, unit_price, size, color, created_at`

func scanOrder(row rowScanner) (*models.Order, error) {

	order := &models.Order{}

	var (
		addressJSON                         []byte
		subtotal, discount, shipping, total int64
	)

	err := row.Scan(&order.ID, &order.CustomerEmail, &order.CustomerName, &addressJSON, &order.Status, &order.Currency,
		&subtotal, &discount, &shipping, &total,
		&order.AppliedDiscountCode, &order.PaymentIntentID, &order.PaymentConfirmationID,
		&order.IdempotencyKey, &order.SessionID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(addressJSON) > 0 {
		order.ShippingAddress = &models.Address{}
		if err := json.Unmarshal(addressJSON, order.ShippingAddress); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
		}
	}

	order.Subtotal = money.New(subtotal, order.Currency)
	order.DiscountAmount = money.New(discount, order.Currency)
	order.ShippingAmount = money.New(shipping, order.Currency)
	order.Total = money.New(total, order.Currency)
	order.Items = []models.OrderItem{}

	return order, nil
}

func scanOrderItem(row rowScanner, currency string) (models.OrderItem, error) {

	var (
		item      models.OrderItem
		unitPrice int64
	)

	if err := row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Quantity, &unitPrice, &item.Size, &item.Color, &item.CreatedAt); err != nil {
		return item, err
	}

	item.UnitPrice = money.New(unitPrice, currency)

	return item, nil
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	shippingAddress, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, customer_email, customer_name, shipping_address, status, currency, subtotal, discount_amount, shipping_amount, total,
			applied_discount_code, idempotency_key, session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), NULLIF($12, ''), $13, NOW(), NOW())
		RETURNING created_at, updated_at`

	err = tx.QueryRowContext(dbCtx, query, order.ID, order.CustomerEmail, order.CustomerName, shippingAddress, order.Status, order.Currency,
		order.Subtotal.Amount, order.DiscountAmount.Amount, order.ShippingAmount.Amount, order.Total.Amount,
		order.AppliedDiscountCode, order.IdempotencyKey, order.SessionID).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation && pqErr.Constraint == "orders_idempotency_key_key" {
			return models.ErrIdempotencyConflict
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, name, quantity, unit_price, size, color, line_no, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`

	for i := range order.Items {

		item := &order.Items[i]
		item.OrderID = order.ID

		_, err := tx.ExecContext(dbCtx, itemQuery, item.ID, order.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice.Amount, item.Size, item.Color, i)
		if err != nil {
			return fmt.Errorf("failed to insert order item %d: %w", i, err)
		}

		item.CreatedAt = order.CreatedAt
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *orderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE idempotency_key = $1`, key)
}

func (r *orderRepository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE payment_intent_id = $1`, paymentIntentID)
}

func (r *orderRepository) getOne(ctx context.Context, query string, arg any) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	items, err := r.itemsFor(dbCtx, []uuid.UUID{order.ID}, order.Currency)
	if err != nil {
		return nil, err
	}

	order.Items = items[order.ID]
	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}

	return order, nil
}

// itemsFor loads lines for several orders in a single query.
func (r *orderRepository) itemsFor(ctx context.Context, orderIDs []uuid.UUID, currency string) (map[uuid.UUID][]models.OrderItem, error) {

	ids := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = id.String()
	}

	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, line_no`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]models.OrderItem, len(orderIDs))

	for rows.Next() {
		item, err := scanOrderItem(rows, currency)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) List(ctx context.Context, status models.OrderStatus, page, size int) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := models.PageOffset(page, size)

	query := `SELECT ` + orderColumns + ` FROM orders WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, status, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	ids := []uuid.UUID{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(orders) == 0 {
		return orders, total, nil
	}

	items, err := r.itemsFor(dbCtx, ids, "")
	if err != nil {
		return nil, 0, err
	}

	for i := range orders {
		for _, item := range items[orders[i].ID] {
			item.UnitPrice = money.New(item.UnitPrice.Amount, orders[i].Currency)
			orders[i].Items = append(orders[i].Items, item)
		}
	}

	return orders, total, nil
}

func (r *orderRepository) SetPaymentIntent(ctx context.Context, id uuid.UUID, paymentIntentID string) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE orders SET payment_intent_id = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, paymentIntentID, id)
	if err != nil {
		return fmt.Errorf("failed to store payment intent: %w", err)
	}

	return expectOneRow(result, models.ErrOrderNotFound)
}

func (r *orderRepository) LockByID(ctx context.Context, tx DBTX, id uuid.UUID) (*models.Order, error) {

	order, err := scanOrder(tx.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock the order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, tx DBTX, id uuid.UUID, status models.OrderStatus, confirmationID string) error {

	query := `
		UPDATE orders
		SET status = $1, payment_confirmation_id = COALESCE(NULLIF($2, ''), payment_confirmation_id), updated_at = NOW()
		WHERE id = $3`

	result, err := tx.ExecContext(ctx, query, status, confirmationID, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return expectOneRow(result, models.ErrOrderNotFound)
}

func expectOneRow(result sql.Result, notFound error) error {

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return notFound
	}

	return nil
}
