package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/money"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	orderColumns = []string{
		"id", "customer_email", "customer_name", "shipping_address", "status", "currency", "subtotal", "discount_amount", "shipping_amount", "total",
		"applied_discount_code", "payment_intent_id", "payment_confirmation_id", "idempotency_key", "session_id", "created_at", "updated_at",
	}
	orderItemColumns = []string{"id", "order_id", "product_id", "name", "quantity", "unit_price", "size", "color", "created_at"}
)

const addressJSON = `{"street":"1 Main St","city":"Springfield","postal_code":"12345","country":"US"}`

func setupOrderRepoTest(t *testing.T) (repository.OrderRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return repository.NewOrderRepository(db), mock, db
}

func newPendingOrder() *models.Order {

	id := uuid.New()

	return &models.Order{
		ID:            id,
		CustomerEmail: "jane@example.com",
		CustomerName:  "Jane Doe",
		ShippingAddress: &models.Address{
			Street: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US",
		},
		Status:              models.OrderStatusPending,
		Currency:            "USD",
		Subtotal:            money.New(7000, "USD"),
		DiscountAmount:      money.New(700, "USD"),
		ShippingAmount:      money.New(1000, "USD"),
		Total:               money.New(7300, "USD"),
		AppliedDiscountCode: "SAVE10",
		IdempotencyKey:      "idem-1",
		SessionID:           "session-123",
		Items: []models.OrderItem{
			{ID: uuid.New(), ProductID: 7, Name: "Tee", Quantity: 2, UnitPrice: money.New(2500, "USD"), Size: "M"},
			{ID: uuid.New(), ProductID: 9, Name: "Cap", Quantity: 1, UnitPrice: money.New(2000, "USD")},
		},
	}
}

func orderRow(rows *sqlmock.Rows, id uuid.UUID, status string, now time.Time) *sqlmock.Rows {
	return rows.AddRow(id.String(), "jane@example.com", "Jane Doe", []byte(addressJSON), status, "USD",
		int64(7000), int64(700), int64(1000), int64(7300), "SAVE10", "pi_123", "", "idem-1", "session-123", now, now)
}

func TestOrderRepository_Create(t *testing.T) {
	now := time.Now().UTC()
	orderInsert := regexp.QuoteMeta(`INSERT INTO orders`)
	itemInsert := regexp.QuoteMeta(`INSERT INTO order_items`)

	t.Run("Success - Header And Lines Committed", func(t *testing.T) {
		// Arrange
		repo, mock, _ := setupOrderRepoTest(t)
		order := newPendingOrder()

		mock.ExpectBegin()
		mock.ExpectQuery(orderInsert).
			WithArgs(order.ID, "jane@example.com", "Jane Doe", sqlmock.AnyArg(), "pending", "USD",
				int64(7000), int64(700), int64(1000), int64(7300), "SAVE10", "idem-1", "session-123").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(itemInsert).
			WithArgs(order.Items[0].ID, order.ID, int64(7), "Tee", 2, int64(2500), "M", "", 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(itemInsert).
			WithArgs(order.Items[1].ID, order.ID, int64(9), "Cap", 1, int64(2000), "", "", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		// Act
		err := repo.Create(t.Context(), order)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, now, order.CreatedAt)
		for _, item := range order.Items {
			assert.Equal(t, order.ID, item.OrderID)
			assert.Equal(t, now, item.CreatedAt)
		}
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Line Insert Rolls Back Header", func(t *testing.T) {
		// Arrange
		repo, mock, _ := setupOrderRepoTest(t)
		order := newPendingOrder()

		mock.ExpectBegin()
		mock.ExpectQuery(orderInsert).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(itemInsert).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(itemInsert).WillReturnError(errors.New("foreign key violation"))
		mock.ExpectRollback()

		// Act
		err := repo.Create(t.Context(), order)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert order item 1")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Idempotency Key Reused", func(t *testing.T) {
		// Arrange
		repo, mock, _ := setupOrderRepoTest(t)

		mock.ExpectBegin()
		mock.ExpectQuery(orderInsert).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "orders_idempotency_key_key"})
		mock.ExpectRollback()

		// Act
		err := repo.Create(t.Context(), newPendingOrder())

		// Assert
		require.ErrorIs(t, err, models.ErrIdempotencyConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Other Unique Violation", func(t *testing.T) {
		// Arrange
		repo, mock, _ := setupOrderRepoTest(t)

		mock.ExpectBegin()
		mock.ExpectQuery(orderInsert).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "orders_pkey"})
		mock.ExpectRollback()

		// Act
		err := repo.Create(t.Context(), newPendingOrder())

		// Assert
		require.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrIdempotencyConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Begin Error", func(t *testing.T) {
		// Arrange
		repo, mock, _ := setupOrderRepoTest(t)
		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		// Act
		err := repo.Create(t.Context(), newPendingOrder())

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_GetByID(t *testing.T) {
	now := time.Now().UTC()
	headerQuery := regexp.QuoteMeta(`FROM orders WHERE id = $1`)
	itemsQuery := regexp.QuoteMeta(`FROM order_items WHERE order_id = ANY($1::uuid[])`)

	t.Run("Success - With Items", func(t *testing.T) {
		// Arrange
		repo, mock, _ := setupOrderRepoTest(t)
		orderID := uuid.New()
		itemID := uuid.New()

		mock.ExpectQuery(headerQuery).WithArgs(orderID).
			WillReturnRows(orderRow(sqlmock.NewRows(orderColumns), orderID, "paid", now))
		mock.ExpectQuery(itemsQuery).WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(orderItemColumns).
				AddRow(itemID.String(), orderID.String(), int64(7), "Tee", 2, int64(2500), "M", "", now))

		// Act
		order, err := repo.GetByID(t.Context(), orderID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPaid, order.Status)
		assert.Equal(t, money.New(7300, "USD"), order.Total)
		assert.Equal(t, "Springfield", order.ShippingAddress.City)
		require.Len(t, order.Items, 1)
		assert.Equal(t, itemID, order.Items[0].ID)
		assert.Equal(t, money.New(2500, "USD"), order.Items[0].UnitPrice)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		repo, mock, _ := setupOrderRepoTest(t)
		orderID := uuid.New()
		mock.ExpectQuery(headerQuery).WithArgs(orderID).WillReturnError(sql.ErrNoRows)

		// Act
		order, err := repo.GetByID(t.Context(), orderID)

		// Assert
		require.ErrorIs(t, err, models.ErrOrderNotFound)
		assert.Nil(t, order)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Items Query Error", func(t *testing.T) {
		// Arrange
		repo, mock, _ := setupOrderRepoTest(t)
		orderID := uuid.New()

		mock.ExpectQuery(headerQuery).WithArgs(orderID).
			WillReturnRows(orderRow(sqlmock.NewRows(orderColumns), orderID, "pending", now))
		mock.ExpectQuery(itemsQuery).WillReturnError(errors.New("timeout"))

		// Act
		order, err := repo.GetByID(t.Context(), orderID)

		// Assert
		require.Error(t, err)
		assert.Nil(t, order)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_GetByIdempotencyKey(t *testing.T) {
	now := time.Now().UTC()

	// Arrange
	repo, mock, _ := setupOrderRepoTest(t)
	orderID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE idempotency_key = $1`)).WithArgs("idem-1").
		WillReturnRows(orderRow(sqlmock.NewRows(orderColumns), orderID, "pending", now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
		WillReturnRows(sqlmock.NewRows(orderItemColumns))

	// Act
	order, err := repo.GetByIdempotencyKey(t.Context(), "idem-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, "idem-1", order.IdempotencyKey)
	assert.NotNil(t, order.Items)
	assert.Empty(t, order.Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List(t *testing.T) {
	now := time.Now().UTC()

	t.Run("Success - Items Grouped By Order", func(t *testing.T) {
		// Arrange
		repo, mock, _ := setupOrderRepoTest(t)
		first, second := uuid.New(), uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders`)).WithArgs("paid").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		rows := sqlmock.NewRows(orderColumns)
		orderRow(rows, first, "paid", now)
		orderRow(rows, second, "paid", now)
		mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $2 OFFSET $3`)).WithArgs("paid", 10, 0).WillReturnRows(rows)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
			WillReturnRows(sqlmock.NewRows(orderItemColumns).
				AddRow(uuid.NewString(), first.String(), int64(7), "Tee", 2, int64(2500), "M", "", now).
				AddRow(uuid.NewString(), second.String(), int64(9), "Cap", 1, int64(2000), "", "", now).
				AddRow(uuid.NewString(), second.String(), int64(7), "Tee", 1, int64(2500), "L", "", now))

		// Act
		orders, total, err := repo.List(t.Context(), models.OrderStatusPaid, 1, 10)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, orders, 2)
		assert.Len(t, orders[0].Items, 1)
		assert.Len(t, orders[1].Items, 2)
		assert.Equal(t, "USD", orders[1].Items[0].UnitPrice.Currency)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Empty Page Skips Items Query", func(t *testing.T) {
		// Arrange
		repo, mock, _ := setupOrderRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $2 OFFSET $3`)).WithArgs("", 10, 10).
			WillReturnRows(sqlmock.NewRows(orderColumns))

		// Act
		orders, total, err := repo.List(t.Context(), "", 2, 10)

		// Assert
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, orders)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_SetPaymentIntent(t *testing.T) {
	query := regexp.QuoteMeta(`UPDATE orders SET payment_intent_id = $1`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo, mock, _ := setupOrderRepoTest(t)
		orderID := uuid.New()
		mock.ExpectExec(query).WithArgs("pi_123", orderID).WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err := repo.SetPaymentIntent(t.Context(), orderID, "pi_123")

		// Assert
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		repo, mock, _ := setupOrderRepoTest(t)
		orderID := uuid.New()
		mock.ExpectExec(query).WithArgs("pi_123", orderID).WillReturnResult(sqlmock.NewResult(0, 0))

		// Act
		err := repo.SetPaymentIntent(t.Context(), orderID, "pi_123")

		// Assert
		require.ErrorIs(t, err, models.ErrOrderNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_LockAndUpdateStatus(t *testing.T) {
	now := time.Now().UTC()
	lockQuery := regexp.QuoteMeta(`FROM orders WHERE id = $1 FOR UPDATE`)
	updateQuery := regexp.QuoteMeta(`UPDATE orders`)

	t.Run("Success - Lock Then Update", func(t *testing.T) {
		// Arrange
		repo, mock, db := setupOrderRepoTest(t)
		orderID := uuid.New()

		mock.ExpectQuery(lockQuery).WithArgs(orderID).
			WillReturnRows(orderRow(sqlmock.NewRows(orderColumns), orderID, "pending", now))
		mock.ExpectExec(updateQuery).WithArgs("paid", "ch_789", orderID).WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		order, lockErr := repo.LockByID(t.Context(), db, orderID)
		updateErr := repo.UpdateStatus(t.Context(), db, orderID, models.OrderStatusPaid, "ch_789")

		// Assert
		require.NoError(t, lockErr)
		require.NoError(t, updateErr)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Equal(t, "pi_123", order.PaymentIntentID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Lock Not Found", func(t *testing.T) {
		// Arrange
		repo, mock, db := setupOrderRepoTest(t)
		orderID := uuid.New()
		mock.ExpectQuery(lockQuery).WithArgs(orderID).WillReturnError(sql.ErrNoRows)

		// Act
		order, err := repo.LockByID(t.Context(), db, orderID)

		// Assert
		require.ErrorIs(t, err, models.ErrOrderNotFound)
		assert.Nil(t, order)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Update Not Found", func(t *testing.T) {
		// Arrange
		repo, mock, db := setupOrderRepoTest(t)
		orderID := uuid.New()
		mock.ExpectExec(updateQuery).WithArgs("cancelled", "", orderID).WillReturnResult(sqlmock.NewResult(0, 0))

		// Act
		err := repo.UpdateStatus(t.Context(), db, orderID, models.OrderStatusCancelled, "")

		// Assert
		require.ErrorIs(t, err, models.ErrOrderNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
