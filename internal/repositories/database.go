package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"go.opentelemetry.io/otel/attribute"

	_ "github.com/lib/pq"
)

type Repository struct {
	DB             *sql.DB
	Tx             TxManager
	Product        ProductRepository
	Discount       DiscountRepository
	Order          OrderRepository
	Reconciliation ReconciliationRepository
}

func New(cfg *config.Config) (*Repository, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	utils.SetDBTimeout(cfg.Database.QueryTimeout)

	pingCtx, cancel := utils.WithDBTimeout(context.Background())
	defer cancel()

	// Test the connection to make sure DB is reachable
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.MigrateOnStart {
		if err := Migrate(cfg.Database.GetDSN()); err != nil {
			db.Close()
			return nil, err
		}
	}

	slog.Info("✅ Database connection established", slog.String("host", cfg.Database.Host), slog.String("db", cfg.Database.Name))

	return NewWithDB(db), nil
}

// NewWithDB wires every repository onto an existing pool.
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{
		DB:             db,
		Tx:             NewTxManager(db),
		Product:        NewProductRepository(db),
		Discount:       NewDiscountRepository(db),
		Order:          NewOrderRepository(db),
		Reconciliation: NewReconciliationRepository(db),
	}
}

func (p *Repository) Close() error {
	return p.DB.Close()
}
