package health

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	stripeClient "github.com/aaravmahajanofficial/storefront/pkg/stripe"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// Endpoints are the live clients the storefront already holds.
type Endpoints struct {
	DB           *sql.DB
	RedisClient  *redis.Client
	StripeClient stripeClient.Client
}

// requiredTables must exist before checkout can take traffic.
var requiredTables = []string{"products", "discounts", "orders", "order_items"}

// NewHealthHandler reports unhealthy only for stores checkout cannot run
// without. Stripe and Kafka outages mark the service degraded.
func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {
	checks := []health.Config{
		{
			Name:    "database",
			Timeout: 3 * time.Second,
			Check:   postgres.New(postgres.Config{DSN: cfg.Database.GetDSN()}),
		},
		{
			Name:    "redis",
			Timeout: 2 * time.Second,
			Check:   healthRedis.New(healthRedis.Config{DSN: cfg.RedisConnect.GetDSN()}),
		},
		{
			Name:      "stripe",
			Timeout:   5 * time.Second,
			SkipOnErr: true,
			Check:     stripeCheck(endpoints.StripeClient),
		},
	}

	if endpoints.DB != nil {
		checks = append(checks, health.Config{
			Name:    "schema",
			Timeout: 3 * time.Second,
			Check:   schemaCheck(endpoints.DB),
		})
	}

	if len(cfg.Kafka.Brokers) > 0 {
		checks = append(checks, health.Config{
			Name:      "kafka",
			Timeout:   3 * time.Second,
			SkipOnErr: true,
			Check:     kafkaCheck(cfg.Kafka.Brokers),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{Name: cfg.OTel.ServiceName, Version: "1.0.0"}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

func stripeCheck(client stripeClient.Client) health.CheckFunc {
	return func(ctx context.Context) error {
		if client == nil {
			return errors.New("stripe client is not initialized")
		}

		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach stripe: %w", err)
		}

		return nil
	}
}

// schemaCheck catches a database that is reachable but was never migrated.
func schemaCheck(db *sql.DB) health.CheckFunc {
	return func(ctx context.Context) error {
		for _, table := range requiredTables {
			var found sql.NullString
			if err := db.QueryRowContext(ctx, `SELECT to_regclass($1)::text`, "public."+table).Scan(&found); err != nil {
				return fmt.Errorf("schema lookup for %s: %w", table, err)
			}

			if !found.Valid {
				return fmt.Errorf("table %s is missing; run migrations", table)
			}
		}

		return nil
	}
}

// kafkaCheck passes when any broker accepts a connection.
func kafkaCheck(brokers []string) health.CheckFunc {
	return func(ctx context.Context) error {
		var lastErr error
		for _, broker := range brokers {
			conn, err := kafka.DialContext(ctx, "tcp", broker)
			if err != nil {
				lastErr = err
				continue
			}

			return conn.Close()
		}

		return fmt.Errorf("no kafka broker reachable: %w", lastErr)
	}
}
