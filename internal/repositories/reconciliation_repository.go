package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
)

// ReconciliationRepository persists the operator queue of payment anomalies.
type ReconciliationRepository interface {
	// Create records the issue on tx; a repeat for the same order and kind is ignored.
	Create(ctx context.Context, tx DBTX, issue *models.ReconciliationIssue) error
	ListOpen(ctx context.Context, page, size int) ([]models.ReconciliationIssue, int, error)
	Resolve(ctx context.Context, id uuid.UUID) error
}

type reconciliationRepository struct {
	DB *sql.DB
}

func NewReconciliationRepository(db *sql.DB) ReconciliationRepository {
	return &reconciliationRepository{DB: db}
}

func (r *reconciliationRepository) Create(ctx context.Context, tx DBTX, issue *models.ReconciliationIssue) error {

	if issue.ID == uuid.Nil {
		issue.ID = uuid.New()
	}

	query := `
		INSERT INTO reconciliation_issues (id, order_id, kind, detail, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (order_id, kind) DO NOTHING`

	if _, err := tx.ExecContext(ctx, query, issue.ID, issue.OrderID, issue.Kind, issue.Detail); err != nil {
		return fmt.Errorf("failed to record reconciliation issue: %w", err)
	}

	return nil
}

func (r *reconciliationRepository) ListOpen(ctx context.Context, page, size int) ([]models.ReconciliationIssue, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM reconciliation_issues WHERE NOT resolved`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reconciliation issues: %w", err)
	}

	query := `
		SELECT id, order_id, kind, detail, resolved, resolved_at, created_at
		FROM reconciliation_issues
		WHERE NOT resolved
		ORDER BY created_at
		LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, models.PageOffset(page, size))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reconciliation issues: %w", err)
	}
	defer rows.Close()

	issues := []models.ReconciliationIssue{}

	for rows.Next() {
		var (
			issue      models.ReconciliationIssue
			resolvedAt sql.NullTime
		)

		if err := rows.Scan(&issue.ID, &issue.OrderID, &issue.Kind, &issue.Detail, &issue.Resolved, &resolvedAt, &issue.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan reconciliation issue: %w", err)
		}

		if resolvedAt.Valid {
			issue.ResolvedAt = &resolvedAt.Time
		}

		issues = append(issues, issue)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return issues, total, nil
}

func (r *reconciliationRepository) Resolve(ctx context.Context, id uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `UPDATE reconciliation_issues SET resolved = TRUE, resolved_at = NOW() WHERE id = $1 AND NOT resolved`, id)
	if err != nil {
		return fmt.Errorf("failed to resolve reconciliation issue: %w", err)
	}

	return expectOneRow(result, models.ErrIssueNotFound)
}
