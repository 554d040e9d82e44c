package service

import (
	"context"
	stdErrors "errors"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
)

// ReconciliationService exposes the operator queue of paid orders whose
// side effects could not be completed.
type ReconciliationService interface {
	ListOpenIssues(ctx context.Context, page, size int) (*models.PaginatedResponse, error)
	ResolveIssue(ctx context.Context, id uuid.UUID) error
}

type reconciliationService struct {
	repo repository.ReconciliationRepository
}

func NewReconciliationService(repo repository.ReconciliationRepository) ReconciliationService {
	return &reconciliationService{repo: repo}
}

// ListOpenIssues implements ReconciliationService.
func (s *reconciliationService) ListOpenIssues(ctx context.Context, page, size int) (*models.PaginatedResponse, error) {

	issues, total, err := s.repo.ListOpen(ctx, page, size)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch reconciliation issues").WithError(err)
	}

	return models.NewPage(issues, total, page, size), nil
}

// ResolveIssue implements ReconciliationService.
func (s *reconciliationService) ResolveIssue(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.Resolve(ctx, id); err != nil {
		if stdErrors.Is(err, models.ErrIssueNotFound) {
			return errors.NotFoundError("Reconciliation issue not found").WithError(err)
		}

		return errors.DatabaseError("Failed to resolve reconciliation issue").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Reconciliation issue resolved", "issue_id", id.String())

	return nil
}
