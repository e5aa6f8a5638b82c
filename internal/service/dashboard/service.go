package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

// recentFetchSize over-fetches stage rows so a branch filter still fills the
// activity window.
const recentFetchSize = 50

// BranchSource lists the branch reference data.
type BranchSource interface {
	List(ctx context.Context) ([]models.Branch, error)
}

// ProductSource lists the product collection.
type ProductSource interface {
	List(ctx context.Context) ([]models.Product, error)
}

// StageSource lists recent stage-recording events.
type StageSource interface {
	ListRecent(ctx context.Context, limit int) ([]models.ProductionStage, error)
}

// Service assembles the dashboard summary from the live collections.
type Service struct {
	branches BranchSource
	products ProductSource
	stages   StageSource
	logger   *zap.Logger
}

// NewService wires the dashboard aggregator.
func NewService(branches BranchSource, products ProductSource, stages StageSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{branches: branches, products: products, stages: stages, logger: logger}
}

// Overview fetches the current collections and folds them into a summary.
// branchID, when non-empty, restricts counts and activity to one branch.
func (s *Service) Overview(ctx context.Context, branchID string) (Summary, error) {
	branches, err := s.branches.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load branches: %w", err)
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load products: %w", err)
	}

	recent, err := s.stages.ListRecent(ctx, recentFetchSize)
	if err != nil {
		return Summary{}, fmt.Errorf("load recent stages: %w", err)
	}

	return BuildSummary(branches, products, recent, branchID), nil
}
