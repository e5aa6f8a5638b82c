// Package pipeline tracks a product batch through the fixed production
// stage catalog and owns the status promotion that completes a batch.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
	"github.com/wolffia-coop/ferntrack/internal/domain/stages"
)

// ErrValidation wraps request problems caught before any store write.
var ErrValidation = errors.New("validation failed")

// batchPrefix starts every generated batch number.
const batchPrefix = "WFN"

// ProductStore is the slice of the entity store the pipeline needs for
// products.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	ListByBranch(ctx context.Context, branchID string) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, product models.Product) (models.Product, error)
	Update(ctx context.Context, id string, patch map[string]any) (models.Product, error)
}

// StageStore is the slice of the entity store the pipeline needs for stage
// rows.
type StageStore interface {
	ListByProduct(ctx context.Context, productID string) ([]models.ProductionStage, error)
	Insert(ctx context.Context, stage models.ProductionStage) (models.ProductionStage, error)
	Update(ctx context.Context, id string, patch map[string]any) (models.ProductionStage, error)
}

// Service is the stage pipeline controller.
type Service struct {
	productRepo ProductStore
	stageRepo   StageStore
	logger      *zap.Logger
	now         func() time.Time
}

// NewService wires the pipeline controller.
func NewService(productRepo ProductStore, stageRepo StageStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		productRepo: productRepo,
		stageRepo:   stageRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateProduct starts a new batch for a branch in in_production status.
func (s *Service) CreateProduct(ctx context.Context, branchID string) (models.Product, error) {
	if branchID == "" {
		return models.Product{}, fmt.Errorf("%w: branch id is required", ErrValidation)
	}

	now := s.now()
	product := models.Product{
		ID:          uuid.NewString(),
		BatchNumber: batchPrefix + "-" + strconv.FormatInt(now.UnixMilli(), 10),
		BranchID:    branchID,
		Status:      models.StatusInProduction,
		CreatedAt:   now,
	}

	created, err := s.productRepo.Create(ctx, product)
	if err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", created.ID),
		zap.String("batch", created.BatchNumber),
		zap.String("branch_id", created.BranchID))
	return created, nil
}

// ListProducts returns all batches, or a branch's batches when branchID is
// non-empty.
func (s *Service) ListProducts(ctx context.Context, branchID string) ([]models.Product, error) {
	if branchID == "" {
		return s.productRepo.List(ctx)
	}
	return s.productRepo.ListByBranch(ctx, branchID)
}

// GetProduct fetches a product with its stage rows and reconciles the
// product status against them, healing any torn stage-then-status write.
func (s *Service) GetProduct(ctx context.Context, id string) (models.Product, []models.ProductionStage, error) {
	product, err := s.productRepo.Get(ctx, id)
	if err != nil {
		return models.Product{}, nil, err
	}

	rows, err := s.stageRepo.ListByProduct(ctx, id)
	if err != nil {
		return models.Product{}, nil, fmt.Errorf("load stages for %s: %w", id, err)
	}

	product, err = s.reconcile(ctx, product, rows)
	if err != nil {
		// The read itself succeeded; surface the heal failure in logs only
		// and let the next load retry it.
		s.logger.Warn("status reconcile on load failed", zap.String("product_id", id), zap.Error(err))
	}

	return product, rows, nil
}

// CompletedStages returns the set of stage ids with at least one stored row
// for the product. Purely informational: completion never gates access.
func (s *Service) CompletedStages(ctx context.Context, productID string) ([]string, error) {
	rows, err := s.stageRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load stages for %s: %w", productID, err)
	}

	seen := make(map[string]struct{}, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.StageID]; ok {
			continue
		}
		seen[row.StageID] = struct{}{}
		ids = append(ids, row.StageID)
	}
	return ids, nil
}

// StageDetails maps each recorded stage id to its stored payload, for
// pre-filling a stage form.
func (s *Service) StageDetails(ctx context.Context, productID string) (map[string]json.RawMessage, error) {
	rows, err := s.stageRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load stages for %s: %w", productID, err)
	}

	details := make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		details[row.StageID] = row.StageData
	}
	return details, nil
}

// RecordStage validates and persists a stage payload for a product. A second
// save of the same stage overwrites the existing row instead of inserting a
// duplicate. Recording a distribution stage additionally promotes the
// product to completed; the promotion is one-way and, should it fail after
// the stage write, the reconcile pass heals it on the next load or sweep.
func (s *Service) RecordStage(ctx context.Context, productID, stageID string, raw json.RawMessage) (models.ProductionStage, error) {
	stage, ok := stages.Lookup(stageID)
	if !ok {
		return models.ProductionStage{}, fmt.Errorf("%w: unknown stage %q", ErrValidation, stageID)
	}

	data, err := stages.Decode(stageID, raw)
	if err != nil {
		return models.ProductionStage{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return models.ProductionStage{}, fmt.Errorf("encode %s payload: %w", stageID, err)
	}

	product, err := s.productRepo.Get(ctx, productID)
	if err != nil {
		return models.ProductionStage{}, err
	}

	existingRows, err := s.stageRepo.ListByProduct(ctx, productID)
	if err != nil {
		return models.ProductionStage{}, fmt.Errorf("load stages for %s: %w", productID, err)
	}

	now := s.now()

	var saved models.ProductionStage
	if existing := findStage(existingRows, stageID); existing != nil {
		saved, err = s.stageRepo.Update(ctx, existing.ID, map[string]any{
			"stage_data":  json.RawMessage(payload),
			"recorded_at": now,
		})
		if err != nil {
			return models.ProductionStage{}, fmt.Errorf("update stage %s: %w", stageID, err)
		}
	} else {
		saved, err = s.stageRepo.Insert(ctx, models.ProductionStage{
			ProductID:  productID,
			StageID:    stageID,
			StageName:  stage.Name,
			StageData:  payload,
			RecordedAt: now,
		})
		if err != nil {
			return models.ProductionStage{}, fmt.Errorf("insert stage %s: %w", stageID, err)
		}
	}

	s.logger.Info("stage recorded",
		zap.String("product_id", productID),
		zap.String("stage_id", stageID))

	if stage.Distribution && product.Status != models.StatusCompleted {
		if _, err := s.productRepo.Update(ctx, productID, map[string]any{"status": models.StatusCompleted}); err != nil {
			return saved, fmt.Errorf("stage %s recorded but status promotion pending reconcile: %w", stageID, err)
		}
		s.logger.Info("product completed",
			zap.String("product_id", productID),
			zap.String("via_stage", stageID))
	}

	return saved, nil
}

// UpdateStatus writes an explicit status change, the manual cancel/complete
// path. The nightly reconcile never demotes, so a manual completed stays.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.ProductStatus) (models.Product, error) {
	if !status.Valid() {
		return models.Product{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	updated, err := s.productRepo.Update(ctx, id, map[string]any{"status": status})
	if err != nil {
		return models.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}

	s.logger.Info("product status updated",
		zap.String("product_id", id),
		zap.String("status", string(status)))
	return updated, nil
}

// ReconcileAll sweeps every in-production product and promotes those whose
// stored stages already include a distribution stage. Idempotent; run by the
// nightly scheduler.
func (s *Service) ReconcileAll(ctx context.Context) error {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	var healed int
	for _, product := range products {
		if product.Status != models.StatusInProduction {
			continue
		}

		rows, err := s.stageRepo.ListByProduct(ctx, product.ID)
		if err != nil {
			s.logger.Warn("reconcile skip product", zap.String("product_id", product.ID), zap.Error(err))
			continue
		}

		updated, err := s.reconcile(ctx, product, rows)
		if err != nil {
			s.logger.Warn("reconcile failed", zap.String("product_id", product.ID), zap.Error(err))
			continue
		}
		if updated.Status != product.Status {
			healed++
		}
	}

	if healed > 0 {
		s.logger.Info("status reconcile sweep healed products", zap.Int("count", healed))
	}
	return nil
}

// reconcile derives the correct status from the stored stage rows and writes
// it when it differs. A completed product is never demoted.
func (s *Service) reconcile(ctx context.Context, product models.Product, rows []models.ProductionStage) (models.Product, error) {
	if product.Status != models.StatusInProduction {
		return product, nil
	}

	if !hasDistributionStage(rows) {
		return product, nil
	}

	updated, err := s.productRepo.Update(ctx, product.ID, map[string]any{"status": models.StatusCompleted})
	if err != nil {
		return product, fmt.Errorf("promote product %s: %w", product.ID, err)
	}

	s.logger.Info("reconciled product status",
		zap.String("product_id", product.ID),
		zap.String("from", string(product.Status)),
		zap.String("to", string(updated.Status)))
	return updated, nil
}

func findStage(rows []models.ProductionStage, stageID string) *models.ProductionStage {
	for i := range rows {
		if rows[i].StageID == stageID {
			return &rows[i]
		}
	}
	return nil
}

func hasDistributionStage(rows []models.ProductionStage) bool {
	for _, row := range rows {
		if stages.IsDistribution(row.StageID) {
			return true
		}
	}
	return false
}
