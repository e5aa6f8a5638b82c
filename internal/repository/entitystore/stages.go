package entitystore

import (
	"context"
	"fmt"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

const stagesTable = "production_stages"

// StageRepository reads and writes production stage rows.
type StageRepository struct {
	client *Client
}

// NewStageRepository wires a stage repository on the shared client.
func NewStageRepository(client *Client) *StageRepository {
	return &StageRepository{client: client}
}

// ListByProduct returns all stage rows for a product in recording order.
func (r *StageRepository) ListByProduct(ctx context.Context, productID string) ([]models.ProductionStage, error) {
	var rows []models.ProductionStage
	q := Query{
		Filters: []Filter{Eq("product_id", productID)},
		Order:   []string{"recorded_at.asc"},
	}
	if err := r.client.Select(ctx, stagesTable, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRecent returns the latest recorded stage rows across all products,
// most recent first.
func (r *StageRepository) ListRecent(ctx context.Context, limit int) ([]models.ProductionStage, error) {
	var rows []models.ProductionStage
	q := Query{Order: []string{"recorded_at.desc"}, Limit: limit}
	if err := r.client.Select(ctx, stagesTable, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert writes a new stage row and returns the stored representation.
func (r *StageRepository) Insert(ctx context.Context, stage models.ProductionStage) (models.ProductionStage, error) {
	var rows []models.ProductionStage
	if err := r.client.Insert(ctx, stagesTable, stage, &rows); err != nil {
		return models.ProductionStage{}, err
	}
	if len(rows) == 0 {
		return models.ProductionStage{}, fmt.Errorf("insert %s: store returned no row", stagesTable)
	}
	return rows[0], nil
}

// Update patches an existing stage row and returns the stored representation.
func (r *StageRepository) Update(ctx context.Context, id string, patch map[string]any) (models.ProductionStage, error) {
	var rows []models.ProductionStage
	if err := r.client.Update(ctx, stagesTable, id, patch, &rows); err != nil {
		return models.ProductionStage{}, err
	}
	if len(rows) == 0 {
		return models.ProductionStage{}, fmt.Errorf("stage %s: %w", id, ErrNotFound)
	}
	return rows[0], nil
}
