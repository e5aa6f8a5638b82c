package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
	"github.com/wolffia-coop/ferntrack/internal/domain/stages"
)

type fakeProductStore struct {
	products map[string]models.Product

	failUpdate  error
	updateCalls int
}

func newFakeProductStore(products ...models.Product) *fakeProductStore {
	s := &fakeProductStore{products: map[string]models.Product{}}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeProductStore) List(_ context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeProductStore) ListByBranch(_ context.Context, branchID string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.BranchID == branchID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProductStore) Get(_ context.Context, id string) (models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, errors.New("product not found")
	}
	return p, nil
}

func (s *fakeProductStore) Create(_ context.Context, product models.Product) (models.Product, error) {
	s.products[product.ID] = product
	return product, nil
}

func (s *fakeProductStore) Update(_ context.Context, id string, patch map[string]any) (models.Product, error) {
	s.updateCalls++
	if s.failUpdate != nil {
		return models.Product{}, s.failUpdate
	}
	p := s.products[id]
	if status, ok := patch["status"].(models.ProductStatus); ok {
		p.Status = status
	}
	s.products[id] = p
	return p, nil
}

type fakeStageStore struct {
	rows   []models.ProductionStage
	nextID int

	insertCalls int
	updateCalls int
}

func (s *fakeStageStore) ListByProduct(_ context.Context, productID string) ([]models.ProductionStage, error) {
	var out []models.ProductionStage
	for _, row := range s.rows {
		if row.ProductID == productID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *fakeStageStore) Insert(_ context.Context, stage models.ProductionStage) (models.ProductionStage, error) {
	s.insertCalls++
	s.nextID++
	stage.ID = "row-" + strconv.Itoa(s.nextID)
	s.rows = append(s.rows, stage)
	return stage, nil
}

func (s *fakeStageStore) Update(_ context.Context, id string, patch map[string]any) (models.ProductionStage, error) {
	s.updateCalls++
	for i := range s.rows {
		if s.rows[i].ID == id {
			if data, ok := patch["stage_data"].(json.RawMessage); ok {
				s.rows[i].StageData = data
			}
			if at, ok := patch["recorded_at"].(time.Time); ok {
				s.rows[i].RecordedAt = at
			}
			return s.rows[i], nil
		}
	}
	return models.ProductionStage{}, errors.New("stage row not found")
}

func inProduction(id, branchID string) models.Product {
	return models.Product{
		ID:          id,
		BatchNumber: "WFN-1",
		BranchID:    branchID,
		Status:      models.StatusInProduction,
	}
}

var distributionPayload = json.RawMessage(`{
	"distribution_date": "2026-08-20",
	"destination": "Bangkok",
	"buyer_name": "Green Market",
	"distributor_name": "Cold Chain Co",
	"enterprise_name": "pond-coop-a",
	"shipping_cost": 120,
	"quantity": 30,
	"total_price": 4500
}`)

var plantingPayload = json.RawMessage(`{
	"farm_location": "Chiang Rai",
	"planting_date": "2026-08-01",
	"seed_variety": "wolffia globosa",
	"farmer_name": "Somchai",
	"farm_size": 2.5
}`)

func TestCreateProduct(t *testing.T) {
	products := newFakeProductStore()
	svc := NewService(products, &fakeStageStore{}, nil)

	created, err := svc.CreateProduct(context.Background(), "branch-1")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Contains(t, created.BatchNumber, batchPrefix+"-")
	assert.Equal(t, models.StatusInProduction, created.Status)

	_, err = svc.CreateProduct(context.Background(), "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestRecordStage(t *testing.T) {
	t.Run("planting stage does not touch status", func(t *testing.T) {
		products := newFakeProductStore(inProduction("p1", "branch-1"))
		stageStore := &fakeStageStore{}
		svc := NewService(products, stageStore, nil)

		row, err := svc.RecordStage(context.Background(), "p1", stages.Planting, plantingPayload)
		require.NoError(t, err)
		assert.Equal(t, stages.Planting, row.StageID)
		assert.Equal(t, "Planting", row.StageName)
		assert.Equal(t, models.StatusInProduction, products.products["p1"].Status)
	})

	t.Run("distribution stage promotes to completed", func(t *testing.T) {
		products := newFakeProductStore(inProduction("p1", "branch-1"))
		stageStore := &fakeStageStore{}
		svc := NewService(products, stageStore, nil)

		_, err := svc.RecordStage(context.Background(), "p1", stages.B2B, distributionPayload)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, products.products["p1"].Status)
	})

	t.Run("second save of a stage updates the existing row", func(t *testing.T) {
		products := newFakeProductStore(inProduction("p1", "branch-1"))
		stageStore := &fakeStageStore{}
		svc := NewService(products, stageStore, nil)

		_, err := svc.RecordStage(context.Background(), "p1", stages.Planting, plantingPayload)
		require.NoError(t, err)
		_, err = svc.RecordStage(context.Background(), "p1", stages.Planting, plantingPayload)
		require.NoError(t, err)

		assert.Equal(t, 1, stageStore.insertCalls)
		assert.Equal(t, 1, stageStore.updateCalls)
		assert.Len(t, stageStore.rows, 1)
	})

	t.Run("invalid payload never reaches the store", func(t *testing.T) {
		products := newFakeProductStore(inProduction("p1", "branch-1"))
		stageStore := &fakeStageStore{}
		svc := NewService(products, stageStore, nil)

		_, err := svc.RecordStage(context.Background(), "p1", stages.Planting, json.RawMessage(`{"farm_size": -1}`))
		require.ErrorIs(t, err, ErrValidation)
		assert.Zero(t, stageStore.insertCalls)
	})

	t.Run("failed promotion still returns the saved stage", func(t *testing.T) {
		products := newFakeProductStore(inProduction("p1", "branch-1"))
		products.failUpdate = errors.New("store down")
		stageStore := &fakeStageStore{}
		svc := NewService(products, stageStore, nil)

		row, err := svc.RecordStage(context.Background(), "p1", stages.B2C, distributionPayload)
		require.Error(t, err)
		assert.NotEmpty(t, row.ID)
		assert.Len(t, stageStore.rows, 1)
	})
}

func TestCompletedStages(t *testing.T) {
	products := newFakeProductStore(inProduction("p1", "branch-1"))
	stageStore := &fakeStageStore{}
	svc := NewService(products, stageStore, nil)

	got, err := svc.CompletedStages(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = svc.RecordStage(context.Background(), "p1", stages.Planting, plantingPayload)
	require.NoError(t, err)
	_, err = svc.RecordStage(context.Background(), "p1", stages.Growing, json.RawMessage(`{}`))
	require.NoError(t, err)

	got, err = svc.CompletedStages(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{stages.Planting, stages.Growing}, got)
}

func TestStageDetails(t *testing.T) {
	products := newFakeProductStore(inProduction("p1", "branch-1"))
	stageStore := &fakeStageStore{}
	svc := NewService(products, stageStore, nil)

	_, err := svc.RecordStage(context.Background(), "p1", stages.Growing, json.RawMessage(`{"care_notes": "ok"}`))
	require.NoError(t, err)

	details, err := svc.StageDetails(context.Background(), "p1")
	require.NoError(t, err)
	require.Contains(t, details, stages.Growing)
	assert.JSONEq(t, `{"care_notes": "ok"}`, string(details[stages.Growing]))
}

func TestGetProductHealsTornPromotion(t *testing.T) {
	products := newFakeProductStore(inProduction("p1", "branch-1"))
	stageStore := &fakeStageStore{rows: []models.ProductionStage{{
		ID:        "row-1",
		ProductID: "p1",
		StageID:   stages.NetworkTrade,
		StageData: distributionPayload,
	}}}
	svc := NewService(products, stageStore, nil)

	product, rows, err := svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, product.Status)
	assert.Len(t, rows, 1)
	assert.Equal(t, models.StatusCompleted, products.products["p1"].Status)
}

func TestReconcileAll(t *testing.T) {
	torn := inProduction("p1", "branch-1")
	healthy := inProduction("p2", "branch-1")
	done := models.Product{ID: "p3", BranchID: "branch-1", Status: models.StatusCompleted}

	products := newFakeProductStore(torn, healthy, done)
	stageStore := &fakeStageStore{rows: []models.ProductionStage{
		{ID: "row-1", ProductID: "p1", StageID: stages.B2B, StageData: distributionPayload},
		{ID: "row-2", ProductID: "p2", StageID: stages.Planting, StageData: plantingPayload},
	}}
	svc := NewService(products, stageStore, nil)

	require.NoError(t, svc.ReconcileAll(context.Background()))

	assert.Equal(t, models.StatusCompleted, products.products["p1"].Status)
	assert.Equal(t, models.StatusInProduction, products.products["p2"].Status)
	assert.Equal(t, models.StatusCompleted, products.products["p3"].Status)
	// Only the torn product was written.
	assert.Equal(t, 1, products.updateCalls)
}

func TestReconcileNeverDemotes(t *testing.T) {
	manual := models.Product{ID: "p1", BranchID: "branch-1", Status: models.StatusCompleted}
	products := newFakeProductStore(manual)
	svc := NewService(products, &fakeStageStore{}, nil)

	product, _, err := svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, product.Status)
	assert.Zero(t, products.updateCalls)
}

func TestUpdateStatus(t *testing.T) {
	products := newFakeProductStore(inProduction("p1", "branch-1"))
	svc := NewService(products, &fakeStageStore{}, nil)

	updated, err := svc.UpdateStatus(context.Background(), "p1", models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), "p1", "archived")
	require.ErrorIs(t, err, ErrValidation)
}
