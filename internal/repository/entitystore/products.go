package entitystore

import (
	"context"
	"fmt"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

const productsTable = "products"

// ProductRepository reads and writes product batches.
type ProductRepository struct {
	client *Client
}

// NewProductRepository wires a product repository on the shared client.
func NewProductRepository(client *Client) *ProductRepository {
	return &ProductRepository{client: client}
}

// List returns every product, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	q := Query{Order: []string{"created_at.desc"}}
	if err := r.client.Select(ctx, productsTable, q, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListByBranch returns the branch's products, newest first.
func (r *ProductRepository) ListByBranch(ctx context.Context, branchID string) ([]models.Product, error) {
	var products []models.Product
	q := Query{
		Filters: []Filter{Eq("branch_id", branchID)},
		Order:   []string{"created_at.desc"},
	}
	if err := r.client.Select(ctx, productsTable, q, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get fetches a single product by id.
func (r *ProductRepository) Get(ctx context.Context, id string) (models.Product, error) {
	var products []models.Product
	q := Query{Filters: []Filter{Eq("id", id)}, Limit: 1}
	if err := r.client.Select(ctx, productsTable, q, &products); err != nil {
		return models.Product{}, err
	}
	if len(products) == 0 {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return products[0], nil
}

// Create inserts a product and returns the stored row.
func (r *ProductRepository) Create(ctx context.Context, product models.Product) (models.Product, error) {
	var rows []models.Product
	if err := r.client.Insert(ctx, productsTable, product, &rows); err != nil {
		return models.Product{}, err
	}
	if len(rows) == 0 {
		return models.Product{}, fmt.Errorf("insert %s: store returned no row", productsTable)
	}
	return rows[0], nil
}

// Update patches a product and returns the stored row.
func (r *ProductRepository) Update(ctx context.Context, id string, patch map[string]any) (models.Product, error) {
	var rows []models.Product
	if err := r.client.Update(ctx, productsTable, id, patch, &rows); err != nil {
		return models.Product{}, err
	}
	if len(rows) == 0 {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return rows[0], nil
}
