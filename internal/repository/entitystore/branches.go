package entitystore

import (
	"context"
	"fmt"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

const branchesTable = "branches"

// BranchRepository reads and writes branch reference data.
type BranchRepository struct {
	client *Client
}

// NewBranchRepository wires a branch repository on the shared client.
func NewBranchRepository(client *Client) *BranchRepository {
	return &BranchRepository{client: client}
}

// List returns every branch, ordered by name.
func (r *BranchRepository) List(ctx context.Context) ([]models.Branch, error) {
	var branches []models.Branch
	q := Query{Order: []string{"name.asc"}}
	if err := r.client.Select(ctx, branchesTable, q, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// Create inserts a branch and returns the stored row.
func (r *BranchRepository) Create(ctx context.Context, branch models.Branch) (models.Branch, error) {
	var rows []models.Branch
	if err := r.client.Insert(ctx, branchesTable, branch, &rows); err != nil {
		return models.Branch{}, err
	}
	if len(rows) == 0 {
		return models.Branch{}, fmt.Errorf("insert %s: store returned no row", branchesTable)
	}
	return rows[0], nil
}
