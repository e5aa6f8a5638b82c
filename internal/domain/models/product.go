package models

import (
	"encoding/json"
	"time"
)

// ProductStatus is the lifecycle status of a product batch.
type ProductStatus string

const (
	StatusInProduction ProductStatus = "in_production"
	StatusCompleted    ProductStatus = "completed"
	StatusCancelled    ProductStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s ProductStatus) Valid() bool {
	switch s {
	case StatusInProduction, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Branch is a community enterprise site. Branch names double as the
// enterprise catalog for daily cultivation records.
type Branch struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	ManagerName string    `json:"manager_name,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Product is one production batch owned by a branch. Status only moves
// forward in normal operation: in_production to completed, never back.
type Product struct {
	ID          string        `json:"id"`
	BatchNumber string        `json:"batch_number"`
	BranchID    string        `json:"branch_id"`
	Status      ProductStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	Branch      *Branch       `json:"branch,omitempty"`
}

// ProductionStage is one recorded pipeline step for a product. At most one
// row exists per (product, stage); re-saving a stage overwrites the row.
type ProductionStage struct {
	ID         string          `json:"id,omitempty"`
	ProductID  string          `json:"product_id"`
	StageID    string          `json:"stage_id"`
	StageName  string          `json:"stage_name"`
	StageData  json.RawMessage `json:"stage_data"`
	RecordedAt time.Time       `json:"recorded_at"`
}
