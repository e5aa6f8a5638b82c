package entitystore

import (
	"context"
	"fmt"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

const recordsTable = "daily_cultivation_records"

// RecordRepository reads and writes daily cultivation records.
type RecordRepository struct {
	client *Client
}

// NewRecordRepository wires a record repository on the shared client.
func NewRecordRepository(client *Client) *RecordRepository {
	return &RecordRepository{client: client}
}

// ListByEnterprise returns the enterprise's full record set ordered by cycle
// then day. The resolver indices depend on this fetch order.
func (r *RecordRepository) ListByEnterprise(ctx context.Context, enterpriseName string) ([]models.DailyCultivationRecord, error) {
	var rows []models.DailyCultivationRecord
	q := Query{
		Filters: []Filter{Eq("enterprise_name", enterpriseName)},
		Order:   []string{"cycle_number.asc", "day_number.asc"},
	}
	if err := r.client.Select(ctx, recordsTable, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert writes a new daily record and returns the stored row with its id.
func (r *RecordRepository) Insert(ctx context.Context, record models.DailyCultivationRecord) (models.DailyCultivationRecord, error) {
	var rows []models.DailyCultivationRecord
	if err := r.client.Insert(ctx, recordsTable, record, &rows); err != nil {
		return models.DailyCultivationRecord{}, err
	}
	if len(rows) == 0 {
		return models.DailyCultivationRecord{}, fmt.Errorf("insert %s: store returned no row", recordsTable)
	}
	return rows[0], nil
}

// Update replaces the record with the given id and returns the stored row.
func (r *RecordRepository) Update(ctx context.Context, id string, record models.DailyCultivationRecord) (models.DailyCultivationRecord, error) {
	record.ID = "" // the id is addressed by the filter, not the payload
	var rows []models.DailyCultivationRecord
	if err := r.client.Update(ctx, recordsTable, id, record, &rows); err != nil {
		return models.DailyCultivationRecord{}, err
	}
	if len(rows) == 0 {
		return models.DailyCultivationRecord{}, fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return rows[0], nil
}
