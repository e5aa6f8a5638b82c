package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/wolffia-coop/ferntrack/internal/config"
	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

// Exporter appends dashboard snapshot rows to the co-op's shared spreadsheet.
type Exporter interface {
	AppendSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	snapshotRange string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		snapshotRange: cfg.SnapshotRange,
		logger:        logger,
	}, nil
}

// AppendSnapshot appends one snapshot as a spreadsheet row.
func (r *GoogleSheetExporter) AppendSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error {
	if r.snapshotRange == "" {
		return fmt.Errorf("snapshot range must not be empty")
	}

	values := []interface{}{
		snapshot.Date.Format("2006-01-02"),
		snapshot.TotalProducts,
		snapshot.InProduction,
		snapshot.Completed,
		snapshot.Cancelled,
		snapshot.BranchCount,
		snapshot.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, r.snapshotRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append snapshot into range %s: %w", r.snapshotRange, err)
	}

	r.logger.Debug("snapshot appended to sheet", zap.String("range", r.snapshotRange))
	return nil
}
