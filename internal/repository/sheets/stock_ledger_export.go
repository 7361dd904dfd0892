// Package sheets exports daily stock snapshots to a Google Sheet the
// director keeps as an offline ledger.
package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mukwano/agrotrack/internal/config"
	"github.com/mukwano/agrotrack/internal/domain/models"
)

const snapshotRange = "StockSnapshots!A:G"

// Exporter appends stock snapshot rows to a spreadsheet.
type Exporter interface {
	AppendSnapshot(ctx context.Context, takenAt time.Time, items []models.StockItem) error
}

// SheetExporter implements Exporter using the official Google Sheets API.
type SheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewSheetExporter builds a Google Sheets backed exporter instance.
func NewSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*SheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &SheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSnapshot appends one row per stock item, stamped with the snapshot
// time.
func (e *SheetExporter) AppendSnapshot(ctx context.Context, takenAt time.Time, items []models.StockItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(items))
	stamp := takenAt.Format("2006-01-02 15:04")
	for _, item := range items {
		rows = append(rows, []interface{}{
			stamp,
			string(item.Branch),
			item.ProduceName,
			item.ProduceType,
			item.QuantityKg,
			item.SellingPrice,
			item.QuantityKg * item.SellingPrice,
		})
	}

	payload := &sheetsapi.ValueRange{Values: rows}
	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, snapshotRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append snapshot rows: %w", err)
	}

	e.logger.Debug("stock snapshot appended", zap.Int("rows", len(rows)))
	return nil
}
