package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/flockreport/internal/config"
)

// Repository defines the persistence operations supported by the Google Sheets adapter.
type Repository interface {
	ReplaceSheet(ctx context.Context, sheet string, values [][]interface{}) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// ReplaceSheet clears the tab and writes values starting at its first cell.
func (r *GoogleSheetRepository) ReplaceSheet(ctx context.Context, sheet string, values [][]interface{}) error {
	if sheet == "" {
		return fmt.Errorf("sheet must not be empty")
	}

	clearCall := r.service.Spreadsheets.Values.Clear(r.spreadsheetID, sheet, &sheetsapi.ClearValuesRequest{}).
		Context(ctx)
	if _, err := clearCall.Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", sheet, err)
	}

	target := anchor(sheet)
	payload := &sheetsapi.ValueRange{Range: target, Values: values}

	call := r.service.Spreadsheets.Values.Update(r.spreadsheetID, target, payload).
		ValueInputOption("USER_ENTERED").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("write range %s: %w", target, err)
	}

	r.logger.Debug("sheet replaced", zap.String("range", target), zap.Int("rows", len(values)))
	return nil
}

func anchor(sheet string) string {
	return sheet + "!A1"
}
