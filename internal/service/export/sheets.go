package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// SheetWriter replaces the content of one spreadsheet tab.
type SheetWriter interface {
	ReplaceSheet(ctx context.Context, sheet string, values [][]interface{}) error
}

// SheetsExporter publishes report tables as spreadsheet snapshots.
type SheetsExporter struct {
	writer SheetWriter
	logger *zap.Logger
}

// NewSheetsExporter wires an exporter on top of a sheet writer.
func NewSheetsExporter(writer SheetWriter, logger *zap.Logger) *SheetsExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetsExporter{writer: writer, logger: logger}
}

// Export rewrites one tab per table. It stops at the first failing tab.
func (e *SheetsExporter) Export(ctx context.Context, tables ...Table) error {
	for _, table := range tables {
		if err := e.writer.ReplaceSheet(ctx, table.Name, table.Values()); err != nil {
			return fmt.Errorf("export %s snapshot: %w", table.Name, err)
		}
		e.logger.Info("report snapshot exported", zap.String("sheet", table.Name), zap.Int("rows", len(table.Rows)))
	}
	return nil
}
