package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/flockreport/internal/domain/models"
	"github.com/mamadbah2/flockreport/internal/service/access"
	"github.com/mamadbah2/flockreport/internal/service/export"
	"github.com/mamadbah2/flockreport/internal/service/notify"
)

// ReportBuilder produces both insertion reports.
type ReportBuilder interface {
	FinancialReport(ctx context.Context, filter models.ReportFilter) (models.Report[models.FinancialRow], error)
	ProductionReport(ctx context.Context, filter models.ReportFilter) (models.Report[models.ProductionRow], error)
}

// SnapshotExporter publishes rendered report tables.
type SnapshotExporter interface {
	Export(ctx context.Context, tables ...export.Table) error
}

// SnapshotResult summarizes one snapshot run.
type SnapshotResult struct {
	Since          time.Time
	FinancialRows  int
	ProductionRows int
	Mismatches     int
}

// Service builds periodic report snapshots for every farm.
type Service struct {
	reports      ReportBuilder
	exporter     SnapshotExporter
	notifier     notify.Notifier
	lookbackDays int
	now          func() time.Time
	logger       *zap.Logger
}

// NewService wires a snapshot service. exporter and notifier may be nil
// when the corresponding integration is disabled.
func NewService(reports ReportBuilder, exporter SnapshotExporter, notifier notify.Notifier, lookbackDays int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reports:      reports,
		exporter:     exporter,
		notifier:     notifier,
		lookbackDays: lookbackDays,
		now:          time.Now,
		logger:       logger,
	}
}

// SnapshotFilter covers the insertions placed during the lookback window.
func (s *Service) SnapshotFilter() models.ReportFilter {
	now := s.now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -s.lookbackDays)
	return models.ReportFilter{DateSince: &since}
}

// RunSnapshot builds both reports as the system principal, exports them and
// alerts the operator about unreconciled bird balances. A failed export does
// not prevent the alert.
func (s *Service) RunSnapshot(ctx context.Context) (SnapshotResult, error) {
	ctx = access.WithPrincipal(ctx, access.SystemPrincipal())
	filter := s.SnapshotFilter()
	result := SnapshotResult{Since: *filter.DateSince}

	financial, err := s.reports.FinancialReport(ctx, filter)
	if err != nil {
		return result, fmt.Errorf("build financial snapshot: %w", err)
	}
	production, err := s.reports.ProductionReport(ctx, filter)
	if err != nil {
		return result, fmt.Errorf("build production snapshot: %w", err)
	}

	result.FinancialRows = financial.TotalRows
	result.ProductionRows = production.TotalRows
	for _, row := range production.Rows {
		if row.BalanceMismatch() {
			result.Mismatches++
		}
	}

	var errs []error
	if s.exporter != nil {
		if err := s.exporter.Export(ctx, export.FinancialTable(financial), export.ProductionTable(production)); err != nil {
			errs = append(errs, err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyBalanceMismatches(ctx, production.Rows); err != nil {
			errs = append(errs, err)
		}
	}

	s.logger.Info("report snapshot completed",
		zap.Time("since", result.Since),
		zap.Int("financial_rows", result.FinancialRows),
		zap.Int("production_rows", result.ProductionRows),
		zap.Int("balance_mismatches", result.Mismatches))

	return result, errors.Join(errs...)
}
