package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/flockreport/internal/domain/models"
	"github.com/mamadbah2/flockreport/internal/service/analytics"
	"github.com/mamadbah2/flockreport/internal/service/export"
)

const (
	dateLayout = "2006-01-02"
	xlsxMIME   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvMIME    = "text/csv; charset=utf-8"

	formatJSON = "json"
	formatXLSX = "xlsx"
	formatCSV  = "csv"
)

// ReportService describes the report operations exposed over HTTP.
type ReportService interface {
	FinancialReport(ctx context.Context, filter models.ReportFilter) (models.Report[models.FinancialRow], error)
	ProductionReport(ctx context.Context, filter models.ReportFilter) (models.Report[models.ProductionRow], error)
}

// ReportHandler serves the financial and production reports.
type ReportHandler struct {
	svc    ReportService
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc ReportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

type reportQuery struct {
	FarmIDs     []int64  `form:"farm_id"`
	HenhouseIDs []int64  `form:"henhouse_id"`
	HatcheryIDs []int64  `form:"hatchery_id"`
	Cycles      []string `form:"cycle"`
	DateSince   string   `form:"date_since"`
	DateTo      string   `form:"date_to"`
	Format      string   `form:"format"`
}

// Financial returns one money row per insertion.
func (h *ReportHandler) Financial(c *gin.Context) {
	serveReport(h, c, "financial", h.svc.FinancialReport, export.FinancialTable)
}

// Production returns one flock performance row per insertion.
func (h *ReportHandler) Production(c *gin.Context) {
	serveReport(h, c, "production", h.svc.ProductionReport, export.ProductionTable)
}

func serveReport[T any](
	h *ReportHandler,
	c *gin.Context,
	kind string,
	build func(context.Context, models.ReportFilter) (models.Report[T], error),
	table func(models.Report[T]) export.Table,
) {
	var query reportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Warn("invalid report query", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	format := query.Format
	if format == "" {
		format = formatJSON
	}
	if format != formatJSON && format != formatXLSX && format != formatCSV {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported format %q", query.Format)})
		return
	}

	filter, err := query.filter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := build(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, kind, err)
		return
	}

	if format == formatJSON {
		c.JSON(http.StatusOK, report)
		return
	}

	var (
		buf  bytes.Buffer
		mime = xlsxMIME
	)
	if format == formatCSV {
		mime = csvMIME
		err = export.WriteCSV(&buf, table(report))
	} else {
		err = export.WriteXLSX(&buf, table(report))
	}
	if err != nil {
		h.logger.Error("failed rendering report file", zap.String("report", kind), zap.String("format", format), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to render report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-report.%s"`, kind, format))
	c.Data(http.StatusOK, mime, buf.Bytes())
}

func (h *ReportHandler) writeError(c *gin.Context, kind string, err error) {
	switch {
	case errors.Is(err, analytics.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, analytics.ErrUnauthorized):
		h.logger.Warn("report scope unavailable", zap.String("report", kind), zap.Error(err))
		c.JSON(http.StatusForbidden, gin.H{"error": "farm access could not be resolved"})
	case errors.Is(err, context.Canceled):
		h.logger.Info("report request cancelled", zap.String("report", kind))
		c.Status(http.StatusRequestTimeout)
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("report deadline exceeded", zap.String("report", kind))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "report took too long to build"})
	default:
		h.logger.Error("failed building report", zap.String("report", kind), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to build report"})
	}
}

func (q reportQuery) filter() (models.ReportFilter, error) {
	filter := models.ReportFilter{
		FarmIDs:     q.FarmIDs,
		HenhouseIDs: q.HenhouseIDs,
		HatcheryIDs: q.HatcheryIDs,
	}

	for _, raw := range q.Cycles {
		cycle, err := models.ParseCycle(raw)
		if err != nil {
			return models.ReportFilter{}, err
		}
		filter.Cycles = append(filter.Cycles, cycle)
	}

	if q.DateSince != "" {
		since, err := time.Parse(dateLayout, q.DateSince)
		if err != nil {
			return models.ReportFilter{}, fmt.Errorf("date_since: expected YYYY-MM-DD")
		}
		filter.DateSince = &since
	}

	if q.DateTo != "" {
		to, err := time.Parse(dateLayout, q.DateTo)
		if err != nil {
			return models.ReportFilter{}, fmt.Errorf("date_to: expected YYYY-MM-DD")
		}
		// Inclusive: every placement during that day matches.
		endOfDay := to.AddDate(0, 0, 1).Add(-time.Millisecond)
		filter.DateTo = &endOfDay
	}

	return filter, nil
}
