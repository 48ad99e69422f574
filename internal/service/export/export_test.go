package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

func sampleInfo() models.InsertionInfo {
	return models.InsertionInfo{
		InsertionID:       5,
		FarmID:            1,
		HenhouseID:        10,
		HenhouseName:      "H1",
		HenhouseAreaM2:    decimal.NewFromInt(100),
		Cycle:             models.Cycle{Identifier: 1, Year: 2024},
		HatcheryID:        7,
		InsertionDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		InsertionQuantity: 1000,
	}
}

func cell(t *testing.T, table Table, row int, header string) string {
	t.Helper()
	idx := lo.IndexOf(table.Header, header)
	require.GreaterOrEqual(t, idx, 0, "missing column %s", header)
	return table.Rows[row][idx]
}

func TestFinancialTable(t *testing.T) {
	saleDate := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	row := models.FinancialRow{
		InsertionInfo: sampleInfo(),
		TotalSale: models.SaleSummary{
			SaleDate:           &saleDate,
			AgeInDays:          40,
			SoldCount:          950,
			WeightedFinalPrice: decimal.NewNullDecimal(decimal.RequireFromString("2.3456")),
			Revenue:            decimal.RequireFromString("4800.5"),
		},
		FeedCost:     decimal.RequireFromString("4150"),
		GasCost:      decimal.NewNullDecimal(decimal.RequireFromString("100")),
		RevenuePerKg: decimal.NewNullDecimal(decimal.RequireFromString("2.33333333")),
	}

	table := FinancialTable(models.Report[models.FinancialRow]{Rows: []models.FinancialRow{row}, TotalRows: 1})

	assert.Equal(t, FinancialSheet, table.Name)
	require.Len(t, table.Rows, 1)
	assert.Len(t, table.Rows[0], len(table.Header))
	assert.Len(t, lo.Uniq(table.Header), len(table.Header))

	assert.Equal(t, "1/2024", cell(t, table, 0, "cycle"))
	assert.Equal(t, "2024-01-10", cell(t, table, 0, "insertion_date"))
	assert.Equal(t, "100.000", cell(t, table, 0, "henhouse_area_m2"))
	assert.Equal(t, "2024-02-20", cell(t, table, 0, "total_sale_date"))
	assert.Equal(t, "40", cell(t, table, 0, "total_age_in_days"))
	assert.Equal(t, "2.35", cell(t, table, 0, "total_weighted_final_price"))
	assert.Equal(t, "4800.50", cell(t, table, 0, "total_revenue"))
	assert.Equal(t, "4150.00", cell(t, table, 0, "feed_cost"))
	assert.Equal(t, "100.00", cell(t, table, 0, "gas_cost"))
	assert.Equal(t, "2.333", cell(t, table, 0, "revenue_per_kg"))

	assert.Equal(t, "", cell(t, table, 0, "part_sale_date"))
	assert.Equal(t, "", cell(t, table, 0, "part_age_in_days"))
	assert.Equal(t, "", cell(t, table, 0, "chicks_cost"))
	assert.Equal(t, "", cell(t, table, 0, "income_per_m2"))
}

func TestProductionTable(t *testing.T) {
	row := models.ProductionRow{
		InsertionInfo:       sampleInfo(),
		TotalSale:           models.ProductionSale{SettlementCount: 930, AvgWeight: decimal.RequireFromString("2.1"), StandardWeight: decimal.NullDecimal{}},
		FeedConsumedTons:    decimal.RequireFromString("10.5"),
		SurvivalRatePct:     decimal.NewFromInt(95),
		EndCycleBirdBalance: -10,
	}

	table := ProductionTable(models.Report[models.ProductionRow]{Rows: []models.ProductionRow{row}, TotalRows: 1})

	assert.Equal(t, ProductionSheet, table.Name)
	assert.Len(t, lo.Uniq(table.Header), len(table.Header))
	assert.Equal(t, "930", cell(t, table, 0, "total_settlement_count"))
	assert.Equal(t, "2.100", cell(t, table, 0, "total_avg_weight"))
	assert.Equal(t, "", cell(t, table, 0, "total_standard_weight"))
	assert.Equal(t, "10.500", cell(t, table, 0, "feed_consumed_tons"))
	assert.Equal(t, "95.000", cell(t, table, 0, "survival_rate_pct"))
	assert.Equal(t, "-10", cell(t, table, 0, "end_cycle_bird_balance"))
}

func TestWriteXLSX(t *testing.T) {
	financial := FinancialTable(models.Report[models.FinancialRow]{Rows: []models.FinancialRow{{InsertionInfo: sampleInfo()}}})
	production := ProductionTable(models.Report[models.ProductionRow]{})

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, financial, production))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{FinancialSheet, ProductionSheet}, f.GetSheetList())

	rows, err := f.GetRows(FinancialSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, financial.Header, rows[0])
	assert.Equal(t, "H1", rows[1][3])

	rows, err = f.GetRows(ProductionSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestWriteXLSXRequiresTables(t *testing.T) {
	assert.Error(t, WriteXLSX(&bytes.Buffer{}))
}

type stubWriter struct {
	sheets map[string][][]interface{}
	err    error
}

func (s *stubWriter) ReplaceSheet(_ context.Context, sheet string, values [][]interface{}) error {
	if s.err != nil {
		return s.err
	}
	if s.sheets == nil {
		s.sheets = map[string][][]interface{}{}
	}
	s.sheets[sheet] = values
	return nil
}

func TestSheetsExporter(t *testing.T) {
	writer := &stubWriter{}
	exporter := NewSheetsExporter(writer, nil)

	financial := FinancialTable(models.Report[models.FinancialRow]{Rows: []models.FinancialRow{{InsertionInfo: sampleInfo()}}})
	production := ProductionTable(models.Report[models.ProductionRow]{})

	require.NoError(t, exporter.Export(context.Background(), financial, production))

	require.Len(t, writer.sheets[FinancialSheet], 2)
	assert.Equal(t, "insertion_id", writer.sheets[FinancialSheet][0][0])
	assert.Equal(t, "5", writer.sheets[FinancialSheet][1][0])
	assert.Len(t, writer.sheets[ProductionSheet], 1)
}

func TestSheetsExporterFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	exporter := NewSheetsExporter(&stubWriter{err: boom}, nil)

	err := exporter.Export(context.Background(), ProductionTable(models.Report[models.ProductionRow]{}))
	assert.ErrorIs(t, err, boom)
}

func TestWriteCSV(t *testing.T) {
	table := Table{Name: "t", Header: []string{"a", "b"}, Rows: [][]string{{"1", ""}, {"x,y", "2"}}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))
	assert.Equal(t, "a,b\n1,\n\"x,y\",2\n", buf.String())
}
