package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/flockreport/internal/domain/models"
	"github.com/mamadbah2/flockreport/internal/service/access"
)

var (
	// ErrUnauthorized indicates the request carries no identity a farm scope can be resolved for.
	ErrUnauthorized = errors.New("analytics: farm scope unavailable")
	// ErrInvalidFilter indicates the report filter is malformed.
	ErrInvalidFilter = errors.New("analytics: invalid report filter")
)

// Source exposes the read-only, filtered list fetches the engine relies on.
type Source interface {
	ListInsertions(ctx context.Context, filter models.ReportFilter) ([]models.FlockInsertion, error)
	ListHenhouses(ctx context.Context, ids []int64) ([]models.Henhouse, error)
	ListSales(ctx context.Context, scope models.RecordScope) ([]models.SaleRecord, error)
	ListFlockLosses(ctx context.Context, scope models.RecordScope) ([]models.FlockLossRecord, error)
	ListFeedDeliveries(ctx context.Context, scope models.RecordScope) ([]models.FeedDeliveryRecord, error)
	ListFeedCarryovers(ctx context.Context, scope models.RecordScope) ([]models.FeedCarryoverRecord, error)
	ListFeedTransfers(ctx context.Context, scope models.RecordScope) ([]models.FeedTransferRecord, error)
	ListGasConsumptions(ctx context.Context, scope models.RecordScope) ([]models.GasConsumptionRecord, error)
	ListPayrolls(ctx context.Context, scope models.RecordScope) ([]models.PayrollRecord, error)
	ListProductionExpenses(ctx context.Context, scope models.RecordScope) ([]models.ProductionExpenseRecord, error)
	ListWeightStandards(ctx context.Context) ([]models.WeightStandardRecord, error)
}

// ScopeResolver returns the farms the caller carried by ctx may read.
type ScopeResolver interface {
	ResolveScope(ctx context.Context) (models.FarmScope, error)
}

// Options holds the accounting constants applied by the financial report.
type Options struct {
	VATRate          decimal.Decimal
	ChickExpenseType string
	VetExpenseType   string
}

// DefaultOptions returns the standard VAT rate and expense categories.
func DefaultOptions() Options {
	return Options{
		VATRate:          decimal.RequireFromString("0.08"),
		ChickExpenseType: "chick purchase",
		VetExpenseType:   "veterinary service",
	}
}

// Engine builds the per-insertion financial and production reports.
type Engine struct {
	source Source
	scopes ScopeResolver
	opts   Options
	logger *zap.Logger
}

// NewEngine wires the engine with its data source and scope resolver.
func NewEngine(source Source, scopes ScopeResolver, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{source: source, scopes: scopes, opts: opts, logger: logger}
}

type snapshot struct {
	insertions []models.FlockInsertion
	lookups    Lookups
}

// FinancialReport computes one money row per insertion matching filter.
func (e *Engine) FinancialReport(ctx context.Context, filter models.ReportFilter) (models.Report[models.FinancialRow], error) {
	start := time.Now()

	snap, err := e.load(ctx, filter)
	if err != nil {
		return models.Report[models.FinancialRow]{}, err
	}

	rows := make([]models.FinancialRow, 0, len(snap.insertions))
	for _, ins := range snap.insertions {
		rows = append(rows, e.financialRow(ins, snap.lookups))
	}

	e.logger.Info("financial report built",
		zap.Int("insertions", len(snap.insertions)),
		zap.Int("rows", len(rows)),
		zap.Duration("duration", time.Since(start)))

	return models.Report[models.FinancialRow]{Rows: rows, TotalRows: len(rows)}, nil
}

// ProductionReport computes one flock performance row per insertion matching filter.
func (e *Engine) ProductionReport(ctx context.Context, filter models.ReportFilter) (models.Report[models.ProductionRow], error) {
	start := time.Now()

	snap, err := e.load(ctx, filter)
	if err != nil {
		return models.Report[models.ProductionRow]{}, err
	}

	rows := make([]models.ProductionRow, 0, len(snap.insertions))
	for _, ins := range snap.insertions {
		row := e.productionRow(ins, snap.lookups)
		if row.BalanceMismatch() {
			e.logger.Warn("bird balance does not reconcile",
				zap.Int64("insertion_id", ins.ID),
				zap.Int64("farm_id", ins.FarmID),
				zap.Int64("henhouse_id", ins.HenhouseID),
				zap.Stringer("cycle", ins.Cycle),
				zap.Int64("balance", row.EndCycleBirdBalance))
		}
		rows = append(rows, row)
	}

	e.logger.Info("production report built",
		zap.Int("insertions", len(snap.insertions)),
		zap.Int("rows", len(rows)),
		zap.Duration("duration", time.Since(start)))

	return models.Report[models.ProductionRow]{Rows: rows, TotalRows: len(rows)}, nil
}

func (e *Engine) financialRow(ins models.FlockInsertion, l Lookups) models.FinancialRow {
	key := KeyOf(ins)
	info := e.insertionInfo(ins, l)
	sales := l.Sales.Get(key)

	return FinancialKPIs(FinancialInputs{
		Info:      info,
		PartSale:  AggregateSales(ins, sales, models.SalePart),
		TotalSale: AggregateSales(ins, sales, models.SaleTotal),
		FeedCost:  FeedConsumption(key, l).Value,
		Costs:     e.opts.AllocateCosts(key.Farm(), info.HenhouseAreaM2, l),
		VATRate:   e.opts.VATRate,
	})
}

func (e *Engine) productionRow(ins models.FlockInsertion, l Lookups) models.ProductionRow {
	key := KeyOf(ins)
	info := e.insertionInfo(ins, l)
	sales := l.Sales.Get(key)
	liters := sumBy(l.Gas.Get(key.Farm()), func(r models.GasConsumptionRecord) decimal.Decimal { return r.QuantityConsumed })

	return ProductionKPIs(ProductionInputs{
		Info:            info,
		PartSale:        AggregateSales(ins, sales, models.SalePart),
		TotalSale:       AggregateSales(ins, sales, models.SaleTotal),
		Losses:          l.Losses.Get(key),
		FeedTons:        FeedConsumption(key, l).Tons,
		GasLiters:       l.Areas.Allocate(key.Farm(), liters, info.HenhouseAreaM2),
		WeightStandards: l.WeightStandards,
	})
}

func (e *Engine) insertionInfo(ins models.FlockInsertion, l Lookups) models.InsertionInfo {
	henhouse, ok := l.Henhouses[ins.HenhouseID]
	if !ok {
		e.logger.Warn("henhouse missing for insertion",
			zap.Int64("insertion_id", ins.ID),
			zap.Int64("henhouse_id", ins.HenhouseID))
	}
	return models.InsertionInfo{
		InsertionID:       ins.ID,
		FarmID:            ins.FarmID,
		HenhouseID:        ins.HenhouseID,
		HenhouseName:      henhouse.Name,
		HenhouseAreaM2:    henhouse.AreaM2,
		Cycle:             ins.Cycle,
		HatcheryID:        ins.HatcheryID,
		InsertionDate:     ins.InsertionDate,
		InsertionQuantity: ins.Quantity,
	}
}

// load resolves the caller's scope, fetches the matching insertions and then
// every related record set concurrently. Aggregation starts only once all
// fetches succeeded and ctx is still live.
func (e *Engine) load(ctx context.Context, filter models.ReportFilter) (snapshot, error) {
	if err := ValidateFilter(filter); err != nil {
		return snapshot{}, err
	}

	scope, err := e.scopes.ResolveScope(ctx)
	if errors.Is(err, access.ErrNoPrincipal) {
		return snapshot{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("resolve farm scope: %w", err)
	}

	narrowed, visible := applyScope(filter, scope)
	if !visible {
		e.logger.Debug("no farms visible for caller")
		return snapshot{}, nil
	}

	insertions, err := e.source.ListInsertions(ctx, narrowed)
	if err != nil {
		return snapshot{}, fmt.Errorf("list insertions: %w", err)
	}
	insertions = lo.Filter(insertions, func(ins models.FlockInsertion, _ int) bool {
		return scope.Allows(ins.FarmID) && narrowed.Matches(ins)
	})
	if len(insertions) == 0 {
		return snapshot{}, nil
	}

	ds, err := e.fetch(ctx, insertions)
	if err != nil {
		return snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return snapshot{}, err
	}

	return snapshot{insertions: insertions, lookups: BuildLookups(ds)}, nil
}

func (e *Engine) fetch(ctx context.Context, insertions []models.FlockInsertion) (Dataset, error) {
	scope := RecordScopeOf(insertions)
	ds := Dataset{Insertions: insertions}

	e.logger.Debug("fetching related records",
		zap.Int("insertions", len(insertions)),
		zap.Int("farms", len(scope.FarmIDs)),
		zap.Int("cycles", len(scope.Cycles)))

	g, gctx := errgroup.WithContext(ctx)

	collect(g, &ds.Henhouses, "henhouses", func() ([]models.Henhouse, error) {
		return e.source.ListHenhouses(gctx, scope.HenhouseIDs)
	})
	collect(g, &ds.Sales, "sales", func() ([]models.SaleRecord, error) {
		return e.source.ListSales(gctx, scope)
	})
	collect(g, &ds.Losses, "flock losses", func() ([]models.FlockLossRecord, error) {
		return e.source.ListFlockLosses(gctx, scope)
	})
	collect(g, &ds.FeedDeliveries, "feed deliveries", func() ([]models.FeedDeliveryRecord, error) {
		return e.source.ListFeedDeliveries(gctx, scope)
	})
	collect(g, &ds.FeedCarryovers, "feed carryovers", func() ([]models.FeedCarryoverRecord, error) {
		return e.source.ListFeedCarryovers(gctx, scope)
	})
	collect(g, &ds.FeedTransfers, "feed transfers", func() ([]models.FeedTransferRecord, error) {
		return e.source.ListFeedTransfers(gctx, scope)
	})
	collect(g, &ds.Gas, "gas consumptions", func() ([]models.GasConsumptionRecord, error) {
		return e.source.ListGasConsumptions(gctx, scope)
	})
	collect(g, &ds.Payrolls, "payrolls", func() ([]models.PayrollRecord, error) {
		return e.source.ListPayrolls(gctx, scope)
	})
	collect(g, &ds.Expenses, "production expenses", func() ([]models.ProductionExpenseRecord, error) {
		return e.source.ListProductionExpenses(gctx, scope)
	})
	collect(g, &ds.WeightStandards, "weight standards", func() ([]models.WeightStandardRecord, error) {
		return e.source.ListWeightStandards(gctx)
	})

	if err := g.Wait(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

func collect[T any](g *errgroup.Group, dst *[]T, name string, fetch func() ([]T, error)) {
	g.Go(func() error {
		items, err := fetch()
		if err != nil {
			return fmt.Errorf("list %s: %w", name, err)
		}
		*dst = items
		return nil
	})
}

// ValidateFilter rejects cycle identifiers outside the yearly rotation and
// inverted date ranges.
func ValidateFilter(filter models.ReportFilter) error {
	for _, cycle := range filter.Cycles {
		if !cycle.Valid() {
			return fmt.Errorf("%w: cycle identifier %d outside %d..%d", ErrInvalidFilter, cycle.Identifier, models.FirstCycle, models.LastCycle)
		}
	}
	if filter.DateSince != nil && filter.DateTo != nil && filter.DateSince.After(*filter.DateTo) {
		return fmt.Errorf("%w: date_since is after date_to", ErrInvalidFilter)
	}
	return nil
}

// applyScope restricts the filter's farms to the visible ones. It returns
// false when nothing remains visible.
func applyScope(filter models.ReportFilter, scope models.FarmScope) (models.ReportFilter, bool) {
	if scope.All {
		return filter, true
	}
	if len(filter.FarmIDs) == 0 {
		filter.FarmIDs = scope.FarmIDs
	} else {
		filter.FarmIDs = lo.Intersect(filter.FarmIDs, scope.FarmIDs)
	}
	return filter, len(filter.FarmIDs) > 0
}
