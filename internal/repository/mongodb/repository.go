package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

const (
	insertionsCollection      = "flock_insertions"
	henhousesCollection       = "henhouses"
	salesCollection           = "sales"
	flockLossesCollection     = "flock_losses"
	feedDeliveriesCollection  = "feed_deliveries"
	feedCarryoversCollection  = "feed_carryovers"
	feedTransfersCollection   = "feed_transfers"
	gasCollection             = "gas_consumptions"
	payrollsCollection        = "payrolls"
	expensesCollection        = "production_expenses"
	weightStandardsCollection = "weight_standards"
	assignmentsCollection     = "farm_assignments"
)

// MongoDBRepository reads the farm records written by the bookkeeping
// screens. It never writes.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri).SetRegistry(newRegistry())
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// ListInsertions returns the insertions matching filter ordered by placement date.
func (r *MongoDBRepository) ListInsertions(ctx context.Context, filter models.ReportFilter) ([]models.FlockInsertion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "insertion_date", Value: 1}, {Key: "_id", Value: 1}})
	return find[models.FlockInsertion](ctx, r, insertionsCollection, insertionFilter(filter), opts)
}

// ListHenhouses returns the henhouses with the given ids.
func (r *MongoDBRepository) ListHenhouses(ctx context.Context, ids []int64) ([]models.Henhouse, error) {
	return find[models.Henhouse](ctx, r, henhousesCollection, bson.M{"_id": bson.M{"$in": ids}})
}

// ListSales returns the sales recorded for the scoped henhouse cycles.
func (r *MongoDBRepository) ListSales(ctx context.Context, scope models.RecordScope) ([]models.SaleRecord, error) {
	return find[models.SaleRecord](ctx, r, salesCollection, houseRecordFilter(scope))
}

// ListFlockLosses returns the grow-out mortality of the scoped henhouse cycles.
func (r *MongoDBRepository) ListFlockLosses(ctx context.Context, scope models.RecordScope) ([]models.FlockLossRecord, error) {
	return find[models.FlockLossRecord](ctx, r, flockLossesCollection, houseRecordFilter(scope))
}

// ListFeedDeliveries returns invoiced feed for the scoped henhouse cycles.
func (r *MongoDBRepository) ListFeedDeliveries(ctx context.Context, scope models.RecordScope) ([]models.FeedDeliveryRecord, error) {
	return find[models.FeedDeliveryRecord](ctx, r, feedDeliveriesCollection, houseRecordFilter(scope))
}

// ListFeedCarryovers returns leftover feed for the scoped henhouse cycles.
func (r *MongoDBRepository) ListFeedCarryovers(ctx context.Context, scope models.RecordScope) ([]models.FeedCarryoverRecord, error) {
	return find[models.FeedCarryoverRecord](ctx, r, feedCarryoversCollection, houseRecordFilter(scope))
}

// ListFeedTransfers returns transfers leaving or entering the scoped henhouses.
func (r *MongoDBRepository) ListFeedTransfers(ctx context.Context, scope models.RecordScope) ([]models.FeedTransferRecord, error) {
	return find[models.FeedTransferRecord](ctx, r, feedTransfersCollection, transferFilter(scope))
}

// ListGasConsumptions returns farm-level gas usage for the scoped cycles.
func (r *MongoDBRepository) ListGasConsumptions(ctx context.Context, scope models.RecordScope) ([]models.GasConsumptionRecord, error) {
	return find[models.GasConsumptionRecord](ctx, r, gasCollection, farmRecordFilter(scope))
}

// ListPayrolls returns payslips charged to the scoped farm cycles.
func (r *MongoDBRepository) ListPayrolls(ctx context.Context, scope models.RecordScope) ([]models.PayrollRecord, error) {
	return find[models.PayrollRecord](ctx, r, payrollsCollection, farmRecordFilter(scope))
}

// ListProductionExpenses returns categorized expenses of the scoped farm cycles.
func (r *MongoDBRepository) ListProductionExpenses(ctx context.Context, scope models.RecordScope) ([]models.ProductionExpenseRecord, error) {
	return find[models.ProductionExpenseRecord](ctx, r, expensesCollection, farmRecordFilter(scope))
}

// ListWeightStandards returns the whole growth curve.
func (r *MongoDBRepository) ListWeightStandards(ctx context.Context) ([]models.WeightStandardRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "day", Value: 1}})
	return find[models.WeightStandardRecord](ctx, r, weightStandardsCollection, bson.M{}, opts)
}

// FarmIDsForUser returns the farms assigned to a user.
func (r *MongoDBRepository) FarmIDsForUser(ctx context.Context, userID int64) ([]int64, error) {
	type assignment struct {
		FarmID int64 `bson:"farm_id"`
	}

	opts := options.Find().SetProjection(bson.M{"farm_id": 1})
	rows, err := find[assignment](ctx, r, assignmentsCollection, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.FarmID)
	}
	return ids, nil
}

func find[T any](ctx context.Context, r *MongoDBRepository, collection string, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := r.db.Collection(collection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}

	r.logger.Debug("records loaded", zap.String("collection", collection), zap.Int("count", len(out)))
	return out, nil
}
