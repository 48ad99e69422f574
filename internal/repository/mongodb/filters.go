package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

// insertionFilter translates a report filter into a query on flock_insertions.
// Cycle entries are OR-ed, every other dimension is AND-ed.
func insertionFilter(f models.ReportFilter) bson.M {
	filter := bson.M{}
	if len(f.FarmIDs) > 0 {
		filter["farm_id"] = bson.M{"$in": f.FarmIDs}
	}
	if len(f.HenhouseIDs) > 0 {
		filter["henhouse_id"] = bson.M{"$in": f.HenhouseIDs}
	}
	if len(f.HatcheryIDs) > 0 {
		filter["hatchery_id"] = bson.M{"$in": f.HatcheryIDs}
	}
	if len(f.Cycles) > 0 {
		filter["$or"] = cycleClauses("cycle", f.Cycles)
	}

	dates := bson.M{}
	if f.DateSince != nil {
		dates["$gte"] = *f.DateSince
	}
	if f.DateTo != nil {
		dates["$lte"] = *f.DateTo
	}
	if len(dates) > 0 {
		filter["insertion_date"] = dates
	}

	return filter
}

// houseRecordFilter selects per-henhouse records within the scope.
func houseRecordFilter(scope models.RecordScope) bson.M {
	filter := farmRecordFilter(scope)
	filter["henhouse_id"] = bson.M{"$in": scope.HenhouseIDs}
	return filter
}

// farmRecordFilter selects farm-level records within the scope.
func farmRecordFilter(scope models.RecordScope) bson.M {
	filter := bson.M{"farm_id": bson.M{"$in": scope.FarmIDs}}
	if len(scope.Cycles) > 0 {
		filter["$or"] = cycleClauses("cycle", scope.Cycles)
	}
	return filter
}

// transferFilter selects transfers touching the scope on either side.
func transferFilter(scope models.RecordScope) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"from_farm_id": bson.M{"$in": scope.FarmIDs}, "from_henhouse_id": bson.M{"$in": scope.HenhouseIDs}},
		bson.M{"to_farm_id": bson.M{"$in": scope.FarmIDs}, "to_henhouse_id": bson.M{"$in": scope.HenhouseIDs}},
	}}
}

func cycleClauses(field string, cycles []models.Cycle) bson.A {
	clauses := make(bson.A, 0, len(cycles))
	for _, c := range cycles {
		clause := bson.M{field + ".identifier": c.Identifier}
		if c.Year != 0 {
			clause[field+".year"] = c.Year
		}
		clauses = append(clauses, clause)
	}
	return clauses
}
