package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mukwano/agrotrack/internal/domain/models"
)

// ProcurementRepository owns the procurement collection.
type ProcurementRepository struct {
	coll *mongo.Collection
}

// Insert persists a procurement record.
func (r *ProcurementRepository) Insert(ctx context.Context, record models.ProcurementRecord) (models.ProcurementRecord, error) {
	record.CreatedAt = time.Now().UTC()

	res, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return models.ProcurementRecord{}, fmt.Errorf("procurement insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}
	return record, nil
}

// DeleteByID removes a procurement record. Only used as the compensating
// action when the paired stock upsert fails.
func (r *ProcurementRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("procurement delete: %w", err)
	}
	return nil
}

// List returns procurement records newest first, optionally scoped to one
// branch.
func (r *ProcurementRepository) List(ctx context.Context, branch *models.Branch) ([]models.ProcurementRecord, error) {
	filter := bson.M{}
	if branch != nil {
		filter["branch"] = *branch
	}
	opts := options.Find().SetSort(bson.M{"date": -1})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("procurement list: %w", err)
	}
	var records []models.ProcurementRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("procurement list decode: %w", err)
	}
	return records, nil
}

// SummaryByBranch groups procurement records per branch. A nil branch covers
// every branch.
func (r *ProcurementRepository) SummaryByBranch(ctx context.Context, branch *models.Branch) ([]models.ProcurementBranchSummary, error) {
	pipeline := mongo.Pipeline{}
	if branch != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"branch": *branch}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":              "$branch",
			"procurementCount": bson.M{"$sum": 1},
			"totalTonnageKg":   bson.M{"$sum": "$tonnageKg"},
			"totalCost":        bson.M{"$sum": "$cost"},
			"averageCostPerKg": bson.M{"$avg": bson.M{"$divide": bson.A{"$cost", "$tonnageKg"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
	)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("procurement summary by branch: %w", err)
	}
	var rows []models.ProcurementBranchSummary
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("procurement summary by branch decode: %w", err)
	}
	return rows, nil
}

// SummaryByProduce groups procurement records per produce, most spend first.
func (r *ProcurementRepository) SummaryByProduce(ctx context.Context, branch *models.Branch) ([]models.ProcurementProduceSummary, error) {
	pipeline := mongo.Pipeline{}
	if branch != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"branch": *branch}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":                     "$produceName",
			"totalTonnageKg":          bson.M{"$sum": "$tonnageKg"},
			"totalCost":               bson.M{"$sum": "$cost"},
			"averageBuyingPricePerKg": bson.M{"$avg": bson.M{"$divide": bson.A{"$cost", "$tonnageKg"}}},
			"averageSellingPrice":     bson.M{"$avg": "$sellingPrice"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"totalCost": -1}}},
	)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("procurement summary by produce: %w", err)
	}
	var rows []models.ProcurementProduceSummary
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("procurement summary by produce decode: %w", err)
	}
	return rows, nil
}
