package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mukwano/agrotrack/internal/domain/models"
)

// StockRepository owns the stock collection. Reservation atomicity lives
// here: DecrementIfAvailable is a single conditional find-and-update, so two
// concurrent reservations against the same row are serialized by the server
// at the document level.
type StockRepository struct {
	coll *mongo.Collection
}

// DecrementIfAvailable atomically decrements the quantity of the row matching
// (branch, produceKey) if and only if at least tonnageKg is available, and
// returns the post-decrement document. found is false when no row satisfied
// the condition, which covers both "produce not stocked" and "quantity too
// low"; callers who need to tell the two apart must re-read the row.
func (r *StockRepository) DecrementIfAvailable(ctx context.Context, branch models.Branch, produceKey string, tonnageKg float64, updatedBy *primitive.ObjectID) (models.StockItem, bool, error) {
	filter := bson.M{
		"branch":     branch,
		"produceKey": produceKey,
		"quantity":   bson.M{"$gte": tonnageKg},
	}
	update := bson.M{
		"$inc": bson.M{"quantity": -tonnageKg},
		"$set": bson.M{"lastUpdatedBy": updatedBy, "updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.StockItem
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.StockItem{}, false, nil
	}
	if err != nil {
		return models.StockItem{}, false, fmt.Errorf("conditional stock decrement: %w", err)
	}
	return item, true, nil
}

// IncrementQuantity adds tonnageKg back onto the matching row. Used as the
// compensating action after a failed downstream write.
func (r *StockRepository) IncrementQuantity(ctx context.Context, branch models.Branch, produceKey string, tonnageKg float64) error {
	filter := bson.M{"branch": branch, "produceKey": produceKey}
	update := bson.M{
		"$inc": bson.M{"quantity": tonnageKg},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("stock increment: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("stock increment: no row for %s/%s", branch, produceKey)
	}
	return nil
}

// FindByKey fetches the row for (branch, produceKey).
func (r *StockRepository) FindByKey(ctx context.Context, branch models.Branch, produceKey string) (models.StockItem, bool, error) {
	var item models.StockItem
	err := r.coll.FindOne(ctx, bson.M{"branch": branch, "produceKey": produceKey}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.StockItem{}, false, nil
	}
	if err != nil {
		return models.StockItem{}, false, fmt.Errorf("stock lookup: %w", err)
	}
	return item, true, nil
}

// Insert creates a brand new stock row.
func (r *StockRepository) Insert(ctx context.Context, item models.StockItem) (models.StockItem, error) {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, item)
	if err != nil {
		return models.StockItem{}, fmt.Errorf("stock insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid
	}
	return item, nil
}

// ApplyDelivery folds a procurement delivery into an existing row: quantity
// is incremented, selling price and produce type are overwritten, and the
// acting user is stamped. Returns the post-update document.
func (r *StockRepository) ApplyDelivery(ctx context.Context, id primitive.ObjectID, tonnageKg float64, produceType string, sellingPrice float64, updatedBy *primitive.ObjectID) (models.StockItem, error) {
	update := bson.M{
		"$inc": bson.M{"quantity": tonnageKg},
		"$set": bson.M{
			"produceType":   produceType,
			"sellingPrice":  sellingPrice,
			"lastUpdatedBy": updatedBy,
			"updatedAt":     time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.StockItem
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&item); err != nil {
		return models.StockItem{}, fmt.Errorf("stock delivery update: %w", err)
	}
	return item, nil
}

// SummaryByBranch groups stock rows per branch with quantity and value totals.
func (r *StockRepository) SummaryByBranch(ctx context.Context) ([]models.StockBranchSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":             "$branch",
			"itemCount":       bson.M{"$sum": 1},
			"totalQuantityKg": bson.M{"$sum": "$quantity"},
			"totalStockValue": bson.M{"$sum": bson.M{"$multiply": bson.A{"$quantity", "$sellingPrice"}}},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("stock summary by branch: %w", err)
	}
	var rows []models.StockBranchSummary
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("stock summary by branch decode: %w", err)
	}
	return rows, nil
}

// SummaryByProduce groups stock rows per produce across branches.
func (r *StockRepository) SummaryByProduce(ctx context.Context) ([]models.StockProduceSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":                 "$produceName",
			"totalQuantityKg":     bson.M{"$sum": "$quantity"},
			"averageSellingPrice": bson.M{"$avg": "$sellingPrice"},
			"branches":            bson.M{"$addToSet": "$branch"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":                 1,
			"totalQuantityKg":     1,
			"averageSellingPrice": 1,
			"branchCount":         bson.M{"$size": "$branches"},
		}}},
		{{Key: "$sort", Value: bson.M{"totalQuantityKg": -1}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("stock summary by produce: %w", err)
	}
	var rows []models.StockProduceSummary
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("stock summary by produce decode: %w", err)
	}
	return rows, nil
}

// ListAtOrBelow returns rows whose quantity is at or below thresholdKg,
// lowest first. A nil branch means all branches.
func (r *StockRepository) ListAtOrBelow(ctx context.Context, thresholdKg float64, branch *models.Branch) ([]models.StockItem, error) {
	filter := bson.M{"quantity": bson.M{"$lte": thresholdKg}}
	if branch != nil {
		filter["branch"] = *branch
	}
	opts := options.Find().SetSort(bson.M{"quantity": 1})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("low stock list: %w", err)
	}
	var items []models.StockItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("low stock list decode: %w", err)
	}
	return items, nil
}

// ListAll returns every stock row, optionally scoped to one branch.
func (r *StockRepository) ListAll(ctx context.Context, branch *models.Branch) ([]models.StockItem, error) {
	filter := bson.M{}
	if branch != nil {
		filter["branch"] = *branch
	}
	opts := options.Find().SetSort(bson.D{{Key: "branch", Value: 1}, {Key: "produceKey", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("stock list: %w", err)
	}
	var items []models.StockItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("stock list decode: %w", err)
	}
	return items, nil
}
