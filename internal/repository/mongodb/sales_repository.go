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

// SalesRepository owns the cash and credit sale collections. Both are
// append-only.
type SalesRepository struct {
	cash   *mongo.Collection
	credit *mongo.Collection
}

// InsertCash persists a cash sale record.
func (r *SalesRepository) InsertCash(ctx context.Context, sale models.SaleRecord) (models.SaleRecord, error) {
	sale.CreatedAt = time.Now().UTC()

	res, err := r.cash.InsertOne(ctx, sale)
	if err != nil {
		return models.SaleRecord{}, fmt.Errorf("cash sale insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		sale.ID = oid
	}
	return sale, nil
}

// InsertCredit persists a credit sale record.
func (r *SalesRepository) InsertCredit(ctx context.Context, sale models.CreditSaleRecord) (models.CreditSaleRecord, error) {
	sale.CreatedAt = time.Now().UTC()

	res, err := r.credit.InsertOne(ctx, sale)
	if err != nil {
		return models.CreditSaleRecord{}, fmt.Errorf("credit sale insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		sale.ID = oid
	}
	return sale, nil
}

// ListCash returns cash sales newest first, optionally scoped to one branch.
func (r *SalesRepository) ListCash(ctx context.Context, branch *models.Branch) ([]models.SaleRecord, error) {
	filter := bson.M{}
	if branch != nil {
		filter["branch"] = *branch
	}
	opts := options.Find().SetSort(bson.M{"date": -1})

	cursor, err := r.cash.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("cash sales list: %w", err)
	}
	var sales []models.SaleRecord
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("cash sales list decode: %w", err)
	}
	return sales, nil
}

// ListCredit returns credit sales newest first, optionally scoped to one branch.
func (r *SalesRepository) ListCredit(ctx context.Context, branch *models.Branch) ([]models.CreditSaleRecord, error) {
	filter := bson.M{}
	if branch != nil {
		filter["branch"] = *branch
	}
	opts := options.Find().SetSort(bson.M{"date": -1})

	cursor, err := r.credit.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("credit sales list: %w", err)
	}
	var sales []models.CreditSaleRecord
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("credit sales list decode: %w", err)
	}
	return sales, nil
}

// CashSummaryByBranch groups cash sales per branch.
func (r *SalesRepository) CashSummaryByBranch(ctx context.Context) ([]models.CashSalesBranchSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":             "$branch",
			"salesCount":      bson.M{"$sum": 1},
			"totalCashAmount": bson.M{"$sum": "$amountPaid"},
			"totalTonnageKg":  bson.M{"$sum": "$tonnageKg"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.cash.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("cash sales summary: %w", err)
	}
	var rows []models.CashSalesBranchSummary
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("cash sales summary decode: %w", err)
	}
	return rows, nil
}

// CreditSummaryByBranch groups credit sales per branch.
func (r *SalesRepository) CreditSummaryByBranch(ctx context.Context) ([]models.CreditSalesBranchSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":                  "$branch",
			"creditSalesCount":     bson.M{"$sum": 1},
			"totalCreditAmountDue": bson.M{"$sum": "$amountDue"},
			"totalCreditTonnageKg": bson.M{"$sum": "$tonnageKg"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.credit.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("credit sales summary: %w", err)
	}
	var rows []models.CreditSalesBranchSummary
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("credit sales summary decode: %w", err)
	}
	return rows, nil
}
