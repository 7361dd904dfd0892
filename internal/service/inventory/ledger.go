// Package inventory implements the stock ledger: the only component allowed
// to mutate stock quantities or selling prices. Sales reserve through it,
// procurement upserts through it, and compensations release through it.
package inventory

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/domain/models"
)

// StockStore is the persistence contract the ledger needs. Implemented by
// mongodb.StockRepository.
type StockStore interface {
	DecrementIfAvailable(ctx context.Context, branch models.Branch, produceKey string, tonnageKg float64, updatedBy *primitive.ObjectID) (models.StockItem, bool, error)
	IncrementQuantity(ctx context.Context, branch models.Branch, produceKey string, tonnageKg float64) error
	FindByKey(ctx context.Context, branch models.Branch, produceKey string) (models.StockItem, bool, error)
	Insert(ctx context.Context, item models.StockItem) (models.StockItem, error)
	ApplyDelivery(ctx context.Context, id primitive.ObjectID, tonnageKg float64, produceType string, sellingPrice float64, updatedBy *primitive.ObjectID) (models.StockItem, error)
}

// Ledger exposes the reserve/release/upsert/quote operations over stock rows.
type Ledger struct {
	store  StockStore
	logger *zap.Logger
}

// NewLedger constructs the ledger service.
func NewLedger(store StockStore, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{store: store, logger: logger}
}

// Reserve atomically decrements the stock row for (branch, produceName) by
// tonnageKg and returns the post-decrement row. The decrement is a single
// conditional update: under concurrent reservations the store serializes
// writers per document, so the losing request observes the already reduced
// quantity and fails here with InsufficientStock rather than driving the
// row negative.
func (l *Ledger) Reserve(ctx context.Context, branch models.Branch, produceName string, tonnageKg float64, actingUserID string) (models.StockItem, error) {
	if strings.TrimSpace(produceName) == "" {
		return models.StockItem{}, errs.InvalidInput("produce name is required")
	}
	if tonnageKg <= 0 {
		return models.StockItem{}, errs.InvalidInput("tonnage must be a positive number of kilograms")
	}

	key := models.ProduceKey(produceName)
	item, found, err := l.store.DecrementIfAvailable(ctx, branch, key, tonnageKg, objectIDOrNil(actingUserID))
	if err != nil {
		return models.StockItem{}, errs.Storage("stock reserve", err)
	}
	if found {
		l.logger.Info("stock reserved",
			zap.String("branch", string(branch)),
			zap.String("produce", key),
			zap.Float64("tonnageKg", tonnageKg),
			zap.Float64("remainingKg", item.QuantityKg))
		return item, nil
	}

	// No row satisfied the conditional filter. Re-read once, purely to tell
	// "not stocked here" apart from "not enough left" in the error message;
	// the decrement above remains the single atomic gate.
	existing, exists, err := l.store.FindByKey(ctx, branch, key)
	if err != nil {
		return models.StockItem{}, errs.Storage("stock reserve diagnosis", err)
	}
	if !exists {
		return models.StockItem{}, &errs.InsufficientStockError{
			ProduceName: strings.TrimSpace(produceName),
			Branch:      string(branch),
			RequestedKg: tonnageKg,
			Missing:     true,
		}
	}
	return models.StockItem{}, &errs.InsufficientStockError{
		ProduceName: existing.ProduceName,
		Branch:      string(branch),
		RequestedKg: tonnageKg,
		AvailableKg: existing.QuantityKg,
	}
}

// Release adds tonnageKg back onto the stock row. It exists solely as the
// compensating action after a failed downstream write; callers treat a
// failure here as a reconciliation item, never as the primary error.
func (l *Ledger) Release(ctx context.Context, branch models.Branch, produceName string, tonnageKg float64) error {
	if tonnageKg <= 0 {
		return errs.InvalidInput("release tonnage must be positive")
	}

	key := models.ProduceKey(produceName)
	if err := l.store.IncrementQuantity(ctx, branch, key, tonnageKg); err != nil {
		return errs.Storage("stock release", err)
	}

	l.logger.Info("stock released",
		zap.String("branch", string(branch)),
		zap.String("produce", key),
		zap.Float64("tonnageKg", tonnageKg))
	return nil
}

// UpsertInput carries one procurement delivery into the ledger.
type UpsertInput struct {
	Branch       models.Branch
	ProduceName  string
	ProduceType  string
	TonnageKg    float64
	SellingPrice float64
	ActingUserID string
}

// Upsert folds a delivery into the stock row for (branch, produceName),
// creating the row when none exists. Existing rows get the quantity added,
// the selling price overwritten, and the produce type overwritten when a
// non-empty one is supplied.
//
// This is a read-then-write sequence, not an atomic step: two concurrent
// first deliveries of the same produce can both observe "no row" and both
// insert. The unique (branch, produceKey) index makes the second insert fail
// instead of duplicating the row.
func (l *Ledger) Upsert(ctx context.Context, in UpsertInput) (models.StockItem, error) {
	name := strings.TrimSpace(in.ProduceName)
	if name == "" {
		return models.StockItem{}, errs.InvalidInput("produce name is required")
	}
	if in.TonnageKg <= 0 {
		return models.StockItem{}, errs.InvalidInput("tonnage must be a positive number of kilograms")
	}
	if in.SellingPrice < 0 {
		return models.StockItem{}, errs.InvalidInput("selling price must not be negative")
	}

	key := models.ProduceKey(name)
	updatedBy := objectIDOrNil(in.ActingUserID)

	existing, found, err := l.store.FindByKey(ctx, in.Branch, key)
	if err != nil {
		return models.StockItem{}, errs.Storage("stock upsert lookup", err)
	}

	if found {
		produceType := strings.TrimSpace(in.ProduceType)
		if produceType == "" {
			produceType = existing.ProduceType
		}
		item, err := l.store.ApplyDelivery(ctx, existing.ID, in.TonnageKg, produceType, in.SellingPrice, updatedBy)
		if err != nil {
			return models.StockItem{}, errs.Storage("stock upsert", err)
		}
		l.logger.Info("stock incremented",
			zap.String("branch", string(in.Branch)),
			zap.String("produce", key),
			zap.Float64("tonnageKg", in.TonnageKg),
			zap.Float64("newQuantityKg", item.QuantityKg))
		return item, nil
	}

	item, err := l.store.Insert(ctx, models.StockItem{
		ProduceName:   name,
		ProduceKey:    key,
		ProduceType:   strings.TrimSpace(in.ProduceType),
		Branch:        in.Branch,
		QuantityKg:    in.TonnageKg,
		SellingPrice:  in.SellingPrice,
		LastUpdatedBy: updatedBy,
	})
	if err != nil {
		return models.StockItem{}, errs.Storage("stock insert", err)
	}

	l.logger.Info("stock row created",
		zap.String("branch", string(in.Branch)),
		zap.String("produce", key),
		zap.Float64("quantityKg", item.QuantityKg))
	return item, nil
}

// Quote returns the current selling price and available quantity for
// (branch, produceName) without touching the row.
func (l *Ledger) Quote(ctx context.Context, branch models.Branch, produceName string) (unitPrice, availableKg float64, err error) {
	if strings.TrimSpace(produceName) == "" {
		return 0, 0, errs.InvalidInput("produce name is required")
	}

	item, found, err := l.store.FindByKey(ctx, branch, models.ProduceKey(produceName))
	if err != nil {
		return 0, 0, errs.Storage("stock quote", err)
	}
	if !found {
		return 0, 0, errs.NotFound("no stock of %q at branch %s", strings.TrimSpace(produceName), branch)
	}
	return item.SellingPrice, item.QuantityKg, nil
}

func objectIDOrNil(id string) *primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	return &oid
}
