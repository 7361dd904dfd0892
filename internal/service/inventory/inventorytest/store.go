// Package inventorytest provides an in-memory StockStore for exercising the
// ledger and the coordinators without a database. The conditional decrement
// is guarded by a mutex, mirroring the per-document atomicity the real store
// provides.
package inventorytest

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mukwano/agrotrack/internal/domain/models"
)

// Store is a thread-safe in-memory stock store.
type Store struct {
	mu    sync.Mutex
	items map[string]*models.StockItem

	// FailDecrement, when set, makes DecrementIfAvailable return an error.
	FailDecrement error
	// FailIncrement, when set, makes IncrementQuantity return an error.
	FailIncrement error
}

// New creates an empty store.
func New() *Store {
	return &Store{items: make(map[string]*models.StockItem)}
}

// Seed inserts a stock row directly, bypassing the ledger.
func (s *Store) Seed(branch models.Branch, produceName, produceType string, quantityKg, sellingPrice float64) models.StockItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := &models.StockItem{
		ID:           primitive.NewObjectID(),
		ProduceName:  produceName,
		ProduceKey:   models.ProduceKey(produceName),
		ProduceType:  produceType,
		Branch:       branch,
		QuantityKg:   quantityKg,
		SellingPrice: sellingPrice,
	}
	s.items[key(branch, item.ProduceKey)] = item
	return *item
}

// Quantity reports the current quantity for (branch, produceName), or -1 when
// the row does not exist.
func (s *Store) Quantity(branch models.Branch, produceName string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key(branch, models.ProduceKey(produceName))]
	if !ok {
		return -1
	}
	return item.QuantityKg
}

// DecrementIfAvailable implements inventory.StockStore.
func (s *Store) DecrementIfAvailable(_ context.Context, branch models.Branch, produceKey string, tonnageKg float64, updatedBy *primitive.ObjectID) (models.StockItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailDecrement != nil {
		return models.StockItem{}, false, s.FailDecrement
	}

	item, ok := s.items[key(branch, produceKey)]
	if !ok || item.QuantityKg < tonnageKg {
		return models.StockItem{}, false, nil
	}
	item.QuantityKg -= tonnageKg
	item.LastUpdatedBy = updatedBy
	return *item, true, nil
}

// IncrementQuantity implements inventory.StockStore.
func (s *Store) IncrementQuantity(_ context.Context, branch models.Branch, produceKey string, tonnageKg float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailIncrement != nil {
		return s.FailIncrement
	}

	item, ok := s.items[key(branch, produceKey)]
	if !ok {
		return fmt.Errorf("no row for %s/%s", branch, produceKey)
	}
	item.QuantityKg += tonnageKg
	return nil
}

// FindByKey implements inventory.StockStore.
func (s *Store) FindByKey(_ context.Context, branch models.Branch, produceKey string) (models.StockItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key(branch, produceKey)]
	if !ok {
		return models.StockItem{}, false, nil
	}
	return *item, true, nil
}

// Insert implements inventory.StockStore. Like the unique index in the real
// store, it rejects a second row for the same (branch, produceKey).
func (s *Store) Insert(_ context.Context, item models.StockItem) (models.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(item.Branch, item.ProduceKey)
	if _, exists := s.items[k]; exists {
		return models.StockItem{}, fmt.Errorf("duplicate stock row for %s", k)
	}
	item.ID = primitive.NewObjectID()
	stored := item
	s.items[k] = &stored
	return item, nil
}

// ApplyDelivery implements inventory.StockStore.
func (s *Store) ApplyDelivery(_ context.Context, id primitive.ObjectID, tonnageKg float64, produceType string, sellingPrice float64, updatedBy *primitive.ObjectID) (models.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == id {
			item.QuantityKg += tonnageKg
			item.ProduceType = produceType
			item.SellingPrice = sellingPrice
			item.LastUpdatedBy = updatedBy
			return *item, nil
		}
	}
	return models.StockItem{}, fmt.Errorf("no stock row with id %s", id.Hex())
}

func key(branch models.Branch, produceKey string) string {
	return string(branch) + "/" + produceKey
}
