package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StockItem is the single mutable source of truth for the quantity and
// current selling price of one produce type at one branch. Exactly one row
// exists per (branch, normalized produce name) pair.
type StockItem struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProduceName   string              `bson:"produceName" json:"produceName"`
	ProduceKey    string              `bson:"produceKey" json:"-"`
	ProduceType   string              `bson:"produceType" json:"produceType"`
	Branch        Branch              `bson:"branch" json:"branch"`
	QuantityKg    float64             `bson:"quantity" json:"quantityKg"`
	SellingPrice  float64             `bson:"sellingPrice" json:"sellingPrice"`
	LastUpdatedBy *primitive.ObjectID `bson:"lastUpdatedBy,omitempty" json:"lastUpdatedBy,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ProduceKey normalizes a produce name into its identity form: trimmed and
// lowercased, so "Maize", "maize" and "MAIZE" address the same stock row.
func ProduceKey(produceName string) string {
	return strings.ToLower(strings.TrimSpace(produceName))
}

// StockAlertType classifies a stock alert entry.
type StockAlertType string

const (
	AlertLowStock   StockAlertType = "low_stock"
	AlertOutOfStock StockAlertType = "out_of_stock"
)

// StockAlert is one low-stock warning surfaced to managers and directors.
type StockAlert struct {
	Type        StockAlertType `json:"type"`
	ProduceName string         `json:"produceName"`
	Branch      Branch         `json:"branch"`
	QuantityKg  float64        `json:"quantityKg"`
	ThresholdKg float64        `json:"thresholdKg"`
	Message     string         `json:"message"`
}
