package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProcurementRecord is an immutable record of a purchase from a dealer.
// It is only ever deleted as the compensating action when the paired stock
// upsert fails.
type ProcurementRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProduceName   string             `bson:"produceName" json:"produceName"`
	ProduceType   string             `bson:"produceType" json:"produceType"`
	TonnageKg     float64            `bson:"tonnageKg" json:"tonnageKg"`
	Cost          float64            `bson:"cost" json:"cost"`
	DealerName    string             `bson:"dealerName" json:"dealerName"`
	DealerContact string             `bson:"dealerContact" json:"dealerContact"`
	Branch        Branch             `bson:"branch" json:"branch"`
	SellingPrice  float64            `bson:"sellingPrice" json:"sellingPrice"`
	RecordedBy    primitive.ObjectID `bson:"recordedBy" json:"recordedBy"`
	Date          time.Time          `bson:"date" json:"date"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
