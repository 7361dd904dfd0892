package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SaleRecord is an immutable record of a completed cash transaction.
type SaleRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProduceName    string             `bson:"produceName" json:"produceName"`
	TonnageKg      float64            `bson:"tonnageKg" json:"tonnageKg"`
	AmountPaid     float64            `bson:"amountPaid" json:"amountPaid"`
	UnitPrice      float64            `bson:"unitPrice" json:"unitPrice"`
	BuyerName      string             `bson:"buyerName" json:"buyerName"`
	SalesAgentName string             `bson:"salesAgentName" json:"salesAgentName"`
	Branch         Branch             `bson:"branch" json:"branch"`
	Date           time.Time          `bson:"date" json:"date"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// CreditStatus tracks repayment of a credit sale.
type CreditStatus string

const (
	CreditPending       CreditStatus = "Pending"
	CreditPartiallyPaid CreditStatus = "Partially Paid"
	CreditPaid          CreditStatus = "Paid"
)

// ParseCreditStatus validates a raw status value. Empty input defaults to
// Pending.
func ParseCreditStatus(raw string) (CreditStatus, bool) {
	switch CreditStatus(raw) {
	case "":
		return CreditPending, true
	case CreditPending, CreditPartiallyPaid, CreditPaid:
		return CreditStatus(raw), true
	default:
		return "", false
	}
}

// CreditSaleRecord records a sale dispatched on credit. The amount due is
// computed once at creation time and never recomputed from later payments.
type CreditSaleRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProduceName    string             `bson:"produceName" json:"produceName"`
	TonnageKg      float64            `bson:"tonnageKg" json:"tonnageKg"`
	AmountDue      float64            `bson:"amountDue" json:"amountDue"`
	UnitPrice      float64            `bson:"unitPrice" json:"unitPrice"`
	BuyerName      string             `bson:"buyerName" json:"buyerName"`
	BuyerNIN       string             `bson:"buyerNIN" json:"buyerNIN"`
	BuyerLocation  string             `bson:"buyerLocation" json:"buyerLocation"`
	BuyerContact   string             `bson:"buyerContact" json:"buyerContact"`
	SalesAgentName string             `bson:"salesAgentName" json:"salesAgentName"`
	Branch         Branch             `bson:"branch" json:"branch"`
	DueDate        time.Time          `bson:"dueDate" json:"dueDate"`
	DispatchDate   time.Time          `bson:"dispatchDate" json:"dispatchDate"`
	Status         CreditStatus       `bson:"status" json:"status"`
	Date           time.Time          `bson:"date" json:"date"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
