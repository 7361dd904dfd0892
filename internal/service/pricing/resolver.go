// Package pricing derives sale amounts from current stock prices. Amounts
// are computed with decimals so 2500 x 10 comes out as exactly 25000 rather
// than whatever binary floats make of it.
package pricing

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/domain/models"
)

// Quoter is the read-only slice of the inventory ledger the resolver needs.
type Quoter interface {
	Quote(ctx context.Context, branch models.Branch, produceName string) (unitPrice, availableKg float64, err error)
}

// Quote is a derived, non-persisted price computation for one prospective
// sale line.
type Quote struct {
	ProduceName         string        `json:"produceName"`
	Branch              models.Branch `json:"branch"`
	UnitPrice           float64       `json:"unitPrice"`
	TonnageKg           float64       `json:"tonnageKg"`
	Amount              float64       `json:"amount"`
	AvailableQuantityKg float64       `json:"availableQuantityKg"`
}

// Resolver computes sale quotes from ledger state.
type Resolver struct {
	quoter Quoter
}

// NewResolver constructs a pricing resolver over the given ledger.
func NewResolver(quoter Quoter) *Resolver {
	return &Resolver{quoter: quoter}
}

// QuoteSaleAmount prices tonnageKg of produceName at branch using the
// current selling price. Fails with InvalidInput on a blank produce name or
// non-positive tonnage, and with NotFound when the branch holds no stock row
// for the produce.
func (r *Resolver) QuoteSaleAmount(ctx context.Context, branch models.Branch, produceName string, tonnageKg float64) (Quote, error) {
	name := strings.TrimSpace(produceName)
	if name == "" {
		return Quote{}, errs.InvalidInput("produce name is required")
	}
	if tonnageKg <= 0 {
		return Quote{}, errs.InvalidInput("tonnage must be a positive number of kilograms")
	}

	unitPrice, availableKg, err := r.quoter.Quote(ctx, branch, name)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		ProduceName:         name,
		Branch:              branch,
		UnitPrice:           unitPrice,
		TonnageKg:           tonnageKg,
		Amount:              Amount(unitPrice, tonnageKg),
		AvailableQuantityKg: availableKg,
	}, nil
}

// Amount multiplies a unit price by a tonnage using decimal arithmetic.
func Amount(unitPrice, tonnageKg float64) float64 {
	amount := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromFloat(tonnageKg))
	result, _ := amount.Float64()
	return result
}
