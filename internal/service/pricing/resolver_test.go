package pricing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/domain/models"
	"github.com/mukwano/agrotrack/internal/service/pricing"
)

type fakeQuoter struct {
	unitPrice   float64
	availableKg float64
	err         error
}

func (f fakeQuoter) Quote(context.Context, models.Branch, string) (float64, float64, error) {
	return f.unitPrice, f.availableKg, f.err
}

func TestQuoteSaleAmount_ComputesAmount(t *testing.T) {
	resolver := pricing.NewResolver(fakeQuoter{unitPrice: 2500, availableKg: 80})

	quote, err := resolver.QuoteSaleAmount(context.Background(), models.BranchMaganjo, "Maize", 10)
	require.NoError(t, err)

	assert.Equal(t, 25000.0, quote.Amount)
	assert.Equal(t, 2500.0, quote.UnitPrice)
	assert.Equal(t, 10.0, quote.TonnageKg)
	assert.Equal(t, 80.0, quote.AvailableQuantityKg)
	assert.Equal(t, "Maize", quote.ProduceName)
	assert.Equal(t, models.BranchMaganjo, quote.Branch)
}

func TestQuoteSaleAmount_DecimalArithmetic(t *testing.T) {
	// 1954.55 x 3.3 drifts under binary floats; the decimal path keeps it
	// exact.
	resolver := pricing.NewResolver(fakeQuoter{unitPrice: 1954.55, availableKg: 10})

	quote, err := resolver.QuoteSaleAmount(context.Background(), models.BranchMatugga, "Beans", 3.3)
	require.NoError(t, err)
	assert.Equal(t, 6450.015, quote.Amount)
}

func TestQuoteSaleAmount_InvalidInput(t *testing.T) {
	resolver := pricing.NewResolver(fakeQuoter{unitPrice: 2500})
	ctx := context.Background()

	_, err := resolver.QuoteSaleAmount(ctx, models.BranchMaganjo, "", 10)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = resolver.QuoteSaleAmount(ctx, models.BranchMaganjo, "Maize", 0)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = resolver.QuoteSaleAmount(ctx, models.BranchMaganjo, "Maize", -2)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestQuoteSaleAmount_NotFoundPassesThrough(t *testing.T) {
	resolver := pricing.NewResolver(fakeQuoter{err: errs.NotFound("no stock")})

	_, err := resolver.QuoteSaleAmount(context.Background(), models.BranchMaganjo, "Cassava", 5)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
