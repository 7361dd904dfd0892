package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/domain/models"
	"github.com/mukwano/agrotrack/internal/service/inventory"
	"github.com/mukwano/agrotrack/internal/service/inventory/inventorytest"
	"github.com/mukwano/agrotrack/internal/service/sales"
)

type fakeSaleStore struct {
	cash   []models.SaleRecord
	credit []models.CreditSaleRecord

	failCash   error
	failCredit error
}

func (f *fakeSaleStore) InsertCash(_ context.Context, sale models.SaleRecord) (models.SaleRecord, error) {
	if f.failCash != nil {
		return models.SaleRecord{}, f.failCash
	}
	f.cash = append(f.cash, sale)
	return sale, nil
}

func (f *fakeSaleStore) InsertCredit(_ context.Context, sale models.CreditSaleRecord) (models.CreditSaleRecord, error) {
	if f.failCredit != nil {
		return models.CreditSaleRecord{}, f.failCredit
	}
	f.credit = append(f.credit, sale)
	return sale, nil
}

func (f *fakeSaleStore) ListCash(_ context.Context, branch *models.Branch) ([]models.SaleRecord, error) {
	if branch == nil {
		return f.cash, nil
	}
	var out []models.SaleRecord
	for _, sale := range f.cash {
		if sale.Branch == *branch {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (f *fakeSaleStore) ListCredit(_ context.Context, branch *models.Branch) ([]models.CreditSaleRecord, error) {
	if branch == nil {
		return f.credit, nil
	}
	var out []models.CreditSaleRecord
	for _, sale := range f.credit {
		if sale.Branch == *branch {
			out = append(out, sale)
		}
	}
	return out, nil
}

func newTestCoordinator() (*sales.Coordinator, *inventorytest.Store, *fakeSaleStore) {
	stock := inventorytest.New()
	store := &fakeSaleStore{}
	coordinator := sales.NewCoordinator(inventory.NewLedger(stock, nil), store, nil)
	return coordinator, stock, store
}

func agentAt(branch models.Branch) models.Caller {
	return models.Caller{
		ID:       "64b5f0a1c2d3e4f5a6b7c8d9",
		Username: "okello",
		Role:     models.RoleSalesAgent,
		Branch:   &branch,
	}
}

func director() models.Caller {
	return models.Caller{ID: "64b5f0a1c2d3e4f5a6b7c8da", Username: "nansamba", Role: models.RoleDirector}
}

func TestRecordCashSale_ReservesPricesAndPersists(t *testing.T) {
	coordinator, stock, store := newTestCoordinator()
	stock.Seed(models.BranchMaganjo, "Maize", "Cereal", 100, 2500)

	result, err := coordinator.RecordCashSale(context.Background(), agentAt(models.BranchMaganjo), sales.CashSaleInput{
		ProduceName: "maize",
		TonnageKg:   10,
		BuyerName:   "Kasule Traders",
	})
	require.NoError(t, err)

	assert.Equal(t, 25000.0, result.Amount)
	assert.Equal(t, 2500.0, result.UnitPrice)
	assert.Equal(t, 25000.0, result.Sale.AmountPaid)
	assert.Equal(t, "Maize", result.Sale.ProduceName)
	assert.Equal(t, models.BranchMaganjo, result.Sale.Branch)
	assert.Equal(t, "okello", result.Sale.SalesAgentName)
	assert.False(t, result.Sale.Date.IsZero())

	assert.Equal(t, 90.0, stock.Quantity(models.BranchMaganjo, "Maize"))
	require.Len(t, store.cash, 1)
}

func TestRecordCashSale_PersistFailure_ReleasesReservation(t *testing.T) {
	// GIVEN: 100kg in stock and a sale store that rejects every write.
	coordinator, stock, store := newTestCoordinator()
	stock.Seed(models.BranchMaganjo, "Maize", "Cereal", 100, 2500)
	store.failCash = errors.New("write concern error")

	// WHEN: a 30kg sale fails at the persist step.
	_, err := coordinator.RecordCashSale(context.Background(), agentAt(models.BranchMaganjo), sales.CashSaleInput{
		ProduceName: "Maize",
		TonnageKg:   30,
		BuyerName:   "Kasule Traders",
	})

	// THEN: the persist error surfaces and the release fully undoes the
	// reservation.
	require.True(t, errs.IsStorage(err))
	assert.Equal(t, 100.0, stock.Quantity(models.BranchMaganjo, "Maize"))
}

func TestRecordCashSale_CompensationFailure_KeepsPersistError(t *testing.T) {
	coordinator, stock, store := newTestCoordinator()
	stock.Seed(models.BranchMaganjo, "Maize", "Cereal", 100, 2500)
	store.failCash = errors.New("write concern error")
	stock.FailIncrement = errors.New("also down")

	_, err := coordinator.RecordCashSale(context.Background(), agentAt(models.BranchMaganjo), sales.CashSaleInput{
		ProduceName: "Maize",
		TonnageKg:   30,
		BuyerName:   "Kasule Traders",
	})

	// The original persist error stays primary even when the release fails.
	require.True(t, errs.IsStorage(err))
	assert.Contains(t, err.Error(), "write concern error")
}

func TestRecordCashSale_InsufficientStock_Aborts(t *testing.T) {
	coordinator, stock, store := newTestCoordinator()
	stock.Seed(models.BranchMaganjo, "Maize", "Cereal", 20, 2500)

	_, err := coordinator.RecordCashSale(context.Background(), agentAt(models.BranchMaganjo), sales.CashSaleInput{
		ProduceName: "Maize",
		TonnageKg:   50,
		BuyerName:   "Kasule Traders",
	})

	require.True(t, errs.IsInsufficientStock(err))
	assert.Empty(t, store.cash, "no record may be written after a failed reservation")
	assert.Equal(t, 20.0, stock.Quantity(models.BranchMaganjo, "Maize"))
}

func TestRecordCashSale_RoleAndBranchResolution(t *testing.T) {
	coordinator, stock, _ := newTestCoordinator()
	stock.Seed(models.BranchMaganjo, "Maize", "Cereal", 100, 2500)
	ctx := context.Background()

	// A director may not record sales at all.
	_, err := coordinator.RecordCashSale(ctx, director(), sales.CashSaleInput{
		ProduceName: "Maize", TonnageKg: 10, BuyerName: "Kasule Traders", Branch: "Maganjo",
	})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	// An agent without a branch assignment cannot resolve a scope.
	_, err = coordinator.RecordCashSale(ctx, models.Caller{Role: models.RoleSalesAgent, Username: "x"}, sales.CashSaleInput{
		ProduceName: "Maize", TonnageKg: 10, BuyerName: "Kasule Traders",
	})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	// An agent's own branch wins over any requested branch.
	result, err := coordinator.RecordCashSale(ctx, agentAt(models.BranchMaganjo), sales.CashSaleInput{
		ProduceName: "Maize", TonnageKg: 10, BuyerName: "Kasule Traders", Branch: "Matugga",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BranchMaganjo, result.Sale.Branch)
}

func TestRecordCreditSale_HappyPath(t *testing.T) {
	coordinator, stock, store := newTestCoordinator()
	stock.Seed(models.BranchMatugga, "Beans", "Legume", 300, 3000)

	dueDate := time.Now().AddDate(0, 1, 0)
	result, err := coordinator.RecordCreditSale(context.Background(), agentAt(models.BranchMatugga), sales.CreditSaleInput{
		ProduceName:   "Beans",
		TonnageKg:     50,
		BuyerName:     "Nampijja Stores",
		BuyerNIN:      "CM930211003XYZ",
		BuyerLocation: "Kawempe",
		BuyerContact:  "+256700123456",
		DueDate:       dueDate,
	})
	require.NoError(t, err)

	assert.Equal(t, 150000.0, result.Sale.AmountDue)
	assert.Equal(t, models.CreditPending, result.Sale.Status)
	assert.Equal(t, dueDate, result.Sale.DueDate)
	assert.False(t, result.Sale.DispatchDate.IsZero())
	assert.Equal(t, 250.0, stock.Quantity(models.BranchMatugga, "Beans"))
	require.Len(t, store.credit, 1)
}

func TestRecordCreditSale_ValidationHappensBeforeReservation(t *testing.T) {
	coordinator, stock, _ := newTestCoordinator()
	stock.Seed(models.BranchMatugga, "Beans", "Legume", 300, 3000)
	ctx := context.Background()

	cases := []struct {
		name string
		in   sales.CreditSaleInput
	}{
		{"missing buyer", sales.CreditSaleInput{ProduceName: "Beans", TonnageKg: 10, BuyerNIN: "CM930211", BuyerLocation: "Kawempe", BuyerContact: "0700123456", DueDate: time.Now()}},
		{"short NIN", sales.CreditSaleInput{ProduceName: "Beans", TonnageKg: 10, BuyerName: "N", BuyerNIN: "CM1", BuyerLocation: "Kawempe", BuyerContact: "0700123456", DueDate: time.Now()}},
		{"missing due date", sales.CreditSaleInput{ProduceName: "Beans", TonnageKg: 10, BuyerName: "Nampijja", BuyerNIN: "CM930211", BuyerLocation: "Kawempe", BuyerContact: "0700123456"}},
		{"bad status", sales.CreditSaleInput{ProduceName: "Beans", TonnageKg: 10, BuyerName: "Nampijja", BuyerNIN: "CM930211", BuyerLocation: "Kawempe", BuyerContact: "0700123456", DueDate: time.Now(), Status: "Defaulted"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := coordinator.RecordCreditSale(ctx, agentAt(models.BranchMatugga), tc.in)
			assert.ErrorIs(t, err, errs.ErrInvalidInput)
			assert.Equal(t, 300.0, stock.Quantity(models.BranchMatugga, "Beans"), "validation failures must not touch stock")
		})
	}
}

func TestRecordCreditSale_PersistFailure_ReleasesReservation(t *testing.T) {
	coordinator, stock, store := newTestCoordinator()
	stock.Seed(models.BranchMatugga, "Beans", "Legume", 100, 3000)
	store.failCredit = errors.New("index violation")

	_, err := coordinator.RecordCreditSale(context.Background(), agentAt(models.BranchMatugga), sales.CreditSaleInput{
		ProduceName:   "Beans",
		TonnageKg:     30,
		BuyerName:     "Nampijja Stores",
		BuyerNIN:      "CM930211003XYZ",
		BuyerLocation: "Kawempe",
		BuyerContact:  "+256700123456",
		DueDate:       time.Now().AddDate(0, 0, 14),
	})

	require.True(t, errs.IsStorage(err))
	assert.Equal(t, 100.0, stock.Quantity(models.BranchMatugga, "Beans"))
}

func TestListRecords_ScopesAndFilters(t *testing.T) {
	coordinator, stock, _ := newTestCoordinator()
	stock.Seed(models.BranchMaganjo, "Maize", "Cereal", 1000, 2500)
	stock.Seed(models.BranchMatugga, "Maize", "Cereal", 1000, 2600)
	ctx := context.Background()

	_, err := coordinator.RecordCashSale(ctx, agentAt(models.BranchMaganjo), sales.CashSaleInput{
		ProduceName: "Maize", TonnageKg: 10, BuyerName: "A",
	})
	require.NoError(t, err)
	_, err = coordinator.RecordCashSale(ctx, agentAt(models.BranchMatugga), sales.CashSaleInput{
		ProduceName: "Maize", TonnageKg: 20, BuyerName: "B",
	})
	require.NoError(t, err)

	// Agents see only their branch.
	records, err := coordinator.ListRecords(ctx, agentAt(models.BranchMaganjo), "all", "")
	require.NoError(t, err)
	require.Len(t, records.CashSales, 1)
	assert.Equal(t, models.BranchMaganjo, records.CashSales[0].Branch)

	// Directors see everything, or one branch when they ask for it.
	records, err = coordinator.ListRecords(ctx, director(), "cash", "")
	require.NoError(t, err)
	assert.Len(t, records.CashSales, 2)

	records, err = coordinator.ListRecords(ctx, director(), "cash", "Matugga")
	require.NoError(t, err)
	require.Len(t, records.CashSales, 1)
	assert.Equal(t, models.BranchMatugga, records.CashSales[0].Branch)

	// Unknown type filters are rejected.
	_, err = coordinator.ListRecords(ctx, director(), "barter", "")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}
