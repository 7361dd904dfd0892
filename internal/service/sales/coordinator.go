// Package sales coordinates the two sale flows: reserve stock, price from
// the reserved row, persist the record, and release the reservation when the
// persist fails.
package sales

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/domain/models"
	"github.com/mukwano/agrotrack/internal/service/auth"
	"github.com/mukwano/agrotrack/internal/service/pricing"
)

// StockReserver is the slice of the inventory ledger the coordinator uses.
type StockReserver interface {
	Reserve(ctx context.Context, branch models.Branch, produceName string, tonnageKg float64, actingUserID string) (models.StockItem, error)
	Release(ctx context.Context, branch models.Branch, produceName string, tonnageKg float64) error
}

// SaleStore persists sale records. Implemented by mongodb.SalesRepository.
type SaleStore interface {
	InsertCash(ctx context.Context, sale models.SaleRecord) (models.SaleRecord, error)
	InsertCredit(ctx context.Context, sale models.CreditSaleRecord) (models.CreditSaleRecord, error)
	ListCash(ctx context.Context, branch *models.Branch) ([]models.SaleRecord, error)
	ListCredit(ctx context.Context, branch *models.Branch) ([]models.CreditSaleRecord, error)
}

// Coordinator runs the sale reservation flows.
type Coordinator struct {
	ledger StockReserver
	store  SaleStore
	logger *zap.Logger
}

// NewCoordinator constructs the sale coordinator.
func NewCoordinator(ledger StockReserver, store SaleStore, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{ledger: ledger, store: store, logger: logger}
}

// CashSaleInput is a request to record a cash sale.
type CashSaleInput struct {
	ProduceName    string
	TonnageKg      float64
	BuyerName      string
	SalesAgentName string
	Branch         string
	Date           time.Time
}

// CashSaleResult is a recorded cash sale with its pricing breakdown.
type CashSaleResult struct {
	Sale      models.SaleRecord `json:"sale"`
	UnitPrice float64           `json:"unitPrice"`
	Amount    float64           `json:"computedAmount"`
}

// CreditSaleInput is a request to record a credit sale.
type CreditSaleInput struct {
	ProduceName    string
	TonnageKg      float64
	BuyerName      string
	BuyerNIN       string
	BuyerLocation  string
	BuyerContact   string
	SalesAgentName string
	Branch         string
	DueDate        time.Time
	DispatchDate   time.Time
	Status         string
	Date           time.Time
}

// CreditSaleResult is a recorded credit sale with its pricing breakdown.
type CreditSaleResult struct {
	Sale      models.CreditSaleRecord `json:"creditSale"`
	UnitPrice float64                 `json:"unitPrice"`
	Amount    float64                 `json:"computedAmount"`
}

// RecordCashSale reserves stock, prices the sale off the reserved row, and
// persists the record. A persist failure releases the reservation and
// surfaces the persist error; the release itself is best-effort and only
// logged, so the real cause of failure is never hidden.
func (c *Coordinator) RecordCashSale(ctx context.Context, caller models.Caller, in CashSaleInput) (CashSaleResult, error) {
	if err := auth.RequireRole(caller, models.RoleManager, models.RoleSalesAgent); err != nil {
		return CashSaleResult{}, err
	}
	branch, err := auth.ResolveScope(caller, in.Branch)
	if err != nil {
		return CashSaleResult{}, err
	}
	if strings.TrimSpace(in.BuyerName) == "" {
		return CashSaleResult{}, errs.InvalidInput("buyer name is required")
	}

	reserved, err := c.ledger.Reserve(ctx, branch, in.ProduceName, in.TonnageKg, caller.ID)
	if err != nil {
		return CashSaleResult{}, err
	}

	amount := pricing.Amount(reserved.SellingPrice, in.TonnageKg)
	sale := models.SaleRecord{
		ProduceName:    reserved.ProduceName,
		TonnageKg:      in.TonnageKg,
		AmountPaid:     amount,
		UnitPrice:      reserved.SellingPrice,
		BuyerName:      strings.TrimSpace(in.BuyerName),
		SalesAgentName: agentName(in.SalesAgentName, caller),
		Branch:         branch,
		Date:           saleDate(in.Date),
	}

	persisted, err := c.store.InsertCash(ctx, sale)
	if err != nil {
		c.compensate(ctx, branch, reserved.ProduceName, in.TonnageKg)
		return CashSaleResult{}, errs.Storage("cash sale persist", err)
	}

	c.logger.Info("cash sale recorded",
		zap.String("branch", string(branch)),
		zap.String("produce", persisted.ProduceName),
		zap.Float64("tonnageKg", persisted.TonnageKg),
		zap.Float64("amountPaid", persisted.AmountPaid))

	return CashSaleResult{Sale: persisted, UnitPrice: reserved.SellingPrice, Amount: amount}, nil
}

// RecordCreditSale is the credit variant of RecordCashSale. Buyer identity
// fields are validated before any stock is touched, so a bad request never
// needs compensation.
func (c *Coordinator) RecordCreditSale(ctx context.Context, caller models.Caller, in CreditSaleInput) (CreditSaleResult, error) {
	if err := auth.RequireRole(caller, models.RoleManager, models.RoleSalesAgent); err != nil {
		return CreditSaleResult{}, err
	}
	branch, err := auth.ResolveScope(caller, in.Branch)
	if err != nil {
		return CreditSaleResult{}, err
	}
	if err := validateCreditInput(in); err != nil {
		return CreditSaleResult{}, err
	}
	status, ok := models.ParseCreditStatus(in.Status)
	if !ok {
		return CreditSaleResult{}, errs.InvalidInput("unknown credit status %q", in.Status)
	}

	reserved, err := c.ledger.Reserve(ctx, branch, in.ProduceName, in.TonnageKg, caller.ID)
	if err != nil {
		return CreditSaleResult{}, err
	}

	amount := pricing.Amount(reserved.SellingPrice, in.TonnageKg)
	sale := models.CreditSaleRecord{
		ProduceName:    reserved.ProduceName,
		TonnageKg:      in.TonnageKg,
		AmountDue:      amount,
		UnitPrice:      reserved.SellingPrice,
		BuyerName:      strings.TrimSpace(in.BuyerName),
		BuyerNIN:       strings.TrimSpace(in.BuyerNIN),
		BuyerLocation:  strings.TrimSpace(in.BuyerLocation),
		BuyerContact:   strings.TrimSpace(in.BuyerContact),
		SalesAgentName: agentName(in.SalesAgentName, caller),
		Branch:         branch,
		DueDate:        in.DueDate,
		DispatchDate:   saleDate(in.DispatchDate),
		Status:         status,
		Date:           saleDate(in.Date),
	}

	persisted, err := c.store.InsertCredit(ctx, sale)
	if err != nil {
		c.compensate(ctx, branch, reserved.ProduceName, in.TonnageKg)
		return CreditSaleResult{}, errs.Storage("credit sale persist", err)
	}

	c.logger.Info("credit sale recorded",
		zap.String("branch", string(branch)),
		zap.String("produce", persisted.ProduceName),
		zap.Float64("tonnageKg", persisted.TonnageKg),
		zap.Float64("amountDue", persisted.AmountDue))

	return CreditSaleResult{Sale: persisted, UnitPrice: reserved.SellingPrice, Amount: amount}, nil
}

// Records is the branch-scoped listing of both sale kinds.
type Records struct {
	CashSales   []models.SaleRecord       `json:"cashSales"`
	CreditSales []models.CreditSaleRecord `json:"creditSales"`
}

// ListRecords fetches cash and/or credit sales within the caller's scope.
// kind is one of "all", "cash" or "credit".
func (c *Coordinator) ListRecords(ctx context.Context, caller models.Caller, kind, requestedBranch string) (Records, error) {
	if kind == "" {
		kind = "all"
	}
	if kind != "all" && kind != "cash" && kind != "credit" {
		return Records{}, errs.InvalidInput("invalid type %q, use all, cash, or credit", kind)
	}

	scope, err := auth.OptionalScope(caller, requestedBranch)
	if err != nil {
		return Records{}, err
	}

	records := Records{CashSales: []models.SaleRecord{}, CreditSales: []models.CreditSaleRecord{}}
	if kind != "credit" {
		if records.CashSales, err = c.store.ListCash(ctx, scope); err != nil {
			return Records{}, errs.Storage("cash sales list", err)
		}
	}
	if kind != "cash" {
		if records.CreditSales, err = c.store.ListCredit(ctx, scope); err != nil {
			return Records{}, errs.Storage("credit sales list", err)
		}
	}
	return records, nil
}

func (c *Coordinator) compensate(ctx context.Context, branch models.Branch, produceName string, tonnageKg float64) {
	if err := c.ledger.Release(ctx, branch, produceName, tonnageKg); err != nil {
		// The reservation could not be undone; stock now understates reality
		// until operators reconcile it. The persist error stays primary.
		c.logger.Error("sale compensation failed, stock needs manual reconciliation",
			zap.String("branch", string(branch)),
			zap.String("produce", produceName),
			zap.Float64("tonnageKg", tonnageKg),
			zap.Error(err))
	}
}

func validateCreditInput(in CreditSaleInput) error {
	switch {
	case strings.TrimSpace(in.BuyerName) == "":
		return errs.InvalidInput("buyer name is required")
	case len(strings.TrimSpace(in.BuyerNIN)) < 6:
		return errs.InvalidInput("buyer NIN must be at least 6 characters")
	case strings.TrimSpace(in.BuyerLocation) == "":
		return errs.InvalidInput("buyer location is required")
	case strings.TrimSpace(in.BuyerContact) == "":
		return errs.InvalidInput("buyer contact is required")
	case in.DueDate.IsZero():
		return errs.InvalidInput("due date is required")
	}
	return nil
}

func agentName(supplied string, caller models.Caller) string {
	if name := strings.TrimSpace(supplied); name != "" {
		return name
	}
	return caller.Username
}

func saleDate(supplied time.Time) time.Time {
	if supplied.IsZero() {
		return time.Now().UTC()
	}
	return supplied
}
