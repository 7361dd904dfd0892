// Package procurement coordinates purchase recording: persist the
// procurement record first, fold the delivery into stock second, and delete
// the record if the stock step fails. The ordering is the inverse of the
// sale flow because here the risky step is the stock mutation, and deleting
// a just-inserted immutable record is simpler than reversing a stock
// increment that may have raced with other writes.
package procurement

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/domain/models"
	"github.com/mukwano/agrotrack/internal/service/auth"
	"github.com/mukwano/agrotrack/internal/service/inventory"
)

// StockUpserter is the slice of the inventory ledger the coordinator uses.
type StockUpserter interface {
	Upsert(ctx context.Context, in inventory.UpsertInput) (models.StockItem, error)
}

// ProcurementStore persists procurement records. Implemented by
// mongodb.ProcurementRepository.
type ProcurementStore interface {
	Insert(ctx context.Context, record models.ProcurementRecord) (models.ProcurementRecord, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, branch *models.Branch) ([]models.ProcurementRecord, error)
	SummaryByBranch(ctx context.Context, branch *models.Branch) ([]models.ProcurementBranchSummary, error)
	SummaryByProduce(ctx context.Context, branch *models.Branch) ([]models.ProcurementProduceSummary, error)
}

// Coordinator runs the procurement flow.
type Coordinator struct {
	ledger StockUpserter
	store  ProcurementStore
	logger *zap.Logger
}

// NewCoordinator constructs the procurement coordinator.
func NewCoordinator(ledger StockUpserter, store ProcurementStore, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{ledger: ledger, store: store, logger: logger}
}

// Input is a request to record a procurement purchase.
type Input struct {
	ProduceName   string
	ProduceType   string
	TonnageKg     float64
	Cost          float64
	DealerName    string
	DealerContact string
	SellingPrice  float64
	Date          time.Time
}

// Result is a recorded procurement with the stock row it produced.
type Result struct {
	Procurement models.ProcurementRecord `json:"procurement"`
	Stock       models.StockItem         `json:"stock"`
}

// Record persists the procurement record, then upserts the branch stock with
// the same tonnage and selling price. If the upsert fails the record is
// deleted again (best-effort, logged) and the upsert error is surfaced.
//
// Only managers record procurement, always against their own branch.
func (c *Coordinator) Record(ctx context.Context, caller models.Caller, in Input) (Result, error) {
	if err := auth.RequireRole(caller, models.RoleManager); err != nil {
		return Result{}, err
	}
	if caller.Branch == nil {
		return Result{}, errs.InvalidInput("branch is required")
	}
	branch := *caller.Branch

	if err := validateInput(in); err != nil {
		return Result{}, err
	}
	recordedBy, err := primitive.ObjectIDFromHex(caller.ID)
	if err != nil {
		return Result{}, errs.InvalidInput("invalid acting user id")
	}

	record := models.ProcurementRecord{
		ProduceName:   strings.TrimSpace(in.ProduceName),
		ProduceType:   strings.TrimSpace(in.ProduceType),
		TonnageKg:     in.TonnageKg,
		Cost:          in.Cost,
		DealerName:    strings.TrimSpace(in.DealerName),
		DealerContact: strings.TrimSpace(in.DealerContact),
		Branch:        branch,
		SellingPrice:  in.SellingPrice,
		RecordedBy:    recordedBy,
		Date:          recordDate(in.Date),
	}

	persisted, err := c.store.Insert(ctx, record)
	if err != nil {
		return Result{}, errs.Storage("procurement persist", err)
	}

	stock, err := c.ledger.Upsert(ctx, inventory.UpsertInput{
		Branch:       branch,
		ProduceName:  record.ProduceName,
		ProduceType:  record.ProduceType,
		TonnageKg:    record.TonnageKg,
		SellingPrice: record.SellingPrice,
		ActingUserID: caller.ID,
	})
	if err != nil {
		c.compensate(ctx, persisted)
		return Result{}, err
	}

	c.logger.Info("procurement recorded",
		zap.String("branch", string(branch)),
		zap.String("produce", persisted.ProduceName),
		zap.Float64("tonnageKg", persisted.TonnageKg),
		zap.Float64("newStockKg", stock.QuantityKg))

	return Result{Procurement: persisted, Stock: stock}, nil
}

// ListRecords fetches procurement records. Directors see every branch,
// managers their own.
func (c *Coordinator) ListRecords(ctx context.Context, caller models.Caller) ([]models.ProcurementRecord, error) {
	scope, err := viewScope(caller)
	if err != nil {
		return nil, err
	}

	records, err := c.store.List(ctx, scope)
	if err != nil {
		return nil, errs.Storage("procurement list", err)
	}
	return records, nil
}

// Summary aggregates procurement per branch and per produce within the
// caller's scope.
func (c *Coordinator) Summary(ctx context.Context, caller models.Caller) (models.ProcurementSummary, error) {
	scope, err := viewScope(caller)
	if err != nil {
		return models.ProcurementSummary{}, err
	}

	byBranch, err := c.store.SummaryByBranch(ctx, scope)
	if err != nil {
		return models.ProcurementSummary{}, errs.Storage("procurement summary", err)
	}
	byProduce, err := c.store.SummaryByProduce(ctx, scope)
	if err != nil {
		return models.ProcurementSummary{}, errs.Storage("procurement summary", err)
	}

	summary := models.ProcurementSummary{
		Scope:            "all",
		SummaryByBranch:  byBranch,
		SummaryByProduce: byProduce,
	}
	if scope != nil {
		summary.Scope = string(*scope)
	}
	for _, row := range byBranch {
		summary.Totals.TotalProcurements += row.ProcurementCount
		summary.Totals.TotalTonnageKg += row.TotalTonnageKg
		summary.Totals.TotalCost += row.TotalCost
	}
	return summary, nil
}

func (c *Coordinator) compensate(ctx context.Context, record models.ProcurementRecord) {
	if err := c.store.DeleteByID(ctx, record.ID); err != nil {
		// The record is now orphaned relative to stock; the upsert error
		// stays primary and operators reconcile the leftover record.
		c.logger.Error("procurement compensation failed, record needs manual cleanup",
			zap.String("procurementId", record.ID.Hex()),
			zap.String("branch", string(record.Branch)),
			zap.String("produce", record.ProduceName),
			zap.Error(err))
	}
}

func viewScope(caller models.Caller) (*models.Branch, error) {
	if err := auth.RequireRole(caller, models.RoleDirector, models.RoleManager); err != nil {
		return nil, err
	}
	if caller.Role == models.RoleDirector {
		return nil, nil
	}
	if caller.Branch == nil {
		return nil, errs.InvalidInput("branch is required")
	}
	return caller.Branch, nil
}

func validateInput(in Input) error {
	switch {
	case strings.TrimSpace(in.ProduceName) == "":
		return errs.InvalidInput("produce name is required")
	case in.TonnageKg <= 0:
		return errs.InvalidInput("tonnage must be a positive number of kilograms")
	case in.Cost <= 0:
		return errs.InvalidInput("cost must be a positive amount")
	case strings.TrimSpace(in.DealerName) == "":
		return errs.InvalidInput("dealer name is required")
	case strings.TrimSpace(in.DealerContact) == "":
		return errs.InvalidInput("dealer contact is required")
	case in.SellingPrice < 0:
		return errs.InvalidInput("selling price must not be negative")
	}
	return nil
}

func recordDate(supplied time.Time) time.Time {
	if supplied.IsZero() {
		return time.Now().UTC()
	}
	return supplied
}
