// Package reporting serves the read-only aggregation endpoints and builds
// the daily low-stock digest the scheduler delivers.
package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/domain/models"
	"github.com/mukwano/agrotrack/internal/service/auth"
)

// StockReader is the read-only stock access the reports need.
type StockReader interface {
	SummaryByBranch(ctx context.Context) ([]models.StockBranchSummary, error)
	SummaryByProduce(ctx context.Context) ([]models.StockProduceSummary, error)
	ListAtOrBelow(ctx context.Context, thresholdKg float64, branch *models.Branch) ([]models.StockItem, error)
	ListAll(ctx context.Context, branch *models.Branch) ([]models.StockItem, error)
}

// SalesReader is the read-only sales access the reports need.
type SalesReader interface {
	CashSummaryByBranch(ctx context.Context) ([]models.CashSalesBranchSummary, error)
	CreditSummaryByBranch(ctx context.Context) ([]models.CreditSalesBranchSummary, error)
}

// Service computes the aggregated views.
type Service struct {
	stock       StockReader
	sales       SalesReader
	thresholdKg float64
	logger      *zap.Logger
}

// NewService constructs the reporting service. thresholdKg is the low-stock
// boundary used by summaries, alerts and the daily digest.
func NewService(stock StockReader, sales SalesReader, thresholdKg float64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{stock: stock, sales: sales, thresholdKg: thresholdKg, logger: logger}
}

// StockSummary returns the full stock overview: per-branch and per-produce
// totals plus the low-stock list. Directors and managers only.
func (s *Service) StockSummary(ctx context.Context, caller models.Caller) (models.StockSummary, error) {
	if err := auth.RequireRole(caller, models.RoleDirector, models.RoleManager); err != nil {
		return models.StockSummary{}, err
	}

	byBranch, err := s.stock.SummaryByBranch(ctx)
	if err != nil {
		return models.StockSummary{}, errs.Storage("stock summary", err)
	}
	byProduce, err := s.stock.SummaryByProduce(ctx)
	if err != nil {
		return models.StockSummary{}, errs.Storage("stock summary", err)
	}
	lowStock, err := s.stock.ListAtOrBelow(ctx, s.thresholdKg, nil)
	if err != nil {
		return models.StockSummary{}, errs.Storage("stock summary", err)
	}

	summary := models.StockSummary{
		ThresholdKg:    s.thresholdKg,
		StockByBranch:  byBranch,
		StockByProduce: byProduce,
		LowStockItems:  lowStock,
	}
	for _, row := range byBranch {
		summary.Totals.TotalItems += row.ItemCount
		summary.Totals.TotalQuantityKg += row.TotalQuantityKg
		summary.Totals.TotalStockValue += row.TotalStockValue
	}
	return summary, nil
}

// StockAlerts returns low-stock and out-of-stock warnings. Managers see
// their own branch, directors every branch.
func (s *Service) StockAlerts(ctx context.Context, caller models.Caller) ([]models.StockAlert, error) {
	if err := auth.RequireRole(caller, models.RoleDirector, models.RoleManager); err != nil {
		return nil, err
	}

	var scope *models.Branch
	if caller.Role != models.RoleDirector {
		if caller.Branch == nil {
			return nil, errs.InvalidInput("branch is required")
		}
		scope = caller.Branch
	}

	items, err := s.stock.ListAtOrBelow(ctx, s.thresholdKg, scope)
	if err != nil {
		return nil, errs.Storage("stock alerts", err)
	}
	return s.buildAlerts(items), nil
}

// SalesSummary returns the director-only aggregated sales totals.
func (s *Service) SalesSummary(ctx context.Context, caller models.Caller) (models.SalesSummary, error) {
	if err := auth.RequireRole(caller, models.RoleDirector); err != nil {
		return models.SalesSummary{}, err
	}

	cash, err := s.sales.CashSummaryByBranch(ctx)
	if err != nil {
		return models.SalesSummary{}, errs.Storage("sales summary", err)
	}
	credit, err := s.sales.CreditSummaryByBranch(ctx)
	if err != nil {
		return models.SalesSummary{}, errs.Storage("sales summary", err)
	}
	return models.SalesSummary{CashByBranch: cash, CreditByBranch: credit}, nil
}

// DailyDigest builds the scheduler's low-stock digest across all branches.
// The empty string means nothing is below the threshold today.
func (s *Service) DailyDigest(ctx context.Context, now time.Time) (string, error) {
	items, err := s.stock.ListAtOrBelow(ctx, s.thresholdKg, nil)
	if err != nil {
		return "", errs.Storage("daily digest", err)
	}
	if len(items) == 0 {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stock alerts for %s (threshold %.0f kg):\n", now.Format("2006-01-02"), s.thresholdKg)
	for _, alert := range s.buildAlerts(items) {
		fmt.Fprintf(&b, "- [%s] %s\n", alert.Branch, alert.Message)
	}
	return b.String(), nil
}

// Snapshot lists every stock row for the daily ledger export.
func (s *Service) Snapshot(ctx context.Context) ([]models.StockItem, error) {
	items, err := s.stock.ListAll(ctx, nil)
	if err != nil {
		return nil, errs.Storage("stock snapshot", err)
	}
	return items, nil
}

func (s *Service) buildAlerts(items []models.StockItem) []models.StockAlert {
	alerts := make([]models.StockAlert, 0, len(items))
	for _, item := range items {
		alert := models.StockAlert{
			Type:        models.AlertLowStock,
			ProduceName: item.ProduceName,
			Branch:      item.Branch,
			QuantityKg:  item.QuantityKg,
			ThresholdKg: s.thresholdKg,
			Message:     fmt.Sprintf("%s is low on stock: %.2f kg left", item.ProduceName, item.QuantityKg),
		}
		if item.QuantityKg <= 0 {
			alert.Type = models.AlertOutOfStock
			alert.Message = fmt.Sprintf("%s is out of stock", item.ProduceName)
		}
		alerts = append(alerts, alert)
	}
	return alerts
}
