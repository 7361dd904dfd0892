package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mukwano/agrotrack/internal/server/middleware"
	"github.com/mukwano/agrotrack/internal/service/reporting"
)

// StockHandler serves the read-only stock reporting endpoints.
type StockHandler struct {
	reports *reporting.Service
	logger  *zap.Logger
}

// NewStockHandler constructs the stock HTTP adapter.
func NewStockHandler(reports *reporting.Service, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{reports: reports, logger: logger}
}

// Summary handles GET /stock/summary.
func (h *StockHandler) Summary(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	summary, err := h.reports.StockSummary(c.Request.Context(), caller)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Stock summary fetched successfully",
		"thresholdKg":    summary.ThresholdKg,
		"totals":         summary.Totals,
		"stockByBranch":  summary.StockByBranch,
		"stockByProduce": summary.StockByProduce,
		"lowStockItems":  summary.LowStockItems,
	})
}

// Alerts handles GET /stock/alerts.
func (h *StockHandler) Alerts(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	alerts, err := h.reports.StockAlerts(c.Request.Context(), caller)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock alerts fetched successfully",
		"alerts":  alerts,
	})
}

// SalesSummary handles GET /sales/summary (director only).
func (h *StockHandler) SalesSummary(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	summary, err := h.reports.SalesSummary(c.Request.Context(), caller)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Aggregated sales totals fetched successfully",
		"cashByBranch":   summary.CashByBranch,
		"creditByBranch": summary.CreditByBranch,
	})
}
