package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/server/middleware"
	"github.com/mukwano/agrotrack/internal/service/procurement"
)

// ProcurementHandler adapts the procurement coordinator to HTTP.
type ProcurementHandler struct {
	coordinator *procurement.Coordinator
	logger      *zap.Logger
}

// NewProcurementHandler constructs the procurement HTTP adapter.
func NewProcurementHandler(coordinator *procurement.Coordinator, logger *zap.Logger) *ProcurementHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcurementHandler{coordinator: coordinator, logger: logger}
}

type procurementRequest struct {
	ProduceName   string    `json:"produceName"`
	ProduceType   string    `json:"produceType"`
	TonnageKg     float64   `json:"tonnage"`
	Cost          float64   `json:"cost"`
	DealerName    string    `json:"dealerName"`
	DealerContact string    `json:"dealerContact"`
	SellingPrice  float64   `json:"sellingPrice"`
	Date          time.Time `json:"date"`
}

// Record handles POST /procurement.
func (h *ProcurementHandler) Record(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var req procurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errs.InvalidInput("invalid request body"))
		return
	}

	result, err := h.coordinator.Record(c.Request.Context(), caller, procurement.Input{
		ProduceName:   req.ProduceName,
		ProduceType:   req.ProduceType,
		TonnageKg:     req.TonnageKg,
		Cost:          req.Cost,
		DealerName:    req.DealerName,
		DealerContact: req.DealerContact,
		SellingPrice:  req.SellingPrice,
		Date:          req.Date,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Procurement recorded and stock updated successfully",
		"procurement": result.Procurement,
		"stock":       result.Stock,
	})
}

// ListRecords handles GET /procurement/records.
func (h *ProcurementHandler) ListRecords(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	records, err := h.coordinator.ListRecords(c.Request.Context(), caller)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Procurement records fetched successfully",
		"records": records,
	})
}

// Summary handles GET /procurement/summary.
func (h *ProcurementHandler) Summary(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	summary, err := h.coordinator.Summary(c.Request.Context(), caller)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Procurement summary fetched successfully",
		"scope":            summary.Scope,
		"totals":           summary.Totals,
		"summaryByBranch":  summary.SummaryByBranch,
		"summaryByProduce": summary.SummaryByProduce,
	})
}
