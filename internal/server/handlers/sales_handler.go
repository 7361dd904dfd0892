package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/domain/models"
	"github.com/mukwano/agrotrack/internal/server/middleware"
	"github.com/mukwano/agrotrack/internal/service/auth"
	"github.com/mukwano/agrotrack/internal/service/pricing"
	"github.com/mukwano/agrotrack/internal/service/sales"
)

// SalesHandler adapts the sale coordinator and pricing resolver to HTTP.
type SalesHandler struct {
	coordinator *sales.Coordinator
	resolver    *pricing.Resolver
	logger      *zap.Logger
}

// NewSalesHandler constructs the sales HTTP adapter.
func NewSalesHandler(coordinator *sales.Coordinator, resolver *pricing.Resolver, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{coordinator: coordinator, resolver: resolver, logger: logger}
}

// PriceQuote handles GET /sales/price-quote.
func (h *SalesHandler) PriceQuote(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	if err := auth.RequireRole(caller, models.RoleManager, models.RoleSalesAgent, models.RoleDirector); err != nil {
		respondError(c, h.logger, err)
		return
	}
	branch, err := auth.ResolveScope(caller, c.Query("branch"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	tonnageKg, err := strconv.ParseFloat(c.Query("tonnageKg"), 64)
	if err != nil {
		respondError(c, h.logger, errs.InvalidInput("tonnageKg must be a number"))
		return
	}

	quote, err := h.resolver.QuoteSaleAmount(c.Request.Context(), branch, c.Query("produceName"), tonnageKg)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Price quote computed successfully",
		"quote":   quote,
	})
}

type cashSaleRequest struct {
	ProduceName    string    `json:"produceName"`
	TonnageKg      float64   `json:"tonnageKg"`
	BuyerName      string    `json:"buyerName"`
	SalesAgentName string    `json:"salesAgentName"`
	Branch         string    `json:"branch"`
	Date           time.Time `json:"date"`
}

// RecordCashSale handles POST /sales/cash.
func (h *SalesHandler) RecordCashSale(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var req cashSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errs.InvalidInput("invalid request body"))
		return
	}

	result, err := h.coordinator.RecordCashSale(c.Request.Context(), caller, sales.CashSaleInput{
		ProduceName:    req.ProduceName,
		TonnageKg:      req.TonnageKg,
		BuyerName:      req.BuyerName,
		SalesAgentName: req.SalesAgentName,
		Branch:         req.Branch,
		Date:           req.Date,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Cash sale recorded successfully",
		"sale":           result.Sale,
		"unitPrice":      result.UnitPrice,
		"computedAmount": result.Amount,
	})
}

type creditSaleRequest struct {
	ProduceName    string    `json:"produceName"`
	TonnageKg      float64   `json:"tonnageKg"`
	BuyerName      string    `json:"buyerName"`
	BuyerNIN       string    `json:"buyerNIN"`
	BuyerLocation  string    `json:"buyerLocation"`
	BuyerContact   string    `json:"buyerContact"`
	SalesAgentName string    `json:"salesAgentName"`
	Branch         string    `json:"branch"`
	DueDate        time.Time `json:"dueDate"`
	DispatchDate   time.Time `json:"dispatchDate"`
	Status         string    `json:"status"`
	Date           time.Time `json:"date"`
}

// RecordCreditSale handles POST /sales/credit.
func (h *SalesHandler) RecordCreditSale(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var req creditSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errs.InvalidInput("invalid request body"))
		return
	}

	result, err := h.coordinator.RecordCreditSale(c.Request.Context(), caller, sales.CreditSaleInput{
		ProduceName:    req.ProduceName,
		TonnageKg:      req.TonnageKg,
		BuyerName:      req.BuyerName,
		BuyerNIN:       req.BuyerNIN,
		BuyerLocation:  req.BuyerLocation,
		BuyerContact:   req.BuyerContact,
		SalesAgentName: req.SalesAgentName,
		Branch:         req.Branch,
		DueDate:        req.DueDate,
		DispatchDate:   req.DispatchDate,
		Status:         req.Status,
		Date:           req.Date,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Credit sale recorded successfully",
		"creditSale":     result.Sale,
		"unitPrice":      result.UnitPrice,
		"computedAmount": result.Amount,
	})
}

// ListRecords handles GET /sales/records.
func (h *SalesHandler) ListRecords(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	records, err := h.coordinator.ListRecords(c.Request.Context(), caller, c.DefaultQuery("type", "all"), c.Query("branch"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Sales records fetched successfully",
		"cashSales":   records.CashSales,
		"creditSales": records.CreditSales,
	})
}
