package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mukwano/agrotrack/internal/server/handlers"
	"github.com/mukwano/agrotrack/internal/server/middleware"
)

// Handlers bundles every HTTP adapter the router mounts.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Sales       *handlers.SalesHandler
	Procurement *handlers.ProcurementHandler
	Stock       *handlers.StockHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, jwtSecret string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/auth/signup", h.Auth.Signup)
	r.POST("/auth/login", h.Auth.Login)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authed := r.Group("/", middleware.Authenticate(jwtSecret, logger))
	authed.GET("/auth/me", h.Auth.Me)

	authed.GET("/sales/price-quote", h.Sales.PriceQuote)
	authed.POST("/sales/cash", h.Sales.RecordCashSale)
	authed.POST("/sales/credit", h.Sales.RecordCreditSale)
	authed.GET("/sales/records", h.Sales.ListRecords)
	authed.GET("/sales/summary", h.Stock.SalesSummary)

	authed.POST("/procurement", h.Procurement.Record)
	authed.GET("/procurement/records", h.Procurement.ListRecords)
	authed.GET("/procurement/summary", h.Procurement.Summary)

	authed.GET("/stock/summary", h.Stock.Summary)
	authed.GET("/stock/alerts", h.Stock.Alerts)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
