package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mukwano/agrotrack/internal/config"
	"github.com/mukwano/agrotrack/internal/repository/mongodb"
	"github.com/mukwano/agrotrack/internal/repository/sheets"
	"github.com/mukwano/agrotrack/internal/scheduler"
	"github.com/mukwano/agrotrack/internal/server/handlers"
	"github.com/mukwano/agrotrack/internal/server/router"
	authsvc "github.com/mukwano/agrotrack/internal/service/auth"
	"github.com/mukwano/agrotrack/internal/service/inventory"
	"github.com/mukwano/agrotrack/internal/service/pricing"
	procurementsvc "github.com/mukwano/agrotrack/internal/service/procurement"
	reportingsvc "github.com/mukwano/agrotrack/internal/service/reporting"
	salessvc "github.com/mukwano/agrotrack/internal/service/sales"
	"github.com/mukwano/agrotrack/pkg/clients/notify"
	"github.com/mukwano/agrotrack/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoClient, err := mongodb.Connect(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb client", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	if err := mongoClient.EnsureIndexes(context.Background()); err != nil {
		baseLogger.Fatal("failed to ensure mongodb indexes", zap.Error(err))
	}

	ledger := inventory.NewLedger(mongoClient.Stock(), baseLogger.Named("svc.inventory"))
	resolver := pricing.NewResolver(ledger)
	saleCoordinator := salessvc.NewCoordinator(ledger, mongoClient.Sales(), baseLogger.Named("svc.sales"))
	procurementCoordinator := procurementsvc.NewCoordinator(ledger, mongoClient.Procurements(), baseLogger.Named("svc.procurement"))
	reports := reportingsvc.NewService(mongoClient.Stock(), mongoClient.Sales(), cfg.Alerts.ThresholdKg, baseLogger.Named("svc.reporting"))
	authService := authsvc.NewService(mongoClient.Users(), cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour, baseLogger.Named("svc.auth"))

	engine := router.New(router.Handlers{
		Auth:        handlers.NewAuthHandler(authService, baseLogger.Named("handlers.auth")),
		Sales:       handlers.NewSalesHandler(saleCoordinator, resolver, baseLogger.Named("handlers.sales")),
		Procurement: handlers.NewProcurementHandler(procurementCoordinator, baseLogger.Named("handlers.procurement")),
		Stock:       handlers.NewStockHandler(reports, baseLogger.Named("handlers.stock")),
	}, cfg.Auth.JWTSecret, baseLogger.Named("router"))

	var notifier notify.Client
	if cfg.Alerts.WebhookURL != "" {
		notifier = notify.NewWebhookClient(cfg.Alerts.WebhookURL)
		baseLogger.Info("alert webhook notifier enabled")
	} else {
		baseLogger.Warn("no alert webhook configured, daily digests will only be logged")
	}

	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		sheetExporter, err := sheets.NewSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetExporter
		baseLogger.Info("stock snapshot sheet export enabled")
	}

	sched := scheduler.NewScheduler(cfg.Alerts, reports, notifier, exporter, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
