package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mukwano/agrotrack/internal/config"
	"github.com/mukwano/agrotrack/internal/repository/sheets"
	"github.com/mukwano/agrotrack/internal/service/reporting"
	"github.com/mukwano/agrotrack/pkg/clients/notify"
)

// Scheduler runs the daily stock digest job: scan for low stock, notify the
// webhook when one is configured, and append a snapshot to the ledger sheet
// when the export is configured. Either sink may be nil.
type Scheduler struct {
	cron     *cron.Cron
	reports  *reporting.Service
	notifier notify.Client
	exporter sheets.Exporter
	cfg      config.AlertsConfig
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.AlertsConfig, reports *reporting.Service, notifier notify.Client, exporter sheets.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		reports:  reports,
		notifier: notifier,
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDailyDigest); err != nil {
		s.logger.Error("failed to schedule daily digest", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()

	digest, err := s.reports.DailyDigest(ctx, now)
	if err != nil {
		s.logger.Error("failed to build daily digest", zap.Error(err))
	} else if digest == "" {
		s.logger.Info("no stock below threshold today")
	} else if s.notifier != nil {
		if err := s.notifier.SendDigest(ctx, digest); err != nil {
			s.logger.Error("failed to send daily digest", zap.Error(err))
		} else {
			s.logger.Info("daily digest sent")
		}
	} else {
		s.logger.Info("daily digest (no webhook configured)", zap.String("digest", digest))
	}

	if s.exporter == nil {
		return
	}

	snapshot, err := s.reports.Snapshot(ctx)
	if err != nil {
		s.logger.Error("failed to build stock snapshot", zap.Error(err))
		return
	}
	if err := s.exporter.AppendSnapshot(ctx, now, snapshot); err != nil {
		s.logger.Error("failed to export stock snapshot", zap.Error(err))
		return
	}
	s.logger.Info("stock snapshot exported", zap.Int("rows", len(snapshot)))
}
