package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/wolffia-coop/ferntrack/internal/config"
	"github.com/wolffia-coop/ferntrack/internal/repository/mongodb"
	"github.com/wolffia-coop/ferntrack/internal/repository/sheets"
	"github.com/wolffia-coop/ferntrack/internal/service/dashboard"
	"github.com/wolffia-coop/ferntrack/internal/service/pipeline"
)

// Scheduler manages scheduled tasks: the nightly status reconcile sweep and
// the dashboard snapshot archival.
type Scheduler struct {
	cron         *cron.Cron
	pipelineSvc  *pipeline.Service
	dashboardSvc *dashboard.Service
	archive      mongodb.Repository
	exporter     sheets.Exporter
	cfg          config.ReconcileConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. archive and exporter may be
// nil when the corresponding sink is not configured.
func NewScheduler(cfg config.ReconcileConfig, pipelineSvc *pipeline.Service, dashboardSvc *dashboard.Service, archive mongodb.Repository, exporter sheets.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []cron.Option{}
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		opts = append(opts, cron.WithLocation(loc))
	} else {
		logger.Warn("unknown timezone, scheduler falls back to local time",
			zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	return &Scheduler{
		cron:         cron.New(opts...),
		pipelineSvc:  pipelineSvc,
		dashboardSvc: dashboardSvc,
		archive:      archive,
		exporter:     exporter,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runNightly)
	if err != nil {
		s.logger.Error("failed to schedule nightly job", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runNightly() {
	s.logger.Info("running nightly reconcile and snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.pipelineSvc.ReconcileAll(ctx); err != nil {
		s.logger.Error("reconcile sweep failed", zap.Error(err))
	}

	summary, err := s.dashboardSvc.Overview(ctx, "")
	if err != nil {
		s.logger.Error("failed to build dashboard snapshot", zap.Error(err))
		return
	}

	snapshot := dashboard.SnapshotFrom(summary, time.Now())

	if s.archive != nil {
		if err := s.archive.SaveDashboardSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to archive snapshot", zap.Error(err))
		}
	}

	if s.exporter != nil {
		if err := s.exporter.AppendSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to export snapshot to sheet", zap.Error(err))
		}
	}

	s.logger.Info("nightly job finished",
		zap.Int("total_products", snapshot.TotalProducts),
		zap.Int("completed", snapshot.Completed))
}
