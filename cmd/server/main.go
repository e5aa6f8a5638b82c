package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/wolffia-coop/ferntrack/internal/config"
	"github.com/wolffia-coop/ferntrack/internal/repository/entitystore"
	"github.com/wolffia-coop/ferntrack/internal/repository/mongodb"
	"github.com/wolffia-coop/ferntrack/internal/repository/sheets"
	"github.com/wolffia-coop/ferntrack/internal/scheduler"
	"github.com/wolffia-coop/ferntrack/internal/server/handlers"
	"github.com/wolffia-coop/ferntrack/internal/server/router"
	dashboardsvc "github.com/wolffia-coop/ferntrack/internal/service/dashboard"
	pipelinesvc "github.com/wolffia-coop/ferntrack/internal/service/pipeline"
	recordsvc "github.com/wolffia-coop/ferntrack/internal/service/records"
	"github.com/wolffia-coop/ferntrack/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	storeClient := entitystore.NewClient(cfg.Store, baseLogger.Named("repo.store"))
	branchRepo := entitystore.NewBranchRepository(storeClient)
	productRepo := entitystore.NewProductRepository(storeClient)
	stageRepo := entitystore.NewStageRepository(storeClient)
	recordRepo := entitystore.NewRecordRepository(storeClient)

	recordSvc := recordsvc.NewService(recordRepo, baseLogger.Named("svc.records"))
	registry := recordsvc.NewRegistry(cfg.Sessions.TTL)
	pipelineSvc := pipelinesvc.NewService(productRepo, stageRepo, baseLogger.Named("svc.pipeline"))
	dashboardSvc := dashboardsvc.NewService(branchRepo, productRepo, stageRepo, baseLogger.Named("svc.dashboard"))

	var archive mongodb.Repository
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, snapshot archive disabled")
	}

	var exporter sheets.Exporter
	if cfg.Sheets.SpreadsheetID != "" {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
	} else {
		baseLogger.Warn("spreadsheet id missing, sheet export disabled")
	}

	sessionHandler := handlers.NewRecordSessionHandler(recordSvc, registry, baseLogger.Named("handlers.sessions"))
	pipelineHandler := handlers.NewPipelineHandler(pipelineSvc, branchRepo, baseLogger.Named("handlers.pipeline"))
	dashboardHandler := handlers.NewDashboardHandler(dashboardSvc, baseLogger.Named("handlers.dashboard"))
	engine := router.New(sessionHandler, pipelineHandler, dashboardHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reconcile, pipelineSvc, dashboardSvc, archive, exporter, baseLogger.Named("scheduler"))
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
