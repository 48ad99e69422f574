package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/flockreport/internal/config"
	"github.com/mamadbah2/flockreport/internal/repository/mongodb"
	"github.com/mamadbah2/flockreport/internal/repository/sheets"
	"github.com/mamadbah2/flockreport/internal/scheduler"
	"github.com/mamadbah2/flockreport/internal/server/handlers"
	"github.com/mamadbah2/flockreport/internal/server/router"
	"github.com/mamadbah2/flockreport/internal/service/access"
	"github.com/mamadbah2/flockreport/internal/service/analytics"
	"github.com/mamadbah2/flockreport/internal/service/export"
	"github.com/mamadbah2/flockreport/internal/service/notify"
	"github.com/mamadbah2/flockreport/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/flockreport/pkg/clients/whatsapp"
	"github.com/mamadbah2/flockreport/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	cancelConnect()
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	resolver := access.NewResolver(mongoRepo, baseLogger.Named("svc.access"))
	engine := analytics.NewEngine(mongoRepo, resolver, analytics.Options{
		VATRate:          cfg.Reporting.VATRate,
		ChickExpenseType: cfg.Reporting.ChickExpenseType,
		VetExpenseType:   cfg.Reporting.VetExpenseType,
	}, baseLogger.Named("svc.analytics"))

	var exporter reporting.SnapshotExporter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exporter = export.NewSheetsExporter(sheetsRepo, baseLogger.Named("svc.export"))
	} else {
		baseLogger.Warn("google sheets not configured, snapshot export disabled")
	}

	var notifier notify.Notifier
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		notifier = notify.NewWhatsAppNotifier(cfg.WhatsApp, whatsClient, baseLogger.Named("svc.notify"))
	} else {
		baseLogger.Warn("whatsapp not configured, balance alerts disabled")
	}

	reportingSvc := reporting.NewService(engine, exporter, notifier, cfg.Reporting.LookbackDays, baseLogger.Named("svc.reporting"))

	reportHandler := handlers.NewReportHandler(engine, baseLogger.Named("handlers.reports"))
	httpEngine := router.New(reportHandler, cfg.Auth.JWTSecret, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpEngine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
