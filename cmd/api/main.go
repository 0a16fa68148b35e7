package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mail-calendar-automation/config"
	"mail-calendar-automation/internal/app"
	"mail-calendar-automation/internal/httpserver"
	"mail-calendar-automation/internal/middleware"
	"mail-calendar-automation/internal/scheduler"
	"mail-calendar-automation/pkg/log"
)

const schedulerStopTimeout = 30 * time.Second

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting mail calendar automation...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Calendar provider: %s, ledger: %s", cfg.Calendar.Provider, cfg.Ledger.Dir)

	srvCfg := httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		Middleware: middleware.Config{
			InternalKey:     cfg.HTTPServer.InternalKey,
			RateLimitPerMin: cfg.HTTPServer.RateLimitPerMin,
		},
	}

	// 3. Pipeline and scheduler
	var sched *scheduler.Scheduler
	a, err := app.New(ctx, cfg, logger, app.Options{RequireMailbox: true})
	if err != nil {
		logger.Warnf(ctx, "Pipeline disabled: %v", err)
		logger.Warn(ctx, "→ Run `mailcal auth` to store a Google token, then restart")
	} else {
		srvCfg.Automation = a.Pipeline
		srvCfg.Correlator = a.Correlator
		srvCfg.Ledger = a.Ledger
		srvCfg.Location = a.Location

		sched, err = scheduler.New(func(ctx context.Context) error {
			out, err := a.Pipeline.ProcessInbox(ctx)
			logger.Infof(ctx, "Poll finished: processed=%d already_seen=%d", out.Processed(), out.AlreadySeen)
			return err
		}, scheduler.Config{
			IntervalMinutes: cfg.Scheduler.CheckIntervalMinutes,
			RunOnStart:      cfg.Scheduler.RunOnStart,
		}, logger)
		if err != nil {
			logger.Error(ctx, "Failed to create scheduler: ", err)
			os.Exit(1)
		}
		if err := sched.Start(ctx); err != nil {
			logger.Error(ctx, "Failed to start scheduler: ", err)
			os.Exit(1)
		}
	}

	// 4. HTTP Server
	httpServer, err := httpserver.New(logger, srvCfg)
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		os.Exit(1)
	}

	// 5. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
	}

	if sched != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), schedulerStopTimeout)
		defer cancel()
		if err := sched.Stop(stopCtx); err != nil {
			logger.Warnf(stopCtx, "Scheduler did not stop cleanly: %v", err)
		}
	}

	logger.Info(ctx, "Server stopped gracefully")
}
