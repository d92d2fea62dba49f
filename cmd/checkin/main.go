// Command checkin posts a scheduled business-hours check for one of the
// configured windows. Without -period the window nearest the current time is
// used, so a delayed cron invocation still reports under the intended slot.
// It exits 1 only when a pipeline is CRITICAL; warnings exit 0.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/pipewatch/pipewatch/internal/chat"
	"github.com/pipewatch/pipewatch/internal/config"
	"github.com/pipewatch/pipewatch/internal/database"
	"github.com/pipewatch/pipewatch/internal/logging"
	"github.com/pipewatch/pipewatch/internal/metrics"
	"github.com/pipewatch/pipewatch/internal/monitor"
	"github.com/pipewatch/pipewatch/internal/pipeline"
)

const job = "checkin"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	period := flag.String("period", "", "check-in window: morning, first_shift or second_shift (nearest window when omitted)")
	flag.Parse()

	fallback := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback.Error("failed to load config", "error", err)
		return monitor.ExitUnexpected
	}

	logger, closer, err := logging.New(cfg.Logging, job)
	if err != nil {
		fallback.Error("failed to init logger", "error", err)
		return monitor.ExitUnexpected
	}
	defer closer.Close()

	logger = logger.With("run_id", uuid.NewString())

	var window pipeline.Window
	if *period != "" {
		w, ok := pipeline.WindowByName(*period)
		if !ok {
			logger.Error("unknown check-in period", "period", *period)
			return monitor.ExitUnexpected
		}
		window = w
	} else {
		window = pipeline.WindowForTime(time.Now())
		logger.Info("inferred check-in window", "window", window.Name, "scheduled", window.TimeOfDay)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.Database.URL
	dbCfg.ConnectTimeout = cfg.Database.ConnectTimeout

	db, err := database.Connect(ctx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return monitor.ExitDatabase
	}
	defer db.Close()

	pusher, err := metrics.NewPusher(cfg.Metrics.PushgatewayURL, job)
	if err != nil {
		logger.Warn("failed to init metrics pusher", "error", err)
	}

	runner := monitor.NewCheckin(
		window,
		cfg.PipelineCatalog(),
		database.NewHealthRepository(db),
		database.NewStatsRepository(db),
		chat.NewSender(cfg.Chat.WebhookURL, logger),
		cfg.Chat.DashboardURL,
		pusher,
		logger,
	)

	return runner.Run(ctx)
}
