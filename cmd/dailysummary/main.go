// Command dailysummary posts the end-of-day pipeline report to Google Chat.
// It exits 0 whenever the run completes; the card carries the health
// verdict. Exit codes 2 and 3 signal database and unexpected failures.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/pipewatch/pipewatch/internal/chat"
	"github.com/pipewatch/pipewatch/internal/config"
	"github.com/pipewatch/pipewatch/internal/database"
	"github.com/pipewatch/pipewatch/internal/logging"
	"github.com/pipewatch/pipewatch/internal/metrics"
	"github.com/pipewatch/pipewatch/internal/monitor"
)

const job = "daily_summary"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
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

	runner := monitor.NewSummary(
		cfg.PipelineCatalog(),
		database.NewHealthRepository(db),
		database.NewStatsRepository(db),
		chat.NewSender(cfg.Chat.WebhookURL, logger),
		pusher,
		logger,
	)

	return runner.Run(ctx)
}
