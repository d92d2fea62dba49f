package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/pipewatch/pipewatch/internal/chat"
	"github.com/pipewatch/pipewatch/internal/health"
	"github.com/pipewatch/pipewatch/internal/metrics"
	"github.com/pipewatch/pipewatch/internal/models"
	"github.com/pipewatch/pipewatch/internal/pipeline"
)

// Checkin is the scheduled business-hours check against one window's
// pipeline subset.
type Checkin struct {
	window       pipeline.Window
	catalog      []pipeline.Config
	stats        StatsSource
	aggregates   AggregatesSource
	sender       CardSender
	dashboardURL string
	pusher       *metrics.Pusher
	logger       *slog.Logger
	now          func() time.Time
}

// NewCheckin creates the check-in runner for one window. The catalog is the
// full configured pipeline set; the window names the subset to check.
func NewCheckin(
	window pipeline.Window,
	catalog []pipeline.Config,
	stats StatsSource,
	aggregates AggregatesSource,
	sender CardSender,
	dashboardURL string,
	pusher *metrics.Pusher,
	logger *slog.Logger,
) *Checkin {
	return &Checkin{
		window:       window,
		catalog:      catalog,
		stats:        stats,
		aggregates:   aggregates,
		sender:       sender,
		dashboardURL: dashboardURL,
		pusher:       pusher,
		logger:       logger,
		now:          time.Now,
	}
}

// Run executes one check-in and returns the process exit code. Only a
// CRITICAL pipeline fails the run; warnings are reported but exit zero.
func (c *Checkin) Run(ctx context.Context) int {
	started := c.now()
	c.logger.Info("starting check-in", "window", c.window.Name, "title", c.window.Title)

	var results []models.PipelineResult
	for _, p := range pipeline.Select(c.catalog, c.window.Pipelines) {
		c.logger.Info("checking pipeline", "pipeline", p.Name)

		stats, err := c.stats.PipelineStats(ctx, p)
		if err != nil {
			c.logger.Error("pipeline query failed", "pipeline", p.Name, "error", err)
			return ExitDatabase
		}

		results = append(results, health.Classify(p, stats, health.Options{Now: c.now(), VolumeCheck: false}))
	}

	// Headcount trouble shows on the card but never fails the run; the
	// staffing dimension lags for reasons outside the ETL's control.
	var operators *models.OperatorCheck
	if c.window.Operators != nil {
		count, err := c.aggregates.ActiveOperatorCount(ctx)
		if err != nil {
			c.logger.Error("failed to count active operators", "error", err)
			count = 0
		}
		check := health.ClassifyOperators(count, *c.window.Operators)
		operators = &check
		c.logger.Info("operator count", "count", count, "expected", c.window.Operators.Expected)
	}

	if c.sender.Enabled() {
		card := chat.CheckinCard(c.window, results, operators, c.dashboardURL, c.now())
		if err := c.sender.Send(ctx, card); err != nil {
			c.logger.Error("failed to send check-in card", "error", err)
		}
	}

	_, warning, critical := health.Counts(results)
	pushRunMetrics(ctx, c.pusher, c.logger, results, started, c.now())

	switch {
	case critical > 0:
		c.logger.Warn("check-in complete", "critical", critical, "warning", warning)
		return ExitIssues
	case warning > 0:
		c.logger.Warn("check-in complete", "warning", warning)
		return ExitOK
	default:
		c.logger.Info("check-in complete, all pipelines healthy")
		return ExitOK
	}
}
