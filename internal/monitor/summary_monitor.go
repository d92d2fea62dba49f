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

// Summary is the end-of-day report run. It always exits zero when the run
// completes; the card itself carries the health verdict.
type Summary struct {
	pipelines  []pipeline.Config
	stats      StatsSource
	aggregates AggregatesSource
	sender     CardSender
	pusher     *metrics.Pusher
	logger     *slog.Logger
	now        func() time.Time
}

// NewSummary creates the daily summary runner.
func NewSummary(
	pipelines []pipeline.Config,
	stats StatsSource,
	aggregates AggregatesSource,
	sender CardSender,
	pusher *metrics.Pusher,
	logger *slog.Logger,
) *Summary {
	return &Summary{
		pipelines:  pipelines,
		stats:      stats,
		aggregates: aggregates,
		sender:     sender,
		pusher:     pusher,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one summary report and returns the process exit code.
func (s *Summary) Run(ctx context.Context) int {
	started := s.now()
	s.logger.Info("starting daily summary")

	var results []models.PipelineResult
	for _, p := range s.pipelines {
		s.logger.Info("checking pipeline", "pipeline", p.Name)

		stats, err := s.stats.PipelineStats(ctx, p)
		if err != nil {
			s.logger.Error("pipeline query failed", "pipeline", p.Name, "error", err)
			return ExitDatabase
		}

		results = append(results, health.Classify(p, stats, health.Options{Now: s.now(), VolumeCheck: false}))
	}

	// The headline figures are nice to have; a failed aggregate query must
	// not suppress the report itself.
	var daily *models.DailyStats
	if stats, err := s.aggregates.DailyStats(ctx); err != nil {
		s.logger.Error("failed to load daily stats", "error", err)
	} else {
		daily = &stats
	}

	if s.sender.Enabled() {
		if err := s.sender.Send(ctx, chat.SummaryCard(results, daily, s.now())); err != nil {
			s.logger.Error("failed to send summary card", "error", err)
		}
	}

	_, warning, critical := health.Counts(results)
	s.logger.Info("daily summary complete", "critical", critical, "warning", warning)

	for _, r := range results {
		s.logger.Info("pipeline result",
			"pipeline", r.Pipeline,
			"status", string(r.Status),
			"hours_stale", r.HoursStale,
			"records_today", r.RecordsToday,
			"records_yesterday", r.RecordsYesterday)
	}

	pushRunMetrics(ctx, s.pusher, s.logger, results, started, s.now())
	return ExitOK
}
