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
	"github.com/pipewatch/pipewatch/internal/runlog"
)

// Health is the hourly freshness and volume check across every configured
// pipeline.
type Health struct {
	pipelines []pipeline.Config
	stats     StatsSource
	sender    CardSender
	files     *runlog.Files
	pusher    *metrics.Pusher
	logger    *slog.Logger
	now       func() time.Time
}

// NewHealth creates the health runner.
func NewHealth(
	pipelines []pipeline.Config,
	stats StatsSource,
	sender CardSender,
	files *runlog.Files,
	pusher *metrics.Pusher,
	logger *slog.Logger,
) *Health {
	return &Health{
		pipelines: pipelines,
		stats:     stats,
		sender:    sender,
		files:     files,
		pusher:    pusher,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one health check and returns the process exit code.
func (h *Health) Run(ctx context.Context) int {
	started := h.now()
	h.logger.Info("starting pipeline health check")

	var results, issues []models.PipelineResult
	for _, p := range h.pipelines {
		h.logger.Info("checking pipeline", "pipeline", p.Name)

		stats, err := h.stats.PipelineStats(ctx, p)
		if err != nil {
			h.logger.Error("pipeline query failed", "pipeline", p.Name, "error", err)
			return ExitDatabase
		}

		result := health.Classify(p, stats, health.Options{Now: h.now(), VolumeCheck: true})
		results = append(results, result)
		if result.Status != models.StatusOK {
			issues = append(issues, result)
		}
	}

	h.logger.Info(formatHealthTable(results))

	if len(issues) == 0 {
		h.logger.Info("all pipelines healthy")
		if err := h.files.WriteSuccessMarker(h.now()); err != nil {
			h.logger.Error("failed to write success marker", "error", err)
			return ExitUnexpected
		}
		pushRunMetrics(ctx, h.pusher, h.logger, results, started, h.now())
		return ExitOK
	}

	alertText := chat.AlertText(issues, h.now())
	h.logger.Warn(alertText)

	if h.sender.Enabled() {
		if err := h.sender.Send(ctx, chat.TextMessage(alertText)); err != nil {
			h.logger.Error("failed to send alert", "error", err)
		}
		for _, issue := range issues {
			if issue.Status != models.StatusCritical {
				continue
			}
			if err := h.sender.Send(ctx, chat.CriticalAlertCard(issue, h.now())); err != nil {
				h.logger.Error("failed to send critical alert card", "pipeline", issue.Pipeline, "error", err)
			}
		}
	}

	if err := h.files.AppendAlert(alertText, h.now()); err != nil {
		h.logger.Error("failed to append alert", "error", err)
		return ExitUnexpected
	}

	h.logger.Warn("pipeline issues found", "count", len(issues))
	pushRunMetrics(ctx, h.pusher, h.logger, results, started, h.now())
	return ExitIssues
}
