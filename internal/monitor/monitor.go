// Package monitor holds the run orchestrators behind the three binaries.
// Each runner executes one batch check and reports its outcome as a process
// exit code for the cron scheduler.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pipewatch/pipewatch/internal/chat"
	"github.com/pipewatch/pipewatch/internal/health"
	"github.com/pipewatch/pipewatch/internal/metrics"
	"github.com/pipewatch/pipewatch/internal/models"
	"github.com/pipewatch/pipewatch/internal/pipeline"
)

// Exit codes shared by all monitors. The scheduler keys retry and paging
// behavior off these values.
const (
	ExitOK         = 0
	ExitIssues     = 1
	ExitDatabase   = 2
	ExitUnexpected = 3
)

// StatsSource provides the per-pipeline aggregates a run classifies.
type StatsSource interface {
	PipelineStats(ctx context.Context, p pipeline.Config) (models.PipelineStats, error)
}

// AggregatesSource provides the warehouse-wide figures used by the summary
// and check-in runs.
type AggregatesSource interface {
	DailyStats(ctx context.Context) (models.DailyStats, error)
	ActiveOperatorCount(ctx context.Context) (int, error)
}

// CardSender delivers webhook messages. Send is only called when Enabled
// reports true.
type CardSender interface {
	Enabled() bool
	Send(ctx context.Context, msg chat.Message) error
}

// formatHealthTable renders the fixed-width status table logged after every
// health run.
func formatHealthTable(results []models.PipelineResult) string {
	rule := strings.Repeat("=", 80)

	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	b.WriteString("PIPELINE HEALTH SUMMARY\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-20s %-10s %-8s %-10s %-12s\n", "Pipeline", "Status", "Hours", "Today", "Volume")
	b.WriteString(strings.Repeat("-", 80) + "\n")

	for _, r := range results {
		fmt.Fprintf(&b, "%-20s %-10s %-8d %-10d %-12s\n",
			r.Pipeline, r.Status, r.HoursStale, r.RecordsToday, r.Volume)
	}

	b.WriteString(rule)
	return b.String()
}

// pushRunMetrics records and pushes batch gauges. Failures are logged and
// swallowed; metrics never change a run's exit code.
func pushRunMetrics(ctx context.Context, pusher *metrics.Pusher, logger *slog.Logger, results []models.PipelineResult, started, finished time.Time) {
	pusher.Record(results, health.Overall(results), started, finished)
	if err := pusher.Push(ctx); err != nil {
		logger.Error("failed to push metrics", "error", err)
	}
}
