package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/pipewatch/pipewatch/internal/models"
)

// Pusher records the outcome of one monitor run and ships it to a Prometheus
// Pushgateway. Monitors are short-lived cron jobs, so metrics are pushed at
// the end of a run rather than scraped. A nil Pusher is valid and does
// nothing; NewPusher returns one when no gateway is configured.
type Pusher struct {
	registry *prometheus.Registry
	pusher   *push.Pusher

	hoursStale     *prometheus.GaugeVec
	recordsToday   *prometheus.GaugeVec
	pipelineStatus *prometheus.GaugeVec
	overallStatus  prometheus.Gauge
	runDuration    prometheus.Gauge
	lastRun        prometheus.Gauge
}

// NewPusher constructs a pusher grouped under the given job name.
func NewPusher(gatewayURL, job string) (*Pusher, error) {
	if gatewayURL == "" {
		return nil, nil
	}

	registry := prometheus.NewRegistry()

	hoursStale := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pipewatch",
		Subsystem: "pipeline",
		Name:      "hours_stale",
		Help:      "Hours since the most recent record in each pipeline.",
	}, []string{"pipeline"})

	recordsToday := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pipewatch",
		Subsystem: "pipeline",
		Name:      "records_today",
		Help:      "Records loaded today per pipeline.",
	}, []string{"pipeline"})

	pipelineStatus := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pipewatch",
		Subsystem: "pipeline",
		Name:      "status",
		Help:      "Classified pipeline status: 0 OK, 1 WARNING, 2 CRITICAL.",
	}, []string{"pipeline"})

	overallStatus := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pipewatch",
		Name:      "overall_status",
		Help:      "Worst status across all checked pipelines: 0 OK, 1 WARNING, 2 CRITICAL.",
	})

	runDuration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pipewatch",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of the monitor run.",
	})

	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pipewatch",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last completed monitor run.",
	})

	collectors := []prometheus.Collector{
		hoursStale, recordsToday, pipelineStatus, overallStatus, runDuration, lastRun,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Pusher{
		registry:       registry,
		pusher:         push.New(gatewayURL, job).Gatherer(registry),
		hoursStale:     hoursStale,
		recordsToday:   recordsToday,
		pipelineStatus: pipelineStatus,
		overallStatus:  overallStatus,
		runDuration:    runDuration,
		lastRun:        lastRun,
	}, nil
}

// Record captures the classified results of one run.
func (p *Pusher) Record(results []models.PipelineResult, overall models.Status, started, finished time.Time) {
	if p == nil {
		return
	}

	for _, r := range results {
		p.hoursStale.WithLabelValues(r.Pipeline).Set(float64(r.HoursStale))
		p.recordsToday.WithLabelValues(r.Pipeline).Set(float64(r.RecordsToday))
		p.pipelineStatus.WithLabelValues(r.Pipeline).Set(float64(r.Status.Severity()))
	}

	p.overallStatus.Set(float64(overall.Severity()))
	p.runDuration.Set(finished.Sub(started).Seconds())
	p.lastRun.Set(float64(finished.Unix()))
}

// Push delivers the recorded metrics to the gateway, replacing the previous
// push for the same job.
func (p *Pusher) Push(ctx context.Context) error {
	if p == nil {
		return nil
	}

	if err := p.pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}

	return nil
}
