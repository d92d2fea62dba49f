// Package health classifies pipeline freshness and volume against configured
// thresholds and aggregates per-run severity.
package health

import (
	"fmt"
	"time"

	"github.com/pipewatch/pipewatch/internal/models"
	"github.com/pipewatch/pipewatch/internal/pipeline"
)

// StaleSentinel is the hours-stale value reported when a pipeline has no rows
// inside the lookback window.
const StaleSentinel = 999

// Options control how a single run classifies results.
type Options struct {
	Now         time.Time
	VolumeCheck bool
}

// Classify turns the raw aggregates for one pipeline into a final result.
func Classify(p pipeline.Config, stats models.PipelineStats, opts Options) models.PipelineResult {
	if stats.LastRecord == nil {
		return models.PipelineResult{
			Pipeline:    p.Name,
			Description: p.Description,
			Status:      models.StatusCritical,
			HoursStale:  StaleSentinel,
			Volume:      models.VolumeNormal,
			Trend:       models.TrendDown,
			Message:     fmt.Sprintf("No data found in last %d days", pipeline.LookbackDays),
		}
	}

	status := models.StatusOK
	switch {
	case stats.HoursStale > p.CriticalHours:
		status = models.StatusCritical
	case stats.HoursStale > p.EffectiveWarningHours():
		status = models.StatusWarning
	}

	// The volume flag is always recorded once it trips, but it only ever
	// escalates an otherwise healthy pipeline.
	volume := models.VolumeNormal
	if opts.VolumeCheck && p.MinDailyRecords > 0 &&
		opts.Now.Hour() >= p.CheckAfterHour && stats.RecordsToday < p.MinDailyRecords {
		volume = models.VolumeLow
		if status == models.StatusOK {
			status = models.StatusWarning
		}
	}

	return models.PipelineResult{
		Pipeline:         p.Name,
		Description:      p.Description,
		Status:           status,
		HoursStale:       stats.HoursStale,
		RecordsToday:     stats.RecordsToday,
		RecordsYesterday: stats.RecordsYesterday,
		RecordsWeek:      stats.RecordsWeek,
		LastRecord:       stats.LastRecord,
		Volume:           volume,
		Trend:            TrendOf(stats.RecordsToday, stats.RecordsYesterday),
		Message:          fmt.Sprintf("%dh since update, %d records today", stats.HoursStale, stats.RecordsToday),
	}
}

// TrendOf compares today's record count to yesterday's.
func TrendOf(today, yesterday int) models.Trend {
	switch {
	case yesterday == 0:
		return models.TrendFlat
	case today > yesterday:
		return models.TrendUp
	case today < yesterday:
		return models.TrendDown
	default:
		return models.TrendFlat
	}
}

// Overall reduces a result list to the most severe status present.
func Overall(results []models.PipelineResult) models.Status {
	overall := models.StatusOK
	for _, r := range results {
		if r.Status.Severity() > overall.Severity() {
			overall = r.Status
		}
	}
	return overall
}

// Counts tallies results by status.
func Counts(results []models.PipelineResult) (ok, warning, critical int) {
	for _, r := range results {
		switch r.Status {
		case models.StatusCritical:
			critical++
		case models.StatusWarning:
			warning++
		default:
			ok++
		}
	}
	return ok, warning, critical
}

// ClassifyOperators bands the active-operator headcount against a check-in
// window's expectation: exact match is OK, at or above the floor is WARNING,
// anything lower is CRITICAL.
func ClassifyOperators(count int, exp pipeline.OperatorExpectation) models.OperatorCheck {
	check := models.OperatorCheck{
		Count:     count,
		Expected:  exp.Expected,
		WarnFloor: exp.WarnFloor,
		Status:    models.StatusCritical,
	}
	switch {
	case count == exp.Expected:
		check.Status = models.StatusOK
	case count >= exp.WarnFloor:
		check.Status = models.StatusWarning
	}
	return check
}
