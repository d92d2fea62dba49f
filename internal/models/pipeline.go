package models

import (
	"time"
)

// PipelineStats holds the raw aggregates returned by one pipeline query.
type PipelineStats struct {
	LastRecord       *time.Time // nil when no rows exist in the lookback window
	HoursStale       int
	RecordsToday     int
	RecordsYesterday int
	RecordsWeek      int
}

// PipelineResult is the classified outcome of a single pipeline check.
// Results are created once per run and never mutated.
type PipelineResult struct {
	Pipeline         string
	Description      string
	Status           Status
	HoursStale       int
	RecordsToday     int
	RecordsYesterday int
	RecordsWeek      int
	LastRecord       *time.Time
	Volume           VolumeStatus
	Trend            Trend
	Message          string
}

// DailyStats carries the warehouse-wide aggregates shown on the summary card.
type DailyStats struct {
	CallsToday      int
	ActiveOperators int
	FirstCallsToday int
}

// OperatorCheck is the outcome of the morning active-operator headcount check.
type OperatorCheck struct {
	Count     int
	Expected  int
	WarnFloor int
	Status    Status
}
