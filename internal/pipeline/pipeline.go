// Package pipeline defines the catalog of monitored ETL pipelines and the
// scheduled check-in windows.
package pipeline

import (
	"fmt"
)

// LookbackDays bounds every pipeline query; rows older than this are
// invisible to the monitor.
const LookbackDays = 7

// Config describes one monitored pipeline: where its rows live and the
// thresholds that classify its health.
type Config struct {
	Name            string `yaml:"name"`
	Table           string `yaml:"table"`
	DateColumn      string `yaml:"date_column"`
	Description     string `yaml:"description"`
	CriticalHours   int    `yaml:"critical_hours"`
	WarningHours    int    `yaml:"warning_hours"`
	MinDailyRecords int    `yaml:"min_daily_records"`
	CheckAfterHour  int    `yaml:"check_after_hour"`
	ExtraWhere      string `yaml:"extra_where"`
}

// EffectiveWarningHours returns the configured warning threshold, deriving
// half the critical threshold when none is set.
func (c Config) EffectiveWarningHours() int {
	if c.WarningHours > 0 {
		return c.WarningHours
	}
	return c.CriticalHours / 2
}

// Validate checks that a pipeline definition is usable.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Table == "" {
		return fmt.Errorf("table is required")
	}
	if c.DateColumn == "" {
		return fmt.Errorf("date_column is required")
	}
	if c.CriticalHours <= 0 {
		return fmt.Errorf("critical_hours must be positive")
	}
	if c.WarningHours < 0 || c.WarningHours >= c.CriticalHours {
		return fmt.Errorf("warning_hours must be between 0 and critical_hours")
	}
	if c.MinDailyRecords < 0 {
		return fmt.Errorf("min_daily_records must not be negative")
	}
	if c.CheckAfterHour < 0 {
		return fmt.Errorf("check_after_hour must not be negative")
	}
	return nil
}

// Catalog returns the default monitored pipelines. Callers receive a fresh
// slice and may modify it freely.
func Catalog() []Config {
	return []Config{
		{
			Name:            "fact_calls",
			Table:           "fact_calls",
			DateColumn:      "called_at",
			Description:     "Call records",
			CriticalHours:   24,
			WarningHours:    12,
			MinDailyRecords: 1000,
			CheckAfterHour:  12, // volume is meaningless before midday
		},
		{
			Name:            "fact_first_calls",
			Table:           "fact_first_calls",
			DateColumn:      "alerted_at",
			Description:     "First call alerts",
			CriticalHours:   24,
			WarningHours:    12,
			MinDailyRecords: 500,
			CheckAfterHour:  12,
		},
		{
			Name:          "dim_agent_activity",
			Table:         "dim_agent_activity",
			DateColumn:    "activity_date",
			Description:   "Agent activity",
			CriticalHours: 48,
			WarningHours:  24,
			// no volume floor: activity can legitimately be zero on weekends
		},
		{
			Name:          "messaging_results",
			Table:         "messaging_results",
			DateColumn:    "created_at",
			Description:   "Outbound messaging results",
			CriticalHours: 48,
			WarningHours:  24,
			ExtraWhere:    "AND is_current = true",
		},
		{
			Name:          "support_tickets",
			Table:         "support_tickets",
			DateColumn:    "created_at",
			Description:   "Support tickets",
			CriticalHours: 48,
			WarningHours:  24,
			ExtraWhere:    "AND is_current = true",
		},
	}
}

// Find returns the named pipeline from cfgs.
func Find(cfgs []Config, name string) (Config, bool) {
	for _, c := range cfgs {
		if c.Name == name {
			return c, true
		}
	}
	return Config{}, false
}

// Select returns the subset of cfgs whose names appear in names, preserving
// the order of names. Unknown names are skipped.
func Select(cfgs []Config, names []string) []Config {
	selected := make([]Config, 0, len(names))
	for _, name := range names {
		if c, ok := Find(cfgs, name); ok {
			selected = append(selected, c)
		}
	}
	return selected
}
