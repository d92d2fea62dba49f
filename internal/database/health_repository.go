package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/pipewatch/pipewatch/internal/models"
	"github.com/pipewatch/pipewatch/internal/pipeline"
)

// HealthRepository reads freshness and volume figures for monitored tables.
type HealthRepository struct {
	db *sql.DB
}

// NewHealthRepository creates a new health repository.
func NewHealthRepository(db *sql.DB) *HealthRepository {
	return &HealthRepository{db: db}
}

// PipelineStats gathers the raw numbers for one pipeline in a single round
// trip. Staleness is computed against the database clock, not the caller's,
// so a skewed monitor host cannot produce phantom alerts.
func (r *HealthRepository) PipelineStats(ctx context.Context, p pipeline.Config) (models.PipelineStats, error) {
	query := buildPipelineStatsQuery(p)

	var (
		lastRecord sql.NullTime
		hoursStale sql.NullInt64
		stats      models.PipelineStats
	)

	err := r.db.QueryRowContext(ctx, query).Scan(
		&lastRecord,
		&hoursStale,
		&stats.RecordsToday,
		&stats.RecordsYesterday,
		&stats.RecordsWeek,
	)
	if err != nil {
		return models.PipelineStats{}, fmt.Errorf("failed to query pipeline %s: %w", p.Name, err)
	}

	if lastRecord.Valid {
		t := lastRecord.Time
		stats.LastRecord = &t
	}
	if hoursStale.Valid {
		stats.HoursStale = int(hoursStale.Int64)
	}

	return stats, nil
}

// buildPipelineStatsQuery assembles the aggregate query for one pipeline.
// Table and column names come from configuration, so they are quoted as
// identifiers rather than interpolated raw. ExtraWhere is appended verbatim
// and must be a valid boolean clause starting with AND.
func buildPipelineStatsQuery(p pipeline.Config) string {
	table := pq.QuoteIdentifier(p.Table)
	column := pq.QuoteIdentifier(p.DateColumn)

	return fmt.Sprintf(`
		SELECT
			MAX(%[2]s) AS last_record,
			FLOOR(EXTRACT(EPOCH FROM (NOW() - MAX(%[2]s))) / 3600)::int AS hours_stale,
			COUNT(*) FILTER (WHERE %[2]s::date = CURRENT_DATE) AS records_today,
			COUNT(*) FILTER (WHERE %[2]s::date = CURRENT_DATE - 1) AS records_yesterday,
			COUNT(*) AS records_week
		FROM %[1]s
		WHERE %[2]s >= CURRENT_DATE - INTERVAL '%[3]d days'
		%[4]s`,
		table, column, pipeline.LookbackDays, p.ExtraWhere)
}
