package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pipewatch/pipewatch/internal/models"
)

// StatsRepository reads the headline figures shown in the daily summary
// and the operator headcount used by check-in runs.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// DailyStats returns today's call totals and the active operator count.
func (r *StatsRepository) DailyStats(ctx context.Context) (models.DailyStats, error) {
	var stats models.DailyStats

	query := `
		SELECT
			(SELECT COUNT(*) FROM fact_calls WHERE called_at::date = CURRENT_DATE),
			(SELECT COUNT(DISTINCT operator_id) FROM dim_operator WHERE is_active),
			(SELECT COUNT(*) FROM fact_first_calls WHERE alerted_at::date = CURRENT_DATE)`

	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.CallsToday,
		&stats.ActiveOperators,
		&stats.FirstCallsToday,
	)
	if err != nil {
		return models.DailyStats{}, fmt.Errorf("failed to query daily stats: %w", err)
	}

	return stats, nil
}

// ActiveOperatorCount returns the number of operators currently flagged
// active in the dimension table.
func (r *StatsRepository) ActiveOperatorCount(ctx context.Context) (int, error) {
	var count int

	query := `SELECT COUNT(DISTINCT operator_id) FROM dim_operator WHERE is_active`

	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to query active operators: %w", err)
	}

	return count, nil
}
