package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LeFrancilien/LeadFlow/internal/entity"
)

// LeadStats is the raw aggregate snapshot used by the dashboard.
type LeadStats struct {
	Total        int
	ThisMonth    int
	Converted    int
	AverageScore float64
	BySource     map[string]int
	ByStatus     map[string]int
}

// StatsRepository computes aggregate lead metrics.
type StatsRepository interface {
	LeadStats(ctx context.Context, monthStart time.Time) (*LeadStats, error)
	RecentLeads(ctx context.Context, limit int) ([]entity.Lead, error)
}

// PGXStatsRepository implements StatsRepository using pgx.
type PGXStatsRepository struct {
	pool pgxPool
}

// NewPGXStatsRepository wires a pgx backed repository.
func NewPGXStatsRepository(pool *pgxpool.Pool) *PGXStatsRepository {
	return &PGXStatsRepository{pool: pool}
}

// LeadStats aggregates counters across the whole leads table.
func (r *PGXStatsRepository) LeadStats(ctx context.Context, monthStart time.Time) (*LeadStats, error) {
	stats := &LeadStats{
		BySource: make(map[string]int),
		ByStatus: make(map[string]int),
	}

	row := r.pool.QueryRow(ctx, `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE created_at >= $1),
            COUNT(*) FILTER (WHERE status = 'converted'),
            COALESCE(AVG(score), 0)
        FROM leads
    `, monthStart)
	if err := row.Scan(&stats.Total, &stats.ThisMonth, &stats.Converted, &stats.AverageScore); err != nil {
		return nil, fmt.Errorf("scan lead totals: %w", err)
	}

	if err := r.countBy(ctx, "source", stats.BySource); err != nil {
		return nil, err
	}
	if err := r.countBy(ctx, "status", stats.ByStatus); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecentLeads returns the newest leads for the dashboard activity panel.
func (r *PGXStatsRepository) RecentLeads(ctx context.Context, limit int) ([]entity.Lead, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT `+leadColumns+`
        FROM leads
        ORDER BY created_at DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

func (r *PGXStatsRepository) countBy(ctx context.Context, column string, into map[string]int) error {
	// column is one of the fixed identifiers above, never user input.
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
        SELECT %s, COUNT(*)
        FROM leads
        GROUP BY %s
    `, column, column))
	if err != nil {
		return fmt.Errorf("count leads by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan %s count: %w", column, err)
		}
		into[key] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s counts: %w", column, err)
	}
	return nil
}
