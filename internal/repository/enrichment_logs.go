package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LeFrancilien/LeadFlow/internal/entity"
)

// Queries against the enrichment log are capped to keep the audit endpoint bounded.
const enrichmentLogLimit = 100

// EnrichmentLogsRepository describes the append-only audit log store.
type EnrichmentLogsRepository interface {
	Append(ctx context.Context, leadID uuid.UUID, provider string, data json.RawMessage, status string) error
	List(ctx context.Context, leadID *uuid.UUID) ([]entity.EnrichmentLog, error)
}

// PGXEnrichmentLogsRepository implements EnrichmentLogsRepository using pgx.
type PGXEnrichmentLogsRepository struct {
	pool pgxPool
}

// NewPGXEnrichmentLogsRepository wires a pgx backed repository.
func NewPGXEnrichmentLogsRepository(pool *pgxpool.Pool) *PGXEnrichmentLogsRepository {
	return &PGXEnrichmentLogsRepository{pool: pool}
}

// Append inserts one audit row. The data payload may be nil for skipped steps.
func (r *PGXEnrichmentLogsRepository) Append(ctx context.Context, leadID uuid.UUID, provider string, data json.RawMessage, status string) error {
	var payload any
	if len(data) > 0 {
		payload = string(data)
	}

	_, err := r.pool.Exec(ctx, `
        INSERT INTO enrichment_logs (lead_id, provider, data, status)
        VALUES ($1, $2, $3::jsonb, $4)
    `, leadID, provider, payload, status)
	if err != nil {
		return fmt.Errorf("append enrichment log: %w", err)
	}
	return nil
}

// List returns the most recent log rows, optionally scoped to one lead.
func (r *PGXEnrichmentLogsRepository) List(ctx context.Context, leadID *uuid.UUID) ([]entity.EnrichmentLog, error) {
	query := `
        SELECT id, lead_id, provider, data, status, created_at
        FROM enrichment_logs
    `
	args := []any{}
	if leadID != nil {
		query += " WHERE lead_id = $1"
		args = append(args, *leadID)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", enrichmentLogLimit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list enrichment logs: %w", err)
	}
	defer rows.Close()

	var logs []entity.EnrichmentLog
	for rows.Next() {
		var (
			log  entity.EnrichmentLog
			data []byte
		)
		if err := rows.Scan(&log.ID, &log.LeadID, &log.Provider, &data, &log.Status, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan enrichment log: %w", err)
		}
		if len(data) > 0 {
			log.Data = json.RawMessage(data)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrichment logs: %w", err)
	}
	return logs, nil
}
