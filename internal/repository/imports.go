package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LeFrancilien/LeadFlow/internal/entity"
)

// ErrImportRunNotFound is returned when no import run matches the id.
var ErrImportRunNotFound = errors.New("import run not found")

// ImportRunsRepository records CSV import runs and their outcomes.
type ImportRunsRepository interface {
	Insert(ctx context.Context, run *entity.ImportRun) error
	Finish(ctx context.Context, id uuid.UUID, status string, imported, duplicates int, rowErrors json.RawMessage) error
	List(ctx context.Context) ([]entity.ImportRun, error)
}

// PGXImportRunsRepository implements ImportRunsRepository using pgx.
type PGXImportRunsRepository struct {
	pool pgxPool
}

// NewPGXImportRunsRepository wires a pgx backed repository.
func NewPGXImportRunsRepository(pool *pgxpool.Pool) *PGXImportRunsRepository {
	return &PGXImportRunsRepository{pool: pool}
}

// Insert persists a new import run record and fills the generated id.
func (r *PGXImportRunsRepository) Insert(ctx context.Context, run *entity.ImportRun) error {
	if run == nil {
		return fmt.Errorf("import run payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO imports (filename, status, total_rows)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `, run.Filename, run.Status, run.TotalRows)

	if err := row.Scan(&run.ID, &run.CreatedAt); err != nil {
		return fmt.Errorf("insert import run: %w", err)
	}
	return nil
}

// Finish records the terminal state and counters of an import run.
func (r *PGXImportRunsRepository) Finish(ctx context.Context, id uuid.UUID, status string, imported, duplicates int, rowErrors json.RawMessage) error {
	if len(rowErrors) == 0 {
		rowErrors = json.RawMessage("[]")
	}

	tag, err := r.pool.Exec(ctx, `
        UPDATE imports
        SET status = $1, imported_rows = $2, duplicates = $3, errors = $4::jsonb
        WHERE id = $5
    `, status, imported, duplicates, string(rowErrors), id)
	if err != nil {
		return fmt.Errorf("finish import run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrImportRunNotFound
	}
	return nil
}

// List returns all import runs ordered by creation time (desc).
func (r *PGXImportRunsRepository) List(ctx context.Context) ([]entity.ImportRun, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, filename, status, total_rows, imported_rows, duplicates, errors, created_at
        FROM imports
        ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	defer rows.Close()

	var runs []entity.ImportRun
	for rows.Next() {
		var (
			run       entity.ImportRun
			rowErrors []byte
		)
		if err := rows.Scan(&run.ID, &run.Filename, &run.Status, &run.TotalRows, &run.ImportedRows, &run.Duplicates, &rowErrors, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan import run: %w", err)
		}
		if len(rowErrors) > 0 {
			run.Errors = json.RawMessage(rowErrors)
		} else {
			run.Errors = json.RawMessage("[]")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import runs: %w", err)
	}
	return runs, nil
}
