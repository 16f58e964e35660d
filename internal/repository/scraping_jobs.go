package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LeFrancilien/LeadFlow/internal/entity"
)

// ErrScrapingJobNotFound is returned when no scraping job matches the id.
var ErrScrapingJobNotFound = errors.New("scraping job not found")

// ScrapingJobPatch carries a partial scraping job update.
type ScrapingJobPatch struct {
	Status          *string
	Results         json.RawMessage
	TotalResults    *int
	ImportedResults *int
	Error           *string
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// ScrapingJobsRepository describes persistence operations for scrape runs.
type ScrapingJobsRepository interface {
	Insert(ctx context.Context, job *entity.ScrapingJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ScrapingJob, error)
	List(ctx context.Context) ([]entity.ScrapingJob, error)
	Update(ctx context.Context, id uuid.UUID, patch ScrapingJobPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGXScrapingJobsRepository implements ScrapingJobsRepository using pgx.
type PGXScrapingJobsRepository struct {
	pool pgxPool
}

// NewPGXScrapingJobsRepository wires a pgx backed repository.
func NewPGXScrapingJobsRepository(pool *pgxpool.Pool) *PGXScrapingJobsRepository {
	return &PGXScrapingJobsRepository{pool: pool}
}

// Insert persists a new pending job and fills the generated id.
func (r *PGXScrapingJobsRepository) Insert(ctx context.Context, job *entity.ScrapingJob) error {
	if job == nil {
		return fmt.Errorf("scraping job payload is nil")
	}

	config, err := json.Marshal(job.Config)
	if err != nil {
		return fmt.Errorf("marshal job config: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO scraping_jobs (name, source_type, config, status)
        VALUES ($1, $2, $3::jsonb, $4)
        RETURNING id, created_at
    `, job.Name, job.SourceType, string(config), job.Status)

	if err := row.Scan(&job.ID, &job.CreatedAt); err != nil {
		return fmt.Errorf("insert scraping job: %w", err)
	}
	return nil
}

const scrapingJobColumns = `
        id, name, source_type, config, status, results,
        total_results, imported_results, error, started_at, completed_at, created_at`

// GetByID fetches a single job by identifier.
func (r *PGXScrapingJobsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ScrapingJob, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+scrapingJobColumns+` FROM scraping_jobs WHERE id = $1`, id)

	job, err := scanScrapingJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScrapingJobNotFound
		}
		return nil, fmt.Errorf("query scraping job: %w", err)
	}
	return job, nil
}

// List returns all jobs ordered by creation time (desc).
func (r *PGXScrapingJobsRepository) List(ctx context.Context) ([]entity.ScrapingJob, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+scrapingJobColumns+` FROM scraping_jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list scraping jobs: %w", err)
	}
	defer rows.Close()

	var jobs []entity.ScrapingJob
	for rows.Next() {
		job, err := scanScrapingJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scraping job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scraping jobs: %w", err)
	}
	return jobs, nil
}

// Update applies a partial update to the job row.
func (r *PGXScrapingJobsRepository) Update(ctx context.Context, id uuid.UUID, patch ScrapingJobPatch) error {
	setClauses := make([]string, 0)
	args := make([]any, 0)
	idx := 1

	appendSet := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if patch.Status != nil {
		appendSet("status", *patch.Status)
	}
	if patch.Results != nil {
		setClauses = append(setClauses, fmt.Sprintf("results = $%d::jsonb", idx))
		args = append(args, string(patch.Results))
		idx++
	}
	if patch.TotalResults != nil {
		appendSet("total_results", *patch.TotalResults)
	}
	if patch.ImportedResults != nil {
		appendSet("imported_results", *patch.ImportedResults)
	}
	if patch.Error != nil {
		appendSet("error", *patch.Error)
	}
	if patch.StartedAt != nil {
		appendSet("started_at", *patch.StartedAt)
	}
	if patch.CompletedAt != nil {
		appendSet("completed_at", *patch.CompletedAt)
	}

	if len(setClauses) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE scraping_jobs SET %s WHERE id = $%d", strings.Join(setClauses, ", "), idx)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update scraping job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrScrapingJobNotFound
	}
	return nil
}

// Delete removes a job by id.
func (r *PGXScrapingJobsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM scraping_jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scraping job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrScrapingJobNotFound
	}
	return nil
}

func scanScrapingJob(row rowScanner) (*entity.ScrapingJob, error) {
	var (
		job         entity.ScrapingJob
		config      []byte
		results     []byte
		jobErr      sql.NullString
		startedAt   sql.NullTime
		completedAt sql.NullTime
	)

	err := row.Scan(
		&job.ID,
		&job.Name,
		&job.SourceType,
		&config,
		&job.Status,
		&results,
		&job.TotalResults,
		&job.ImportedResults,
		&jobErr,
		&startedAt,
		&completedAt,
		&job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(config) > 0 {
		if err := json.Unmarshal(config, &job.Config); err != nil {
			return nil, fmt.Errorf("unmarshal job config: %w", err)
		}
	}
	if len(results) > 0 {
		job.Results = json.RawMessage(results)
	} else {
		job.Results = json.RawMessage("[]")
	}
	job.Error = jobErr.String
	if startedAt.Valid {
		ts := startedAt.Time
		job.StartedAt = &ts
	}
	if completedAt.Valid {
		ts := completedAt.Time
		job.CompletedAt = &ts
	}

	return &job, nil
}
