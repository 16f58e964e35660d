package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LeFrancilien/LeadFlow/internal/dto"
	"github.com/LeFrancilien/LeadFlow/internal/entity"
	"github.com/LeFrancilien/LeadFlow/internal/repository"
)

// ErrScrapingJobNotFound is returned when the requested job does not exist.
var ErrScrapingJobNotFound = errors.New("scraping job not found")

// ErrWorkerUnavailable is returned when the scrape worker rejects a job.
var ErrWorkerUnavailable = errors.New("scrape worker unavailable")

const (
	defaultMaxResults = 50
	maxMaxResults     = 200

	sourceTypeGoogleMaps = "google_maps"
)

// WorkerPoster posts JSON payloads to worker endpoints.
type WorkerPoster interface {
	PostJSON(ctx context.Context, path string, payload any, requestID string) (map[string]any, error)
}

// ScrapingService manages the lifecycle of scrape runs: job creation with
// worker dispatch, worker status callbacks, and listing.
type ScrapingService struct {
	repo   repository.ScrapingJobsRepository
	worker WorkerPoster
	now    func() time.Time
}

// NewScrapingService creates a new instance of ScrapingService.
func NewScrapingService(repo repository.ScrapingJobsRepository, worker WorkerPoster) *ScrapingService {
	return &ScrapingService{repo: repo, worker: worker, now: time.Now}
}

// CreateJob records a pending scrape run and dispatches it to the worker.
// When the worker rejects the dispatch the job is marked failed and
// ErrWorkerUnavailable is returned.
func (s *ScrapingService) CreateJob(ctx context.Context, req dto.CreateScrapingJobRequest, requestID string) (*entity.ScrapingJob, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ValidationError{Fields: map[string]string{"query": "is required"}}
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > maxMaxResults {
		maxResults = maxMaxResults
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = query
	}

	job := entity.ScrapingJob{
		Name:       name,
		SourceType: sourceTypeGoogleMaps,
		Config:     entity.ScrapingJobConfig{Query: query, MaxResults: maxResults},
		Status:     entity.ScrapingStatusPending,
	}
	if err := s.repo.Insert(ctx, &job); err != nil {
		return nil, fmt.Errorf("insert scraping job: %w", err)
	}

	payload := map[string]any{
		"job_id":      job.ID.String(),
		"query":       query,
		"max_results": maxResults,
	}
	if _, err := s.worker.PostJSON(ctx, "/scrape", payload, requestID); err != nil {
		s.markDispatchFailed(ctx, job.ID, err)
		return nil, fmt.Errorf("%w: %s", ErrWorkerUnavailable, err.Error())
	}
	return &job, nil
}

func (s *ScrapingService) markDispatchFailed(ctx context.Context, id uuid.UUID, cause error) {
	status := entity.ScrapingStatusFailed
	msg := cause.Error()
	completed := s.now()
	patch := repository.ScrapingJobPatch{Status: &status, Error: &msg, CompletedAt: &completed}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		zap.L().Warn("failed to mark scraping job as failed",
			zap.String("job_id", id.String()), zap.Error(err))
	}
}

// UpdateStatus applies a worker callback to the job lifecycle.
func (s *ScrapingService) UpdateStatus(ctx context.Context, id uuid.UUID, req dto.ScrapingStatusRequest) (*entity.ScrapingJob, error) {
	var patch repository.ScrapingJobPatch
	now := s.now()

	switch req.Status {
	case entity.ScrapingStatusRunning:
		patch.Status = &req.Status
		patch.StartedAt = &now
	case entity.ScrapingStatusCompleted:
		patch.Status = &req.Status
		patch.CompletedAt = &now

		results, err := json.Marshal(req.Results)
		if err != nil {
			return nil, fmt.Errorf("encode results: %w", err)
		}
		patch.Results = results

		total := len(req.Results)
		if req.TotalResults != nil {
			total = *req.TotalResults
		}
		patch.TotalResults = &total
	case entity.ScrapingStatusFailed:
		patch.Status = &req.Status
		patch.CompletedAt = &now
		msg := req.Error
		if msg == "" {
			msg = "scrape failed"
		}
		patch.Error = &msg
	default:
		return nil, ValidationError{Fields: map[string]string{
			"status": "must be one of: running, completed, failed",
		}}
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrScrapingJobNotFound) {
			return nil, ErrScrapingJobNotFound
		}
		return nil, fmt.Errorf("update scraping job: %w", err)
	}
	return s.GetJob(ctx, id)
}

// GetJob fetches one scrape run by id.
func (s *ScrapingService) GetJob(ctx context.Context, id uuid.UUID) (*entity.ScrapingJob, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScrapingJobNotFound) {
			return nil, ErrScrapingJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// ListJobs returns all scrape runs, newest first.
func (s *ScrapingService) ListJobs(ctx context.Context) ([]entity.ScrapingJob, error) {
	return s.repo.List(ctx)
}

// DeleteJob removes one scrape run.
func (s *ScrapingService) DeleteJob(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrScrapingJobNotFound) {
		return ErrScrapingJobNotFound
	}
	return err
}
