package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Scraping job lifecycle statuses.
const (
	ScrapingStatusPending   = "pending"
	ScrapingStatusRunning   = "running"
	ScrapingStatusCompleted = "completed"
	ScrapingStatusFailed    = "failed"
)

// ScrapingJobConfig captures the query configuration for one scrape run.
type ScrapingJobConfig struct {
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults"`
}

// ScrapingJob represents one scrape run. The job is created as pending,
// advanced to running and then to a terminal state by the worker callback,
// and consumed by the import pipeline when results are promoted to leads.
type ScrapingJob struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	SourceType      string            `json:"source_type"`
	Config          ScrapingJobConfig `json:"config"`
	Status          string            `json:"status"`
	Results         json.RawMessage   `json:"results"`
	TotalResults    int               `json:"total_results"`
	ImportedResults int               `json:"imported_results"`
	Error           string            `json:"error,omitempty"`
	StartedAt       *time.Time        `json:"started_at,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ScrapeResult is one Google Maps listing collected by the scrape worker.
type ScrapeResult struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	Website      string   `json:"website"`
	Rating       *float64 `json:"rating"`
	ReviewsCount *int     `json:"reviews_count"`
	Category     string   `json:"category"`
	PlaceURL     string   `json:"place_url"`
}
