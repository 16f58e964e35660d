package dto

// CreateScrapingJobRequest is the payload used to start a scrape run.
type CreateScrapingJobRequest struct {
	Name       string `json:"name"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// ScrapingStatusRequest is the callback payload posted by the scrape worker
// to advance the job lifecycle.
type ScrapingStatusRequest struct {
	Status       string `json:"status"`
	Results      []any  `json:"results,omitempty"`
	TotalResults *int   `json:"total_results,omitempty"`
	Error        string `json:"error,omitempty"`
}
