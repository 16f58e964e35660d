package dto

// RowError records a row-indexed failure during import. Rows are 1-based,
// counted from the first data row after the header.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportSummary aggregates the outcome of an import run.
type ImportSummary struct {
	Imported   int        `json:"imported"`
	Duplicates int        `json:"duplicates"`
	Errors     []RowError `json:"errors"`
	Total      int        `json:"total"`
}

// ImportScrapeRequest selects which scrape results to promote to leads.
type ImportScrapeRequest struct {
	Indices []int `json:"indices"`
}

// ScrapeImportSummary aggregates the outcome of promoting scrape results.
type ScrapeImportSummary struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Total      int `json:"total"`
}
