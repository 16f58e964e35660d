package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Import run statuses.
const (
	ImportStatusPending    = "pending"
	ImportStatusProcessing = "processing"
	ImportStatusCompleted  = "completed"
	ImportStatusFailed     = "failed"
)

// ImportRun records one CSV import: how many rows were seen, inserted,
// skipped as duplicates, and the per-row errors collected along the way.
type ImportRun struct {
	ID           uuid.UUID       `json:"id"`
	Filename     string          `json:"filename"`
	Status       string          `json:"status"`
	TotalRows    int             `json:"total_rows"`
	ImportedRows int             `json:"imported_rows"`
	Duplicates   int             `json:"duplicates"`
	Errors       json.RawMessage `json:"errors"`
	CreatedAt    time.Time       `json:"created_at"`
}
