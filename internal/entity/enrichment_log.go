package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Enrichment log outcomes.
const (
	EnrichmentStatusSuccess = "success"
	EnrichmentStatusError   = "error"
	EnrichmentStatusSkipped = "skipped"
)

// Enrichment provider identifiers.
const (
	ProviderPappers     = "pappers"
	ProviderHunter      = "hunter"
	ProviderNeverBounce = "neverbounce"
)

// EnrichmentLog is an append-only audit record written once per provider
// invocation during lead enrichment.
type EnrichmentLog struct {
	ID        uuid.UUID       `json:"id"`
	LeadID    uuid.UUID       `json:"lead_id"`
	Provider  string          `json:"provider"`
	Data      json.RawMessage `json:"data"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
