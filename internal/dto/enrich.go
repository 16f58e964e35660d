package dto

// StepResult describes the outcome of one provider step during enrichment.
type StepResult struct {
	Provider string `json:"provider"`
	Status   string `json:"status"`
	Data     any    `json:"data,omitempty"`
}

// EnrichResult is returned to the caller after enriching a single lead.
type EnrichResult struct {
	LeadID string       `json:"lead_id"`
	Score  int          `json:"score"`
	Steps  []StepResult `json:"steps"`
}

// BatchEnrichRequest lists the lead ids to enrich sequentially.
type BatchEnrichRequest struct {
	LeadIDs []string `json:"lead_ids"`
}

// BatchEnrichEntry reports the per-lead outcome of a batch run.
type BatchEnrichEntry struct {
	LeadID  string `json:"lead_id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
