package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LeFrancilien/LeadFlow/internal/dto"
	"github.com/LeFrancilien/LeadFlow/internal/entity"
	"github.com/LeFrancilien/LeadFlow/internal/repository"
	"github.com/LeFrancilien/LeadFlow/internal/service/scoring"
)

// ErrLeadNotFound is surfaced when the lead to enrich does not exist.
var ErrLeadNotFound = errors.New("lead not found")

// CompanyProvider looks up company registry data.
type CompanyProvider interface {
	CompanyBySIREN(ctx context.Context, siren string) *PappersCompany
	CompanyByName(ctx context.Context, name string) *PappersCompany
}

// EmailFinder discovers an email address for a person at a domain.
type EmailFinder interface {
	FindEmail(ctx context.Context, domain, firstName, lastName string) *EmailHit
}

// EmailVerifier checks email deliverability.
type EmailVerifier interface {
	Verify(ctx context.Context, email string) Verification
}

// Enricher runs the three-step enrichment pipeline for single leads and
// batches. Each run is idempotently re-runnable: providers are re-queried
// and the score is recomputed from the merged result.
type Enricher struct {
	leads    repository.LeadsRepository
	logs     repository.EnrichmentLogsRepository
	company  CompanyProvider
	finder   EmailFinder
	verifier EmailVerifier
	now      func() time.Time
}

// NewEnricher wires an enrichment pipeline.
func NewEnricher(
	leads repository.LeadsRepository,
	logs repository.EnrichmentLogsRepository,
	company CompanyProvider,
	finder EmailFinder,
	verifier EmailVerifier,
) *Enricher {
	return &Enricher{
		leads:    leads,
		logs:     logs,
		company:  company,
		finder:   finder,
		verifier: verifier,
		now:      time.Now,
	}
}

// EnrichLead enriches exactly one lead. Provider failures degrade to skipped
// steps; only a missing lead or a failed final persist abort the run.
func (e *Enricher) EnrichLead(ctx context.Context, leadID uuid.UUID) (*dto.EnrichResult, error) {
	lead, err := e.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("load lead: %w", err)
	}

	d := newDraft(*lead)
	var steps []dto.StepResult

	// 1. Company registry: only when the lead carries a registry id or a name.
	if lead.SIREN != "" || lead.CompanyName != "" {
		var company *PappersCompany
		if lead.SIREN != "" {
			company = e.company.CompanyBySIREN(ctx, lead.SIREN)
		} else {
			company = e.company.CompanyByName(ctx, lead.CompanyName)
		}

		if company != nil {
			fields := company.LeadFields()
			d.stageCompany(fields)
			e.appendLog(ctx, leadID, entity.ProviderPappers, marshalLogData(company), entity.EnrichmentStatusSuccess)
			steps = append(steps, dto.StepResult{Provider: entity.ProviderPappers, Status: entity.EnrichmentStatusSuccess, Data: fields})
		} else {
			e.appendLog(ctx, leadID, entity.ProviderPappers, nil, entity.EnrichmentStatusSkipped)
			steps = append(steps, dto.StepResult{Provider: entity.ProviderPappers, Status: entity.EnrichmentStatusSkipped})
		}
	}

	// 2. Email discovery: needs a website (stored or staged), a full name,
	// and no existing email on the lead.
	if website := d.website(); website != "" && lead.FirstName != "" && lead.LastName != "" && lead.Email == "" {
		domain := ExtractDomain(website)
		hit := e.finder.FindEmail(ctx, domain, lead.FirstName, lead.LastName)

		if hit != nil && hit.Email != "" {
			d.stageEmail(hit.Email)
			e.appendLog(ctx, leadID, entity.ProviderHunter, marshalLogData(hit), entity.EnrichmentStatusSuccess)
			steps = append(steps, dto.StepResult{Provider: entity.ProviderHunter, Status: entity.EnrichmentStatusSuccess, Data: map[string]string{"email": hit.Email}})
		} else {
			e.appendLog(ctx, leadID, entity.ProviderHunter, nil, entity.EnrichmentStatusSkipped)
			steps = append(steps, dto.StepResult{Provider: entity.ProviderHunter, Status: entity.EnrichmentStatusSkipped})
		}
	}

	// 3. Verification: always attempted once an email is known. The log entry
	// is marked skipped for an unknown outcome while the step result stays
	// success, matching the historical behavior of this pipeline.
	if email := d.email(); email != "" {
		verification := e.verifier.Verify(ctx, email)
		d.stageVerification(verification.Outcome)

		logStatus := entity.EnrichmentStatusSuccess
		if verification.Outcome == entity.EmailVerifiedUnknown {
			logStatus = entity.EnrichmentStatusSkipped
		}
		e.appendLog(ctx, leadID, entity.ProviderNeverBounce,
			marshalLogData(map[string]any{"email": email, "result": verification.Outcome, "attempted": verification.Attempted}),
			logStatus)
		steps = append(steps, dto.StepResult{Provider: entity.ProviderNeverBounce, Status: entity.EnrichmentStatusSuccess, Data: map[string]string{"result": verification.Outcome}})
	}

	// 4. Finalize: stamp the enrichment time, rescore the merged view, persist
	// all staged updates in one write.
	now := e.now()
	d.patch.EnrichedAt = &now

	breakdown := scoring.Score(scoring.FromLead(d.merged()))
	d.patch.Score = &breakdown.Total

	if err := e.leads.Update(ctx, leadID, d.patch); err != nil {
		return nil, fmt.Errorf("persist enriched lead: %w", err)
	}

	return &dto.EnrichResult{
		LeadID: leadID.String(),
		Score:  breakdown.Total,
		Steps:  steps,
	}, nil
}

// EnrichBatch enriches the requested leads strictly sequentially. It never
// stops on a failure and always returns one entry per requested id.
func (e *Enricher) EnrichBatch(ctx context.Context, leadIDs []uuid.UUID) []dto.BatchEnrichEntry {
	entries := make([]dto.BatchEnrichEntry, 0, len(leadIDs))
	for _, id := range leadIDs {
		entry := dto.BatchEnrichEntry{LeadID: id.String()}
		if _, err := e.EnrichLead(ctx, id); err != nil {
			entry.Error = err.Error()
		} else {
			entry.Success = true
		}
		entries = append(entries, entry)
	}
	return entries
}

// appendLog writes one audit row. Audit failures are logged and swallowed:
// they must not abort the pipeline.
func (e *Enricher) appendLog(ctx context.Context, leadID uuid.UUID, provider string, data json.RawMessage, status string) {
	if err := e.logs.Append(ctx, leadID, provider, data, status); err != nil {
		zap.L().Warn("enrichment log write failed",
			zap.String("lead_id", leadID.String()),
			zap.String("provider", provider),
			zap.Error(err))
	}
}

func marshalLogData(payload any) json.RawMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}
