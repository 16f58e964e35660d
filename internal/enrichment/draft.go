package enrichment

import (
	"github.com/LeFrancilien/LeadFlow/internal/entity"
	"github.com/LeFrancilien/LeadFlow/internal/repository"
)

// draft is the working view of a lead during enrichment: the stored record
// plus the updates staged so far. Each pipeline step reads through the draft
// so a value contributed by an earlier step is visible to later ones, and
// everything staged is persisted in one final write.
type draft struct {
	lead  entity.Lead
	patch repository.LeadPatch
}

func newDraft(lead entity.Lead) *draft {
	return &draft{lead: lead}
}

func (d *draft) website() string {
	if d.patch.Website != nil {
		return *d.patch.Website
	}
	return d.lead.Website
}

func (d *draft) email() string {
	if d.patch.Email != nil {
		return *d.patch.Email
	}
	return d.lead.Email
}

func (d *draft) stageCompany(fields CompanyFields) {
	stage := func(dst **string, value string) {
		if value != "" {
			v := value
			*dst = &v
		}
	}
	stage(&d.patch.SIREN, fields.SIREN)
	stage(&d.patch.SIRET, fields.SIRET)
	stage(&d.patch.Sector, fields.Sector)
	stage(&d.patch.CompanySize, fields.CompanySize)
	stage(&d.patch.Revenue, fields.Revenue)
	stage(&d.patch.Website, fields.Website)
	stage(&d.patch.Address, fields.Address)
	stage(&d.patch.PostalCode, fields.PostalCode)
	stage(&d.patch.City, fields.City)
}

func (d *draft) stageEmail(email string) {
	d.patch.Email = &email
}

func (d *draft) stageVerification(outcome string) {
	d.patch.EmailVerified = &outcome
}

// merged returns the lead as it will look once the staged updates are applied.
func (d *draft) merged() entity.Lead {
	lead := d.lead

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&lead.SIREN, d.patch.SIREN)
	apply(&lead.SIRET, d.patch.SIRET)
	apply(&lead.Sector, d.patch.Sector)
	apply(&lead.CompanySize, d.patch.CompanySize)
	apply(&lead.Revenue, d.patch.Revenue)
	apply(&lead.Website, d.patch.Website)
	apply(&lead.Address, d.patch.Address)
	apply(&lead.PostalCode, d.patch.PostalCode)
	apply(&lead.City, d.patch.City)
	apply(&lead.Email, d.patch.Email)
	apply(&lead.EmailVerified, d.patch.EmailVerified)
	if d.patch.EnrichedAt != nil {
		ts := *d.patch.EnrichedAt
		lead.EnrichedAt = &ts
	}

	return lead
}
