package scoring

import "github.com/LeFrancilien/LeadFlow/internal/entity"

// FromLead projects a lead record onto the scoring input.
func FromLead(lead entity.Lead) Input {
	return Input{
		Email:         lead.Email,
		EmailVerified: lead.EmailVerified,
		Phone:         lead.Phone,
		FirstName:     lead.FirstName,
		LastName:      lead.LastName,
		CompanyName:   lead.CompanyName,
		SIREN:         lead.SIREN,
		SIRET:         lead.SIRET,
		Website:       lead.Website,
		LinkedInURL:   lead.LinkedInURL,
		Enriched:      lead.EnrichedAt != nil,
		Sector:        lead.Sector,
		City:          lead.City,
	}
}
