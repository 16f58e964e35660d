package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Lead type classification.
const (
	LeadTypeB2B = "B2B"
	LeadTypeB2C = "B2C"
)

// Lead acquisition sources.
const (
	LeadSourceScraping    = "scraping"
	LeadSourceLandingPage = "landing_page"
	LeadSourceImport      = "import"
	LeadSourceManual      = "manual"
)

// Lead pipeline statuses.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)

// Email verification outcomes. An empty value means the email was never checked.
const (
	EmailVerifiedValid      = "valid"
	EmailVerifiedInvalid    = "invalid"
	EmailVerifiedDisposable = "disposable"
	EmailVerifiedUnknown    = "unknown"
)

// Lead represents a prospective contact/company tracked through the sales pipeline.
// Text attributes use the empty string for "absent"; the score is always derived,
// never hand-set after creation.
type Lead struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Status        string          `json:"status"`
	Score         int             `json:"score"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	CompanyName   string          `json:"company_name"`
	JobTitle      string          `json:"job_title"`
	SIREN         string          `json:"siren"`
	SIRET         string          `json:"siret"`
	CompanySize   string          `json:"company_size"`
	Revenue       string          `json:"revenue"`
	Sector        string          `json:"sector"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	PostalCode    string          `json:"postal_code"`
	Country       string          `json:"country"`
	Website       string          `json:"website"`
	LinkedInURL   string          `json:"linkedin_url"`
	TwitterURL    string          `json:"twitter_url"`
	FacebookURL   string          `json:"facebook_url"`
	Tags          []string        `json:"tags"`
	Notes         string          `json:"notes"`
	Technologies  json.RawMessage `json:"technologies"`
	RawData       json.RawMessage `json:"raw_data"`
	EmailVerified string          `json:"email_verified"`
	EnrichedAt    *time.Time      `json:"enriched_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// HasIdentity reports whether the lead carries at least one identifying field.
func (l Lead) HasIdentity() bool {
	return l.Email != "" || l.CompanyName != "" || l.Phone != ""
}
