package dto

// LeadFilter contains query parameters for the lead listing endpoint.
type LeadFilter struct {
	Search  string
	Status  string
	Source  string
	Type    string
	Page    int
	PerPage int
}

// CreateLeadRequest is the payload accepted when creating a lead.
// Absent enum fields fall back to the same defaults the lead form applies.
type CreateLeadRequest struct {
	Type        string   `json:"type" validate:"omitempty,oneof=B2B B2C"`
	Source      string   `json:"source" validate:"omitempty,oneof=scraping landing_page import manual"`
	Status      string   `json:"status" validate:"omitempty,oneof=new contacted qualified converted lost"`
	Score       int      `json:"score" validate:"gte=0,lte=100"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Phone       string   `json:"phone" validate:"omitempty,plausible_phone"`
	CompanyName string   `json:"company_name"`
	JobTitle    string   `json:"job_title"`
	SIREN       string   `json:"siren" validate:"omitempty,numeric,len=9"`
	SIRET       string   `json:"siret" validate:"omitempty,numeric,len=14"`
	CompanySize string   `json:"company_size"`
	Revenue     string   `json:"revenue"`
	Sector      string   `json:"sector"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	PostalCode  string   `json:"postal_code"`
	Country     string   `json:"country"`
	Website     string   `json:"website" validate:"omitempty,url"`
	LinkedInURL string   `json:"linkedin_url"`
	TwitterURL  string   `json:"twitter_url"`
	FacebookURL string   `json:"facebook_url"`
	Tags        []string `json:"tags"`
	Notes       string   `json:"notes"`
}

// UpdateLeadRequest carries a partial lead edit; nil fields are left untouched.
type UpdateLeadRequest struct {
	Type        *string   `json:"type" validate:"omitempty,oneof=B2B B2C"`
	Source      *string   `json:"source" validate:"omitempty,oneof=scraping landing_page import manual"`
	Status      *string   `json:"status" validate:"omitempty,oneof=new contacted qualified converted lost"`
	FirstName   *string   `json:"first_name"`
	LastName    *string   `json:"last_name"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	Phone       *string   `json:"phone" validate:"omitempty,plausible_phone"`
	CompanyName *string   `json:"company_name"`
	JobTitle    *string   `json:"job_title"`
	SIREN       *string   `json:"siren" validate:"omitempty,numeric,len=9"`
	SIRET       *string   `json:"siret" validate:"omitempty,numeric,len=14"`
	CompanySize *string   `json:"company_size"`
	Revenue     *string   `json:"revenue"`
	Sector      *string   `json:"sector"`
	Address     *string   `json:"address"`
	City        *string   `json:"city"`
	PostalCode  *string   `json:"postal_code"`
	Country     *string   `json:"country"`
	Website     *string   `json:"website" validate:"omitempty,url"`
	LinkedInURL *string   `json:"linkedin_url"`
	TwitterURL  *string   `json:"twitter_url"`
	FacebookURL *string   `json:"facebook_url"`
	Tags        *[]string `json:"tags"`
	Notes       *string   `json:"notes"`
}

// BulkDeleteRequest lists the lead ids to remove.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}
