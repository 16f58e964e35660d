package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const defaultPappersBaseURL = "https://api.pappers.fr/v2"

// PappersCompany is the raw company record returned by the Pappers registry API.
type PappersCompany struct {
	SIREN             string  `json:"siren"`
	SIRETSiege        string  `json:"siret_siege"`
	Denomination      string  `json:"denomination"`
	NomEntreprise     string  `json:"nom_entreprise"`
	CodeNAF           string  `json:"code_naf"`
	LibelleCodeNAF    string  `json:"libelle_code_naf"`
	TrancheEffectif   string  `json:"tranche_effectif"`
	Effectifs         string  `json:"effectifs"`
	DateCreation      string  `json:"date_creation"`
	CategorieJuridique string `json:"categorie_juridique"`
	ChiffreAffaires   *float64 `json:"chiffre_affaires"`
	SiteInternet      string  `json:"site_internet"`
	AdresseLigne1     string  `json:"adresse_ligne_1"`
	CodePostal        string  `json:"code_postal"`
	Ville             string  `json:"ville"`
}

// CompanyFields is the subset of a registry record that maps onto lead attributes.
type CompanyFields struct {
	SIREN       string `json:"siren"`
	SIRET       string `json:"siret"`
	Sector      string `json:"sector"`
	CompanySize string `json:"company_size"`
	Revenue     string `json:"revenue"`
	Website     string `json:"website"`
	Address     string `json:"address"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
}

// LeadFields maps the raw registry record onto lead attributes.
func (p PappersCompany) LeadFields() CompanyFields {
	size := p.TrancheEffectif
	if size == "" {
		size = p.Effectifs
	}
	revenue := ""
	if p.ChiffreAffaires != nil {
		revenue = strconv.FormatFloat(*p.ChiffreAffaires, 'f', -1, 64)
	}
	return CompanyFields{
		SIREN:       p.SIREN,
		SIRET:       p.SIRETSiege,
		Sector:      p.LibelleCodeNAF,
		CompanySize: size,
		Revenue:     revenue,
		Website:     p.SiteInternet,
		Address:     p.AdresseLigne1,
		PostalCode:  p.CodePostal,
		City:        p.Ville,
	}
}

// PappersClient looks up French companies in the Pappers business registry.
// Every failure mode (missing credential, transport error, non-2xx, no match)
// degrades to a nil result so the enrichment pipeline can continue.
type PappersClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewPappersClient builds a registry client. The API key may be empty, in
// which case every lookup soft-skips.
func NewPappersClient(client *http.Client, apiKey string) *PappersClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &PappersClient{client: client, apiKey: apiKey, baseURL: defaultPappersBaseURL}
}

// CompanyBySIREN looks up a company by its national business id.
func (c *PappersClient) CompanyBySIREN(ctx context.Context, siren string) *PappersCompany {
	if c.apiKey == "" {
		zap.L().Debug("pappers lookup skipped: no api key")
		return nil
	}

	endpoint := fmt.Sprintf("%s/entreprise?api_token=%s&siren=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(siren))

	var company PappersCompany
	if !c.getJSON(ctx, endpoint, &company) {
		return nil
	}
	if company.SIREN == "" {
		return nil
	}
	return &company
}

// CompanyByName looks up a company by free-text name, returning the best match.
func (c *PappersClient) CompanyByName(ctx context.Context, name string) *PappersCompany {
	if c.apiKey == "" {
		zap.L().Debug("pappers lookup skipped: no api key")
		return nil
	}

	endpoint := fmt.Sprintf("%s/recherche?api_token=%s&q=%s&page=1&par_page=1",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(name))

	var payload struct {
		Resultats []PappersCompany `json:"resultats"`
	}
	if !c.getJSON(ctx, endpoint, &payload) {
		return nil
	}
	if len(payload.Resultats) == 0 {
		return nil
	}
	return &payload.Resultats[0]
}

func (c *PappersClient) getJSON(ctx context.Context, endpoint string, out any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		zap.L().Debug("pappers request build failed", zap.Error(err))
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		zap.L().Debug("pappers request failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		zap.L().Debug("pappers returned non-2xx", zap.Int("status", resp.StatusCode))
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		zap.L().Debug("pappers response decode failed", zap.Error(err))
		return false
	}
	return true
}
