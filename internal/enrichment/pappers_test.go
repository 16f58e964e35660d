package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPappersClient_CompanyBySIREN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/entreprise" {
			t.Errorf("path = %q, want /entreprise", r.URL.Path)
		}
		if got := r.URL.Query().Get("siren"); got != "552100554" {
			t.Errorf("siren = %q", got)
		}
		if got := r.URL.Query().Get("api_token"); got != "test-key" {
			t.Errorf("api_token = %q", got)
		}
		_, _ = w.Write([]byte(`{
			"siren": "552100554",
			"siret_siege": "55210055400013",
			"nom_entreprise": "Durand SA",
			"libelle_code_naf": "Conseil",
			"tranche_effectif": "20 à 49 salariés",
			"chiffre_affaires": 1500000,
			"site_internet": "https://durand.fr",
			"adresse_ligne_1": "1 rue de la Paix",
			"code_postal": "75002",
			"ville": "Paris"
		}`))
	}))
	defer server.Close()

	client := NewPappersClient(server.Client(), "test-key")
	client.baseURL = server.URL

	company := client.CompanyBySIREN(context.Background(), "552100554")
	if company == nil {
		t.Fatal("expected a company")
	}

	fields := company.LeadFields()
	if fields.SIRET != "55210055400013" {
		t.Errorf("siret = %q", fields.SIRET)
	}
	if fields.Sector != "Conseil" {
		t.Errorf("sector = %q", fields.Sector)
	}
	if fields.CompanySize != "20 à 49 salariés" {
		t.Errorf("company size = %q", fields.CompanySize)
	}
	if fields.Revenue != "1500000" {
		t.Errorf("revenue = %q", fields.Revenue)
	}
	if fields.Website != "https://durand.fr" {
		t.Errorf("website = %q", fields.Website)
	}
	if fields.City != "Paris" {
		t.Errorf("city = %q", fields.City)
	}
}

func TestPappersClient_CompanyByName_FirstResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recherche" {
			t.Errorf("path = %q, want /recherche", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Durand" {
			t.Errorf("q = %q", got)
		}
		_, _ = w.Write([]byte(`{"resultats":[{"siren":"552100554","nom_entreprise":"Durand SA"},{"siren":"111111111"}]}`))
	}))
	defer server.Close()

	client := NewPappersClient(server.Client(), "test-key")
	client.baseURL = server.URL

	company := client.CompanyByName(context.Background(), "Durand")
	if company == nil {
		t.Fatal("expected a company")
	}
	if company.SIREN != "552100554" {
		t.Errorf("siren = %q, want the first result", company.SIREN)
	}
}

func TestPappersClient_SoftFailures(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"not found": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"empty record": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		},
		"garbage body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
	}
	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			client := NewPappersClient(server.Client(), "test-key")
			client.baseURL = server.URL

			if company := client.CompanyBySIREN(context.Background(), "552100554"); company != nil {
				t.Fatalf("expected nil, got %+v", company)
			}
		})
	}
}

func TestPappersClient_NoAPIKey(t *testing.T) {
	client := NewPappersClient(nil, "")
	if company := client.CompanyBySIREN(context.Background(), "552100554"); company != nil {
		t.Fatalf("expected nil without api key, got %+v", company)
	}
	if company := client.CompanyByName(context.Background(), "Durand"); company != nil {
		t.Fatalf("expected nil without api key, got %+v", company)
	}
}

func TestPappersCompany_LeadFields_EffectifsFallback(t *testing.T) {
	company := PappersCompany{SIREN: "552100554", Effectifs: "12"}
	if got := company.LeadFields().CompanySize; got != "12" {
		t.Fatalf("company size = %q, want 12", got)
	}
}
