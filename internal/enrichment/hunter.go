package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const defaultHunterBaseURL = "https://api.hunter.io/v2"

// EmailHit is a discovered email candidate for a person at a domain.
type EmailHit struct {
	Email     string `json:"email"`
	Score     int    `json:"score"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Domain    string `json:"domain"`
}

// HunterClient discovers professional email addresses by domain and name.
// Like the other provider adapters it never raises: any failure yields nil.
type HunterClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewHunterClient builds an email discovery client. The API key may be empty.
func NewHunterClient(client *http.Client, apiKey string) *HunterClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HunterClient{client: client, apiKey: apiKey, baseURL: defaultHunterBaseURL}
}

// FindEmail looks up an email candidate for first/last at the given bare domain.
func (c *HunterClient) FindEmail(ctx context.Context, domain, firstName, lastName string) *EmailHit {
	if c.apiKey == "" {
		zap.L().Debug("hunter lookup skipped: no api key")
		return nil
	}

	endpoint := fmt.Sprintf("%s/email-finder?domain=%s&first_name=%s&last_name=%s&api_key=%s",
		c.baseURL,
		url.QueryEscape(domain),
		url.QueryEscape(firstName),
		url.QueryEscape(lastName),
		url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		zap.L().Debug("hunter request build failed", zap.Error(err))
		return nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		zap.L().Debug("hunter request failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		zap.L().Debug("hunter returned non-2xx", zap.Int("status", resp.StatusCode))
		return nil
	}

	var payload struct {
		Data EmailHit `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		zap.L().Debug("hunter response decode failed", zap.Error(err))
		return nil
	}
	if payload.Data.Email == "" {
		return nil
	}
	return &payload.Data
}
