package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/LeFrancilien/LeadFlow/internal/entity"
)

const defaultNeverBounceBaseURL = "https://api.neverbounce.com/v4"

// Verification is the outcome of one email verification attempt.
// Attempted distinguishes "the provider answered unknown" from "the check
// never usefully happened" (missing credential or transport failure).
type Verification struct {
	Outcome   string
	Attempted bool
}

// NeverBounceClient checks email deliverability through the NeverBounce API.
type NeverBounceClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewNeverBounceClient builds a verification client. The API key may be empty.
func NewNeverBounceClient(client *http.Client, apiKey string) *NeverBounceClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &NeverBounceClient{client: client, apiKey: apiKey, baseURL: defaultNeverBounceBaseURL}
}

// NeverBounce result codes: 0=valid, 1=invalid, 2=disposable, 3=catchall, 4=unknown.
// Catch-all is treated as valid; any unrecognized code maps to unknown.
var neverBounceOutcomes = map[int]string{
	0: entity.EmailVerifiedValid,
	1: entity.EmailVerifiedInvalid,
	2: entity.EmailVerifiedDisposable,
	3: entity.EmailVerifiedValid,
	4: entity.EmailVerifiedUnknown,
}

// Verify checks a single email address. It never returns an error: soft
// failures yield an unknown, unattempted verification.
func (c *NeverBounceClient) Verify(ctx context.Context, email string) Verification {
	unattempted := Verification{Outcome: entity.EmailVerifiedUnknown}

	if c.apiKey == "" {
		zap.L().Debug("neverbounce verification skipped: no api key")
		return unattempted
	}

	body, err := json.Marshal(map[string]string{"key": c.apiKey, "email": email})
	if err != nil {
		zap.L().Debug("neverbounce payload marshal failed", zap.Error(err))
		return unattempted
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/single/check", bytes.NewReader(body))
	if err != nil {
		zap.L().Debug("neverbounce request build failed", zap.Error(err))
		return unattempted
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		zap.L().Debug("neverbounce request failed", zap.Error(err))
		return unattempted
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		zap.L().Debug("neverbounce returned non-2xx", zap.Int("status", resp.StatusCode))
		return unattempted
	}

	var payload struct {
		Result int `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		zap.L().Debug("neverbounce response decode failed", zap.Error(err))
		return unattempted
	}

	outcome, ok := neverBounceOutcomes[payload.Result]
	if !ok {
		outcome = entity.EmailVerifiedUnknown
	}
	return Verification{Outcome: outcome, Attempted: true}
}
